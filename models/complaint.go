package models

import "time"

// Complaint statuses.
const (
	ComplaintStatusOpen               = "OPEN"
	ComplaintStatusUnderInvestigation = "UNDER_INVESTIGATION"
	ComplaintStatusResolved           = "RESOLVED"
	ComplaintStatusDismissed          = "DISMISSED"
)

// Complaint is a reader or author grievance, optionally tied to a submission.
type Complaint struct {
	ComplaintID   uint       `gorm:"primaryKey;column:complaint_id" json:"complaint_id"`
	SubmissionID  *uint      `gorm:"column:submission_id" json:"submission_id,omitempty"`
	ComplainantID uint       `gorm:"column:complainant_id" json:"complainant_id"`
	Subject       string     `gorm:"column:subject" json:"subject"`
	Body          string     `gorm:"column:body" json:"body"`
	Status        string     `gorm:"column:status;default:OPEN" json:"status"`
	Resolution    *string    `gorm:"column:resolution" json:"resolution,omitempty"`
	ResolvedBy    *uint      `gorm:"column:resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at" json:"updated_at"`

	Complainant *User       `gorm:"foreignKey:ComplainantID" json:"complainant,omitempty"`
	Submission  *Submission `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
}

// TableName specifies the table for Complaint.
func (Complaint) TableName() string {
	return "complaints"
}
