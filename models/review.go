package models

import "time"

// Review invitation / progress states.
const (
	ReviewStatusPending    = "PENDING"
	ReviewStatusInProgress = "IN_PROGRESS"
	ReviewStatusCompleted  = "COMPLETED"
	ReviewStatusDeclined   = "DECLINED"
)

// Reviewer recommendations.
const (
	RecommendationAccept        = "ACCEPT"
	RecommendationMinorRevision = "MINOR_REVISION"
	RecommendationMajorRevision = "MAJOR_REVISION"
	RecommendationReject        = "REJECT"
)

// Review represents a reviewer invitation and its eventual verdict.
type Review struct {
	ReviewID     uint    `gorm:"primaryKey;column:review_id" json:"review_id"`
	SubmissionID uint    `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID   uint    `gorm:"column:reviewer_id" json:"reviewer_id"`
	ReviewRound  int     `gorm:"column:review_round;default:1" json:"review_round"`
	ReviewStatus string  `gorm:"column:review_status" json:"review_status"`
	// Recommendation and Rating are immutable once ReviewStatus is COMPLETED.
	Recommendation       *string    `gorm:"column:recommendation" json:"recommendation"`
	Rating               *int       `gorm:"column:rating" json:"rating"`
	Comments             *string    `gorm:"column:comments" json:"comments"`
	ConfidentialComments *string    `gorm:"column:confidential_comments" json:"-"`
	DueDate              *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	InvitedAt            time.Time  `gorm:"column:invited_at" json:"invited_at"`
	AcceptedAt           *time.Time `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	SubmittedAt          *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	Submission *Submission `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
	Reviewer   *User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName specifies the table name for Review.
func (Review) TableName() string {
	return "reviews"
}

// IsTerminal reports whether the review can no longer change.
func (r *Review) IsTerminal() bool {
	return r.ReviewStatus == ReviewStatusCompleted || r.ReviewStatus == ReviewStatusDeclined
}

// ValidRecommendation reports whether v is one of the four verdicts.
func ValidRecommendation(v string) bool {
	switch v {
	case RecommendationAccept, RecommendationMinorRevision, RecommendationMajorRevision, RecommendationReject:
		return true
	}
	return false
}
