package models

import "time"

// SubmissionStatus is the manuscript lifecycle state.
type SubmissionStatus string

const (
	StatusSubmitted        SubmissionStatus = "SUBMITTED"
	StatusUnderReview      SubmissionStatus = "UNDER_REVIEW"
	StatusRevisionRequired SubmissionStatus = "REVISION_REQUIRED"
	StatusAccepted         SubmissionStatus = "ACCEPTED"
	StatusRejected         SubmissionStatus = "REJECTED"
	StatusPublished        SubmissionStatus = "PUBLISHED"
	StatusRetracted        SubmissionStatus = "RETRACTED"
)

// IsTerminal reports whether no further editorial transition is possible.
func (s SubmissionStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusRetracted
}

// Submission represents the submissions table.
type Submission struct {
	SubmissionID     uint             `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionNumber string           `gorm:"column:submission_number;unique" json:"submission_number"`
	Title            string           `gorm:"column:title" json:"title"`
	Abstract         string           `gorm:"column:abstract" json:"abstract"`
	Keywords         *string          `gorm:"column:keywords" json:"keywords,omitempty"`
	Status           SubmissionStatus `gorm:"column:status" json:"status"`
	AuthorID         uint             `gorm:"column:author_id" json:"author_id"`
	DOI              *string          `gorm:"column:doi" json:"doi,omitempty"`
	ReviewRound      int              `gorm:"column:review_round;default:1" json:"review_round"`
	RevisionDeadline *time.Time       `gorm:"column:revision_deadline" json:"revision_deadline,omitempty"`
	ProofApproved    bool             `gorm:"column:proof_approved" json:"proof_approved"`
	// Version backs the optimistic concurrency check on lifecycle writes.
	Version     int        `gorm:"column:version;default:1" json:"version"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	// Relations
	Author    User               `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CoAuthors []SubmissionAuthor `gorm:"foreignKey:SubmissionID" json:"co_authors,omitempty"`
	Files     []ManuscriptFile   `gorm:"foreignKey:SubmissionID" json:"files,omitempty"`
	History   []DecisionHistory  `gorm:"foreignKey:SubmissionID" json:"history,omitempty"`
}

// SubmissionAuthor is an ordered co-author entry on a submission.
type SubmissionAuthor struct {
	SubmissionAuthorID uint      `gorm:"primaryKey;column:submission_author_id" json:"submission_author_id"`
	SubmissionID       uint      `gorm:"column:submission_id" json:"submission_id"`
	FullName           string    `gorm:"column:full_name" json:"full_name"`
	Email              *string   `gorm:"column:email" json:"email,omitempty"`
	Affiliation        *string   `gorm:"column:affiliation" json:"affiliation,omitempty"`
	AuthorOrder        int       `gorm:"column:author_order" json:"author_order"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
}

// DecisionHistory is the append-only log of status changes for a submission.
type DecisionHistory struct {
	HistoryID    uint              `gorm:"primaryKey;column:history_id" json:"history_id"`
	SubmissionID uint              `gorm:"column:submission_id" json:"submission_id"`
	OldStatus    *SubmissionStatus `gorm:"column:old_status" json:"old_status"`
	NewStatus    SubmissionStatus  `gorm:"column:new_status" json:"new_status"`
	ChangedBy    uint              `gorm:"column:changed_by" json:"changed_by"`
	Comments     *string           `gorm:"column:comments" json:"comments"`
	CreatedAt    time.Time         `gorm:"column:created_at" json:"created_at"`

	Actor *User `gorm:"foreignKey:ChangedBy" json:"actor,omitempty"`
}

// TableName overrides
func (Submission) TableName() string {
	return "submissions"
}

func (SubmissionAuthor) TableName() string {
	return "submission_authors"
}

func (DecisionHistory) TableName() string {
	return "decision_history"
}
