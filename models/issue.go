package models

import "time"

// Issue statuses.
const (
	IssueStatusDraft     = "DRAFT"
	IssueStatusPublished = "PUBLISHED"
	IssueStatusArchived  = "ARCHIVED"
)

// Issue represents a journal issue (volume/number/year).
type Issue struct {
	IssueID     uint       `gorm:"primaryKey;column:issue_id" json:"issue_id"`
	Volume      int        `gorm:"column:volume" json:"volume"`
	Number      int        `gorm:"column:number" json:"number"`
	Year        int        `gorm:"column:year" json:"year"`
	Title       *string    `gorm:"column:title" json:"title,omitempty"`
	Status      string     `gorm:"column:status;default:DRAFT" json:"status"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Articles []IssueArticle `gorm:"foreignKey:IssueID" json:"articles,omitempty"`
}

// IssueArticle places an accepted or published submission into an issue.
type IssueArticle struct {
	IssueArticleID uint      `gorm:"primaryKey;column:issue_article_id" json:"issue_article_id"`
	IssueID        uint      `gorm:"column:issue_id" json:"issue_id"`
	SubmissionID   uint      `gorm:"column:submission_id" json:"submission_id"`
	ArticleOrder   int       `gorm:"column:article_order" json:"article_order"`
	PageStart      int       `gorm:"column:page_start" json:"page_start"`
	PageEnd        int       `gorm:"column:page_end" json:"page_end"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`

	Submission *Submission `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
}

// TableName overrides
func (Issue) TableName() string {
	return "issues"
}

func (IssueArticle) TableName() string {
	return "issue_articles"
}
