package services

import (
	"time"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// IssueService assembles accepted articles into journal issues.
type IssueService struct {
	db *gorm.DB
}

func NewIssueService(db *gorm.DB) *IssueService {
	return &IssueService{db: db}
}

// CreateIssue opens a DRAFT issue for the given volume/number/year.
func (s *IssueService) CreateIssue(volume, number, year int, title *string, editor *models.User) (*models.Issue, error) {
	if editor == nil || !editor.IsEditor() {
		return nil, NewAuthorizationError("only editors may create issues")
	}
	if volume <= 0 || number <= 0 || year <= 0 {
		return nil, NewValidationError("volume, number and year must be positive")
	}

	var count int64
	if err := s.db.Model(&models.Issue{}).
		Where("volume = ? AND number = ? AND year = ? AND deleted_at IS NULL", volume, number, year).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, NewValidationError("issue %d(%d) %d already exists", volume, number, year)
	}

	issue := models.Issue{
		Volume:    volume,
		Number:    number,
		Year:      year,
		Title:     title,
		Status:    models.IssueStatusDraft,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&issue).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// AddArticle places a submission into a draft issue with its page range.
// Only ACCEPTED or PUBLISHED submissions qualify.
func (s *IssueService) AddArticle(issueID, submissionID uint, order, pageStart, pageEnd int, editor *models.User) (*models.IssueArticle, error) {
	if editor == nil || !editor.IsEditor() {
		return nil, NewAuthorizationError("only editors may compose issues")
	}
	if pageStart <= 0 || pageEnd < pageStart {
		return nil, NewValidationError("page range %d-%d is invalid", pageStart, pageEnd)
	}

	var issue models.Issue
	if err := s.db.Where("issue_id = ? AND deleted_at IS NULL", issueID).First(&issue).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("issue %d not found", issueID)
		}
		return nil, err
	}
	if issue.Status != models.IssueStatusDraft {
		return nil, NewInvalidStateError("issue %d is %s; articles can only be added to drafts", issueID, issue.Status)
	}

	var submission models.Submission
	if err := s.db.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("submission %d not found", submissionID)
		}
		return nil, err
	}
	if submission.Status != models.StatusAccepted && submission.Status != models.StatusPublished {
		return nil, NewInvalidStateError("submission %s is %s; only accepted or published articles enter an issue",
			submission.SubmissionNumber, submission.Status)
	}

	var dup int64
	if err := s.db.Model(&models.IssueArticle{}).
		Where("issue_id = ? AND submission_id = ?", issueID, submissionID).
		Count(&dup).Error; err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, NewValidationError("submission %s is already part of issue %d", submission.SubmissionNumber, issueID)
	}

	article := models.IssueArticle{
		IssueID:      issueID,
		SubmissionID: submissionID,
		ArticleOrder: order,
		PageStart:    pageStart,
		PageEnd:      pageEnd,
		CreatedAt:    time.Now(),
	}
	if err := s.db.Create(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// PublishIssue moves a DRAFT issue to PUBLISHED and stamps published_at.
func (s *IssueService) PublishIssue(issueID uint, editor *models.User) (*models.Issue, error) {
	return s.transitionIssue(issueID, models.IssueStatusDraft, models.IssueStatusPublished, editor)
}

// ArchiveIssue moves a PUBLISHED issue to ARCHIVED.
func (s *IssueService) ArchiveIssue(issueID uint, editor *models.User) (*models.Issue, error) {
	return s.transitionIssue(issueID, models.IssueStatusPublished, models.IssueStatusArchived, editor)
}

func (s *IssueService) transitionIssue(issueID uint, from, to string, editor *models.User) (*models.Issue, error) {
	if editor == nil || !editor.IsEditor() {
		return nil, NewAuthorizationError("only editors may change issue status")
	}

	var issue models.Issue
	if err := s.db.Where("issue_id = ? AND deleted_at IS NULL", issueID).First(&issue).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("issue %d not found", issueID)
		}
		return nil, err
	}
	if issue.Status != from {
		return nil, NewInvalidTransitionError("issue %d is %s, expected %s", issueID, issue.Status, from)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}
	if to == models.IssueStatusPublished {
		updates["published_at"] = now
	}
	if err := s.db.Model(&issue).Updates(updates).Error; err != nil {
		return nil, err
	}
	issue.Status = to
	if to == models.IssueStatusPublished {
		issue.PublishedAt = &now
	}
	return &issue, nil
}
