package services

import (
	"fmt"
	"time"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// How long authors get to resubmit after a revision request.
const revisionWindow = 60 * 24 * time.Hour

// allowedTransitions is the full lifecycle edge table. Any pair not listed
// here is rejected before guards or side effects run.
var allowedTransitions = map[models.SubmissionStatus][]models.SubmissionStatus{
	models.StatusSubmitted:        {models.StatusUnderReview},
	models.StatusUnderReview:      {models.StatusRevisionRequired, models.StatusAccepted, models.StatusRejected},
	models.StatusRevisionRequired: {models.StatusUnderReview},
	models.StatusAccepted:         {models.StatusPublished},
	models.StatusPublished:        {models.StatusRetracted},
}

// TransitionAllowed reports whether from -> to is an edge of the table.
func TransitionAllowed(from, to models.SubmissionStatus) bool {
	for _, target := range allowedTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the reachable statuses from the given state.
func AllowedTargets(from models.SubmissionStatus) []models.SubmissionStatus {
	return allowedTransitions[from]
}

// LifecycleService applies submission status transitions: edge validation,
// actor authorization, payment/proof gates, the decision-history append and
// the status-changed notification.
type LifecycleService struct {
	db        *gorm.DB
	notify    *NotificationService
	doiPrefix string
}

func NewLifecycleService(db *gorm.DB, notify *NotificationService, doiPrefix string) *LifecycleService {
	return &LifecycleService{db: db, notify: notify, doiPrefix: doiPrefix}
}

// Transition moves a submission to target on behalf of actor. On success the
// updated submission is returned; on failure the status is untouched and the
// error carries one of the workflow kinds.
func (s *LifecycleService) Transition(submissionID uint, target models.SubmissionStatus, actor *models.User, comments *string) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.Preload("Author").
		Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("submission %d not found", submissionID)
		}
		return nil, err
	}

	if !TransitionAllowed(submission.Status, target) {
		return nil, NewInvalidTransitionError("cannot move submission %s from %s to %s",
			submission.SubmissionNumber, submission.Status, target)
	}

	if err := s.authorize(&submission, target, actor); err != nil {
		return nil, err
	}

	if err := s.guard(&submission, target); err != nil {
		return nil, err
	}

	now := time.Now()
	oldStatus := submission.Status

	updates := map[string]interface{}{
		"status":     target,
		"version":    submission.Version + 1,
		"updated_at": now,
	}
	switch target {
	case models.StatusRevisionRequired:
		deadline := now.Add(revisionWindow)
		updates["revision_deadline"] = deadline
	case models.StatusUnderReview:
		if oldStatus == models.StatusRevisionRequired {
			updates["review_round"] = submission.ReviewRound + 1
			updates["revision_deadline"] = nil
		}
	case models.StatusPublished:
		updates["doi"] = s.assignDOI(&submission, now)
		updates["published_at"] = now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Optimistic concurrency check: a concurrent editor decision bumps the
		// version first and this write then matches zero rows.
		result := tx.Model(&models.Submission{}).
			Where("submission_id = ? AND version = ?", submission.SubmissionID, submission.Version).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewConcurrentModificationError("submission %s was modified concurrently, retry with fresh state",
				submission.SubmissionNumber)
		}

		history := models.DecisionHistory{
			SubmissionID: submission.SubmissionID,
			OldStatus:    &oldStatus,
			NewStatus:    target,
			ChangedBy:    actor.UserID,
			Comments:     comments,
			CreatedAt:    now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if msg, ok := ComposeStatusChange(target, submission.Title, submission.Author.FullName(), submission.SubmissionNumber); ok {
			id := submission.SubmissionID
			if err := s.notify.Notify(tx, submission.AuthorID, msg, notificationType(target), &id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if msg, ok := ComposeStatusChange(target, submission.Title, submission.Author.FullName(), submission.SubmissionNumber); ok {
		s.notify.Email(submission.Author.Email, msg)
	}

	var updated models.Submission
	if err := s.db.Preload("Author").First(&updated, submission.SubmissionID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *LifecycleService) authorize(submission *models.Submission, target models.SubmissionStatus, actor *models.User) error {
	if actor == nil {
		return NewAuthorizationError("actor is required")
	}

	// Resubmission is the one author-initiated transition.
	if submission.Status == models.StatusRevisionRequired && target == models.StatusUnderReview {
		if actor.UserID == submission.AuthorID || actor.IsEditor() {
			return nil
		}
		return NewAuthorizationError("only the submitting author or an editor may resubmit")
	}

	if target == models.StatusRetracted {
		if actor.IsAdmin() {
			return nil
		}
		return NewAuthorizationError("only an administrator may retract a published article")
	}

	if !actor.IsEditor() {
		return NewAuthorizationError("user %d lacks the editor capability for decision transitions", actor.UserID)
	}
	return nil
}

func (s *LifecycleService) guard(submission *models.Submission, target models.SubmissionStatus) error {
	switch target {
	case models.StatusUnderReview:
		var invitations int64
		if err := s.db.Model(&models.Review{}).
			Where("submission_id = ?", submission.SubmissionID).
			Count(&invitations).Error; err != nil {
			return err
		}
		if invitations == 0 {
			return NewInvalidStateError("submission %s has no reviewer invitations yet", submission.SubmissionNumber)
		}
	case models.StatusPublished:
		var paid int64
		if err := s.db.Model(&models.Payment{}).
			Where("submission_id = ? AND status = ?", submission.SubmissionID, models.PaymentStatusPaid).
			Count(&paid).Error; err != nil {
			return err
		}
		if paid == 0 {
			return NewPaymentRequiredError("article processing charge for submission %s has not been paid", submission.SubmissionNumber)
		}
		if !submission.ProofApproved {
			return NewValidationError("proof for submission %s has not been approved by the author", submission.SubmissionNumber)
		}
	}
	return nil
}

func (s *LifecycleService) assignDOI(submission *models.Submission, now time.Time) string {
	return fmt.Sprintf("%s/jmp.%d.%d", s.doiPrefix, now.Year(), submission.SubmissionID)
}

func notificationType(status models.SubmissionStatus) string {
	switch status {
	case models.StatusAccepted, models.StatusPublished:
		return "success"
	case models.StatusRejected:
		return "error"
	case models.StatusRevisionRequired:
		return "warning"
	}
	return "info"
}
