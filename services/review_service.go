package services

import (
	"time"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// ReviewService tracks reviewer invitations, acceptances and completed
// recommendations, and aggregates review state for the editor decision view.
type ReviewService struct {
	db     *gorm.DB
	notify *NotificationService
}

func NewReviewService(db *gorm.DB, notify *NotificationService) *ReviewService {
	return &ReviewService{db: db, notify: notify}
}

// DecisionAggregate is what the editor sees before deciding. Advisory only:
// the distribution is surfaced, no majority rule is applied anywhere.
type DecisionAggregate struct {
	SubmissionID     uint                   `json:"submission_id"`
	CompletedReviews []models.Review        `json:"completed_reviews"`
	Distribution     map[string]int         `json:"distribution"`
	Pending          int64                  `json:"pending"`
	InProgress       int64                  `json:"in_progress"`
	Declined         int64                  `json:"declined"`
	AllowedDecisions []models.SubmissionStatus `json:"allowed_decisions"`
}

// InviteReviewer creates a PENDING review for the reviewer on the submission.
func (s *ReviewService) InviteReviewer(submissionID, reviewerID uint, editor *models.User, dueDate *time.Time) (*models.Review, error) {
	if editor == nil || !editor.IsEditor() {
		return nil, NewAuthorizationError("only editors may invite reviewers")
	}

	var submission models.Submission
	if err := s.db.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("submission %d not found", submissionID)
		}
		return nil, err
	}
	if submission.Status.IsTerminal() || submission.Status == models.StatusPublished {
		return nil, NewInvalidStateError("submission %s is no longer under editorial consideration", submission.SubmissionNumber)
	}
	if submission.AuthorID == reviewerID {
		return nil, NewValidationError("authors cannot review their own submission")
	}

	var reviewer models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", reviewerID).
		First(&reviewer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("reviewer %d not found", reviewerID)
		}
		return nil, err
	}
	if !reviewer.IsActive() {
		return nil, NewValidationError("reviewer account %d is not active", reviewerID)
	}

	review := models.Review{
		SubmissionID: submissionID,
		ReviewerID:   reviewerID,
		ReviewRound:  submission.ReviewRound,
		ReviewStatus: models.ReviewStatusPending,
		DueDate:      dueDate,
		InvitedAt:    time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Checked inside the insert transaction so two concurrent invites for
		// the same reviewer cannot both pass the count.
		var open int64
		if err := tx.Model(&models.Review{}).
			Where("submission_id = ? AND reviewer_id = ? AND review_status IN ?",
				submissionID, reviewerID,
				[]string{models.ReviewStatusPending, models.ReviewStatusInProgress}).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return NewDuplicateInvitationError("reviewer %d already has an open review on submission %s",
				reviewerID, submission.SubmissionNumber)
		}

		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		msg := ComposeReviewerInvitation(reviewer.FullName(), submission.Title, submission.SubmissionNumber)
		return s.notify.Notify(tx, reviewerID, msg, "info", &submission.SubmissionID)
	})
	if err != nil {
		return nil, err
	}

	s.notify.Email(reviewer.Email, ComposeReviewerInvitation(reviewer.FullName(), submission.Title, submission.SubmissionNumber))
	return &review, nil
}

// AcceptInvitation moves a PENDING review to IN_PROGRESS and records acceptedAt.
func (s *ReviewService) AcceptInvitation(reviewID uint, reviewer *models.User) (*models.Review, error) {
	review, err := s.ownedReview(reviewID, reviewer)
	if err != nil {
		return nil, err
	}
	if review.ReviewStatus != models.ReviewStatusPending {
		return nil, NewInvalidTransitionError("review %d is %s, only pending invitations can be accepted",
			reviewID, review.ReviewStatus)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"review_status": models.ReviewStatusInProgress,
		"accepted_at":   now,
	}
	if err := s.db.Model(review).Updates(updates).Error; err != nil {
		return nil, err
	}
	review.ReviewStatus = models.ReviewStatusInProgress
	review.AcceptedAt = &now
	return review, nil
}

// DeclineInvitation moves a PENDING review to the terminal DECLINED state.
func (s *ReviewService) DeclineInvitation(reviewID uint, reviewer *models.User) (*models.Review, error) {
	review, err := s.ownedReview(reviewID, reviewer)
	if err != nil {
		return nil, err
	}
	if review.ReviewStatus != models.ReviewStatusPending {
		return nil, NewInvalidTransitionError("review %d is %s, only pending invitations can be declined",
			reviewID, review.ReviewStatus)
	}

	if err := s.db.Model(review).Update("review_status", models.ReviewStatusDeclined).Error; err != nil {
		return nil, err
	}
	review.ReviewStatus = models.ReviewStatusDeclined
	return review, nil
}

// SubmitReview records the recommendation, rating and comments of an
// IN_PROGRESS review and marks it COMPLETED. The recommendation becomes
// immutable: resubmission fails rather than overwriting.
//
// Completion deliberately does not touch the submission status; editors move
// submissions explicitly.
func (s *ReviewService) SubmitReview(reviewID uint, reviewer *models.User, recommendation string, rating int, comments, confidential *string) (*models.Review, error) {
	review, err := s.ownedReview(reviewID, reviewer)
	if err != nil {
		return nil, err
	}

	switch review.ReviewStatus {
	case models.ReviewStatusInProgress:
		// fallthrough to validation
	case models.ReviewStatusCompleted, models.ReviewStatusDeclined:
		return nil, NewInvalidTransitionError("review %d is already %s and cannot be resubmitted",
			reviewID, review.ReviewStatus)
	default:
		return nil, NewInvalidTransitionError("review %d must be accepted before it can be submitted", reviewID)
	}

	if !models.ValidRecommendation(recommendation) {
		return nil, NewValidationError("recommendation %q is not a valid verdict", recommendation)
	}
	if rating < 1 || rating > 5 {
		return nil, NewValidationError("rating must be between 1 and 5")
	}

	var submission models.Submission
	if err := s.db.First(&submission, review.SubmissionID).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"review_status":         models.ReviewStatusCompleted,
			"recommendation":        recommendation,
			"rating":                rating,
			"comments":              comments,
			"confidential_comments": confidential,
			"submitted_at":          now,
		}
		if err := tx.Model(review).Updates(updates).Error; err != nil {
			return err
		}

		msg := ComposeReviewSubmitted(submission.Title, submission.SubmissionNumber)
		var editors []models.User
		if err := tx.Where("role_id IN ? AND delete_at IS NULL", []int{models.RoleIDEditor, models.RoleIDAdmin}).
			Find(&editors).Error; err != nil {
			return err
		}
		for _, editor := range editors {
			if err := s.notify.Notify(tx, editor.UserID, msg, "info", &submission.SubmissionID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	review.ReviewStatus = models.ReviewStatusCompleted
	review.Recommendation = &recommendation
	review.Rating = &rating
	review.Comments = comments
	review.ConfidentialComments = confidential
	review.SubmittedAt = &now
	return review, nil
}

// AggregateForDecision collects all COMPLETED reviews of a submission plus
// the recommendation distribution for the editor. It never advances the
// submission status.
func (s *ReviewService) AggregateForDecision(submissionID uint) (*DecisionAggregate, error) {
	var submission models.Submission
	if err := s.db.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("submission %d not found", submissionID)
		}
		return nil, err
	}

	var completed []models.Review
	if err := s.db.Preload("Reviewer").
		Where("submission_id = ? AND review_status = ?", submissionID, models.ReviewStatusCompleted).
		Order("submitted_at ASC").
		Find(&completed).Error; err != nil {
		return nil, err
	}

	aggregate := &DecisionAggregate{
		SubmissionID:     submissionID,
		CompletedReviews: completed,
		Distribution:     make(map[string]int),
		AllowedDecisions: AllowedTargets(submission.Status),
	}
	for _, review := range completed {
		if review.Recommendation != nil {
			aggregate.Distribution[*review.Recommendation]++
		}
	}

	counts := []struct {
		status string
		dest   *int64
	}{
		{models.ReviewStatusPending, &aggregate.Pending},
		{models.ReviewStatusInProgress, &aggregate.InProgress},
		{models.ReviewStatusDeclined, &aggregate.Declined},
	}
	for _, c := range counts {
		if err := s.db.Model(&models.Review{}).
			Where("submission_id = ? AND review_status = ?", submissionID, c.status).
			Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	return aggregate, nil
}

func (s *ReviewService) ownedReview(reviewID uint, reviewer *models.User) (*models.Review, error) {
	if reviewer == nil {
		return nil, NewAuthorizationError("actor is required")
	}
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("review %d not found", reviewID)
		}
		return nil, err
	}
	if review.ReviewerID != reviewer.UserID {
		return nil, NewAuthorizationError("review %d belongs to another reviewer", reviewID)
	}
	return &review, nil
}
