package services

import (
	"sync"
	"testing"
	"time"

	"journal-management-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteReviewer(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	editor := seedUser(t, db, models.RoleIDEditor)
	reviewer := seedUser(t, db, models.RoleIDReviewer)
	svc := testReviewService(db)

	submission := seedSubmission(t, db, author, models.StatusSubmitted)

	due := time.Now().Add(14 * 24 * time.Hour)
	review, err := svc.InviteReviewer(submission.SubmissionID, reviewer.UserID, editor, &due)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPending, review.ReviewStatus)
	assert.Equal(t, submission.ReviewRound, review.ReviewRound)

	assert.EqualValues(t, 1, notificationCount(t, db, reviewer.UserID))
}

func TestInviteReviewerRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	editor := seedUser(t, db, models.RoleIDEditor)
	reviewer := seedUser(t, db, models.RoleIDReviewer)
	svc := testReviewService(db)

	submission := seedSubmission(t, db, author, models.StatusUnderReview)

	_, err := svc.InviteReviewer(submission.SubmissionID, reviewer.UserID, editor, nil)
	require.NoError(t, err)

	_, err = svc.InviteReviewer(submission.SubmissionID, reviewer.UserID, editor, nil)
	require.Error(t, err)
	assert.Equal(t, KindDuplicateInvitation, KindOf(err))

	// Only one invitation row exists after the rejected duplicate.
	var count int64
	require.NoError(t, db.Model(&models.Review{}).
		Where("submission_id = ?", submission.SubmissionID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestConcurrentInvitesCreateOneReview(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	editor := seedUser(t, db, models.RoleIDEditor)
	reviewer := seedUser(t, db, models.RoleIDReviewer)
	svc := testReviewService(db)

	submission := seedSubmission(t, db, author, models.StatusUnderReview)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.InviteReviewer(submission.SubmissionID, reviewer.UserID, editor, nil)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.Equal(t, KindDuplicateInvitation, KindOf(err))
	}
	assert.Equal(t, 1, successes)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).
		Where("submission_id = ? AND reviewer_id = ?", submission.SubmissionID, reviewer.UserID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestInviteReviewerAfterDeclineIsAllowed(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	editor := seedUser(t, db, models.RoleIDEditor)
	reviewer := seedUser(t, db, models.RoleIDReviewer)
	svc := testReviewService(db)

	submission := seedSubmission(t, db, author, models.StatusUnderReview)
	seedReview(t, db, submission, reviewer, models.ReviewStatusDeclined)

	_, err := svc.InviteReviewer(submission.SubmissionID, reviewer.UserID, editor, nil)
	require.NoError(t, err)
}

func TestInviteReviewerGuards(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	editor := seedUser(t, db, models.RoleIDEditor)
	reviewer := seedUser(t, db, models.RoleIDReviewer)
	svc := testReviewService(db)

	submission := seedSubmission(t, db, author, models.StatusUnderReview)

	t.Run("non-editor cannot invite", func(t *testing.T) {
		_, err := svc.InviteReviewer(submission.SubmissionID, reviewer.UserID, author, nil)
		require.Error(t, err)
		assert.Equal(t, KindAuthorization, KindOf(err))
	})

	t.Run("author cannot review own submission", func(t *testing.T) {
		_, err := svc.InviteReviewer(submission.SubmissionID, author.UserID, editor, nil)
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("suspended reviewer is rejected", func(t *testing.T) {
		suspended := seedUser(t, db, models.RoleIDReviewer)
		require.NoError(t, db.Model(suspended).Update("account_status", models.AccountStatusSuspended).Error)

		_, err := svc.InviteReviewer(submission.SubmissionID, suspended.UserID, editor, nil)
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
	})

	t.Run("rejected submission takes no invitations", func(t *testing.T) {
		closed := seedSubmission(t, db, author, models.StatusRejected)
		_, err := svc.InviteReviewer(closed.SubmissionID, reviewer.UserID, editor, nil)
		require.Error(t, err)
		assert.Equal(t, KindInvalidState, KindOf(err))
	})
}

func TestAcceptAndDeclineInvitation(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	reviewer := seedUser(t, db, models.RoleIDReviewer)
	other := seedUser(t, db, models.RoleIDReviewer)
	svc := testReviewService(db)

	submission := seedSubmission(t, db, author, models.StatusUnderReview)
	review := seedReview(t, db, submission, reviewer, models.ReviewStatusPending)

	_, err := svc.AcceptInvitation(review.ReviewID, other)
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))

	accepted, err := svc.AcceptInvitation(review.ReviewID, reviewer)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusInProgress, accepted.ReviewStatus)
	assert.NotNil(t, accepted.AcceptedAt)

	// The invitation is no longer pending, so declining now fails.
	_, err = svc.DeclineInvitation(review.ReviewID, reviewer)
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, KindOf(err))
}

func TestDeclinedInvitationIsImmutable(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	reviewer := seedUser(t, db, models.RoleIDReviewer)
	svc := testReviewService(db)

	submission := seedSubmission(t, db, author, models.StatusUnderReview)
	review := seedReview(t, db, submission, reviewer, models.ReviewStatusPending)

	declined, err := svc.DeclineInvitation(review.ReviewID, reviewer)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusDeclined, declined.ReviewStatus)

	_, err = svc.AcceptInvitation(review.ReviewID, reviewer)
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, KindOf(err))

	_, err = svc.SubmitReview(review.ReviewID, reviewer, models.RecommendationAccept, 4, nil, nil)
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, KindOf(err))

	var fresh models.Review
	require.NoError(t, db.First(&fresh, review.ReviewID).Error)
	assert.Equal(t, models.ReviewStatusDeclined, fresh.ReviewStatus)
	assert.Nil(t, fresh.Recommendation)
}

func TestSubmitReview(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	editor := seedUser(t, db, models.RoleIDEditor)
	reviewer := seedUser(t, db, models.RoleIDReviewer)
	svc := testReviewService(db)

	submission := seedSubmission(t, db, author, models.StatusUnderReview)
	review := seedReview(t, db, submission, reviewer, models.ReviewStatusInProgress)

	comments := "sound methodology, minor clarity issues in section 3"
	confidential := "borderline but publishable"
	submitted, err := svc.SubmitReview(review.ReviewID, reviewer, models.RecommendationMinorRevision, 4, &comments, &confidential)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusCompleted, submitted.ReviewStatus)
	require.NotNil(t, submitted.Recommendation)
	assert.Equal(t, models.RecommendationMinorRevision, *submitted.Recommendation)
	assert.NotNil(t, submitted.SubmittedAt)

	// Editors are notified, the author is not.
	assert.EqualValues(t, 1, notificationCount(t, db, editor.UserID))
	assert.Zero(t, notificationCount(t, db, author.UserID))

	// Completing a review never advances the submission.
	var fresh models.Submission
	require.NoError(t, db.First(&fresh, submission.SubmissionID).Error)
	assert.Equal(t, models.StatusUnderReview, fresh.Status)
}

func TestSubmitReviewValidation(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	reviewer := seedUser(t, db, models.RoleIDReviewer)
	svc := testReviewService(db)

	submission := seedSubmission(t, db, author, models.StatusUnderReview)
	review := seedReview(t, db, submission, reviewer, models.ReviewStatusInProgress)

	_, err := svc.SubmitReview(review.ReviewID, reviewer, "MAYBE", 3, nil, nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.SubmitReview(review.ReviewID, reviewer, models.RecommendationAccept, 0, nil, nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.SubmitReview(review.ReviewID, reviewer, models.RecommendationAccept, 6, nil, nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	// A pending invitation cannot be submitted before acceptance.
	pending := seedReview(t, db, submission, seedUser(t, db, models.RoleIDReviewer), models.ReviewStatusPending)
	var pendingReviewer models.User
	require.NoError(t, db.First(&pendingReviewer, pending.ReviewerID).Error)
	_, err = svc.SubmitReview(pending.ReviewID, &pendingReviewer, models.RecommendationAccept, 4, nil, nil)
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, KindOf(err))
}

func TestSubmittedReviewCannotBeOverwritten(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	reviewer := seedUser(t, db, models.RoleIDReviewer)
	svc := testReviewService(db)

	submission := seedSubmission(t, db, author, models.StatusUnderReview)
	review := seedReview(t, db, submission, reviewer, models.ReviewStatusInProgress)

	_, err := svc.SubmitReview(review.ReviewID, reviewer, models.RecommendationReject, 2, nil, nil)
	require.NoError(t, err)

	_, err = svc.SubmitReview(review.ReviewID, reviewer, models.RecommendationAccept, 5, nil, nil)
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, KindOf(err))

	var fresh models.Review
	require.NoError(t, db.First(&fresh, review.ReviewID).Error)
	require.NotNil(t, fresh.Recommendation)
	assert.Equal(t, models.RecommendationReject, *fresh.Recommendation)
}

func TestAggregateForDecision(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	svc := testReviewService(db)

	submission := seedSubmission(t, db, author, models.StatusUnderReview)

	for _, rec := range []string{models.RecommendationAccept, models.RecommendationAccept, models.RecommendationMajorRevision} {
		reviewer := seedUser(t, db, models.RoleIDReviewer)
		review := seedReview(t, db, submission, reviewer, models.ReviewStatusInProgress)
		_, err := svc.SubmitReview(review.ReviewID, reviewer, rec, 3, nil, nil)
		require.NoError(t, err)
	}
	seedReview(t, db, submission, seedUser(t, db, models.RoleIDReviewer), models.ReviewStatusPending)
	seedReview(t, db, submission, seedUser(t, db, models.RoleIDReviewer), models.ReviewStatusDeclined)

	aggregate, err := svc.AggregateForDecision(submission.SubmissionID)
	require.NoError(t, err)
	assert.Len(t, aggregate.CompletedReviews, 3)
	assert.Equal(t, 2, aggregate.Distribution[models.RecommendationAccept])
	assert.Equal(t, 1, aggregate.Distribution[models.RecommendationMajorRevision])
	assert.EqualValues(t, 1, aggregate.Pending)
	assert.EqualValues(t, 1, aggregate.Declined)
	assert.ElementsMatch(t,
		[]models.SubmissionStatus{models.StatusRevisionRequired, models.StatusAccepted, models.StatusRejected},
		aggregate.AllowedDecisions)

	// The aggregate is advisory: the submission status is untouched.
	var fresh models.Submission
	require.NoError(t, db.First(&fresh, submission.SubmissionID).Error)
	assert.Equal(t, models.StatusUnderReview, fresh.Status)
}
