package services

import (
	"testing"

	"journal-management-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func paymentCount(t *testing.T, db *gorm.DB, submissionID uint, status string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).
		Where("submission_id = ? AND status = ?", submissionID, status).
		Count(&count).Error)
	return count
}

func TestCreateIntentRequiresAcceptedSubmission(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	svc := testPaymentService(db, &stubGateway{})

	for _, status := range []models.SubmissionStatus{
		models.StatusSubmitted,
		models.StatusUnderReview,
		models.StatusRejected,
		models.StatusPublished,
	} {
		submission := seedSubmission(t, db, author, status)
		_, err := svc.CreateIntent(submission.SubmissionID, author)
		require.Error(t, err, "status %s must not open an intent", status)
		assert.Equal(t, KindInvalidState, KindOf(err))
	}
}

func TestCreateIntentAuthorization(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	stranger := seedUser(t, db, models.RoleIDAuthor)
	svc := testPaymentService(db, &stubGateway{})

	submission := seedSubmission(t, db, author, models.StatusAccepted)

	_, err := svc.CreateIntent(submission.SubmissionID, stranger)
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestCreateIntentIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	gateway := &stubGateway{}
	svc := testPaymentService(db, gateway)

	submission := seedSubmission(t, db, author, models.StatusAccepted)

	first, err := svc.CreateIntent(submission.SubmissionID, author)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, first.Status)
	require.NotNil(t, first.SnapToken)
	require.NotNil(t, first.RedirectURL)

	second, err := svc.CreateIntent(submission.SubmissionID, author)
	require.NoError(t, err)
	assert.Equal(t, first.OrderID, second.OrderID, "a second call returns the open intent instead of a new one")
	assert.Equal(t, 1, gateway.calls)
}

func TestCreateIntentGatewayFailure(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	svc := testPaymentService(db, &stubGateway{failNext: true})

	submission := seedSubmission(t, db, author, models.StatusAccepted)

	_, err := svc.CreateIntent(submission.SubmissionID, author)
	require.Error(t, err)
	assert.Equal(t, KindExternalService, KindOf(err))

	// No intent row is left behind when the gateway refuses.
	assert.Zero(t, paymentCount(t, db, submission.SubmissionID, models.PaymentStatusPending))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	svc := testPaymentService(db, &stubGateway{})

	submission := seedSubmission(t, db, author, models.StatusAccepted)
	payment, err := svc.CreateIntent(submission.SubmissionID, author)
	require.NoError(t, err)

	payload := settlementPayload(payment, "tx_1")
	payload.SignatureKey = "forged"

	_, err = svc.HandleWebhook(payload)
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))

	var fresh models.Payment
	require.NoError(t, db.First(&fresh, payment.PaymentID).Error)
	assert.Equal(t, models.PaymentStatusPending, fresh.Status)
}

func TestWebhookSettlesAndReplaysNoOp(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	svc := testPaymentService(db, &stubGateway{})

	submission := seedSubmission(t, db, author, models.StatusAccepted)
	payment, err := svc.CreateIntent(submission.SubmissionID, author)
	require.NoError(t, err)

	settled, err := svc.HandleWebhook(settlementPayload(payment, "tx_1"))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, settled.Status)
	require.NotNil(t, settled.TransactionID)
	assert.Equal(t, "tx_1", *settled.TransactionID)

	assert.EqualValues(t, 1, notificationCount(t, db, author.UserID))

	// Replaying the exact same event must not error or duplicate anything.
	replayed, err := svc.HandleWebhook(settlementPayload(payment, "tx_1"))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, replayed.Status)

	assert.EqualValues(t, 1, paymentCount(t, db, submission.SubmissionID, models.PaymentStatusPaid))
	var events int64
	require.NoError(t, db.Model(&models.PaymentWebhookEvent{}).
		Where("transaction_id = ?", "tx_1").
		Count(&events).Error)
	assert.EqualValues(t, 1, events)
	assert.EqualValues(t, 1, notificationCount(t, db, author.UserID))
}

func TestWebhookFailureStatuses(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	svc := testPaymentService(db, &stubGateway{})

	submission := seedSubmission(t, db, author, models.StatusAccepted)
	payment, err := svc.CreateIntent(submission.SubmissionID, author)
	require.NoError(t, err)

	payload := settlementPayload(payment, "tx_expired")
	payload.TransactionStatus = gatewayStatusExpire

	failed, err := svc.HandleWebhook(payload)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, failed.Status)

	// A failed intent can still settle on a later retry with a new transaction.
	retried, err := svc.HandleWebhook(settlementPayload(payment, "tx_retry"))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, retried.Status)
}

func TestConfirmVerifiesEvidence(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	svc := testPaymentService(db, &stubGateway{})

	submission := seedSubmission(t, db, author, models.StatusAccepted)
	payment, err := svc.CreateIntent(submission.SubmissionID, author)
	require.NoError(t, err)

	_, err = svc.Confirm(payment.PaymentID, ConfirmEvidence{
		TransactionID: "tx_manual",
		StatusCode:    "200",
		GrossAmount:   "1500.00",
		SignatureKey:  "forged",
	})
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))

	confirmed, err := svc.Confirm(payment.PaymentID, ConfirmEvidence{
		TransactionID: "tx_manual",
		StatusCode:    "200",
		GrossAmount:   "1500.00",
		SignatureKey:  testSignature(payment.OrderID, "200", "1500.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, confirmed.Status)
}

func TestRefund(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	editor := seedUser(t, db, models.RoleIDEditor)
	svc := testPaymentService(db, &stubGateway{})

	submission := seedSubmission(t, db, author, models.StatusPublished)
	payment := seedPaidPayment(t, db, submission)

	_, err := svc.Refund(payment.PaymentID, "duplicate charge", author)
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))

	_, err = svc.Refund(payment.PaymentID, "", editor)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	refunded, err := svc.Refund(payment.PaymentID, "duplicate charge", editor)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, refunded.Status)
	require.NotNil(t, refunded.RefundReason)
	assert.Equal(t, "duplicate charge", *refunded.RefundReason)
	assert.NotNil(t, refunded.RefundedAt)

	// Refunding never touches the submission itself.
	var fresh models.Submission
	require.NoError(t, db.First(&fresh, submission.SubmissionID).Error)
	assert.Equal(t, models.StatusPublished, fresh.Status)

	// Only settled payments can be refunded.
	_, err = svc.Refund(payment.PaymentID, "again", editor)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestStatusFor(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	svc := testPaymentService(db, &stubGateway{})

	submission := seedSubmission(t, db, author, models.StatusAccepted)

	payment, err := svc.StatusFor(submission.SubmissionID)
	require.NoError(t, err)
	assert.Nil(t, payment)

	created, err := svc.CreateIntent(submission.SubmissionID, author)
	require.NoError(t, err)

	payment, err = svc.StatusFor(submission.SubmissionID)
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, created.OrderID, payment.OrderID)
}

// TestManuscriptLifecycleEndToEnd walks one manuscript from submission through
// review, acceptance, payment and publication, then replays the settlement
// webhook against the published article.
func TestManuscriptLifecycleEndToEnd(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	editor := seedUser(t, db, models.RoleIDEditor)
	lifecycle := testLifecycleService(db)
	reviews := testReviewService(db)
	payments := testPaymentService(db, &stubGateway{})

	submission := seedSubmission(t, db, author, models.StatusSubmitted)

	// Two reviewers are invited, accept and file their verdicts.
	for _, rec := range []string{models.RecommendationAccept, models.RecommendationMinorRevision} {
		reviewer := seedUser(t, db, models.RoleIDReviewer)
		invitation, err := reviews.InviteReviewer(submission.SubmissionID, reviewer.UserID, editor, nil)
		require.NoError(t, err)
		_, err = reviews.AcceptInvitation(invitation.ReviewID, reviewer)
		require.NoError(t, err)

		if submission.Status == models.StatusSubmitted {
			updated, err := lifecycle.Transition(submission.SubmissionID, models.StatusUnderReview, editor, nil)
			require.NoError(t, err)
			submission.Status = updated.Status
		}

		_, err = reviews.SubmitReview(invitation.ReviewID, reviewer, rec, 4, nil, nil)
		require.NoError(t, err)
	}

	aggregate, err := reviews.AggregateForDecision(submission.SubmissionID)
	require.NoError(t, err)
	assert.Len(t, aggregate.CompletedReviews, 2)

	_, err = lifecycle.Transition(submission.SubmissionID, models.StatusAccepted, editor, nil)
	require.NoError(t, err)

	// Publication is blocked until the charge settles and the proof is approved.
	require.NoError(t, db.Model(&models.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Update("proof_approved", true).Error)
	_, err = lifecycle.Transition(submission.SubmissionID, models.StatusPublished, editor, nil)
	require.Error(t, err)
	assert.Equal(t, KindPaymentRequired, KindOf(err))

	payment, err := payments.CreateIntent(submission.SubmissionID, author)
	require.NoError(t, err)
	settled, err := payments.HandleWebhook(settlementPayload(payment, "tx_1"))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, settled.Status)

	published, err := lifecycle.Transition(submission.SubmissionID, models.StatusPublished, editor, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, published.Status)
	assert.NotNil(t, published.DOI)

	// A late webhook replay leaves the published article and payment alone.
	replayed, err := payments.HandleWebhook(settlementPayload(payment, "tx_1"))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, replayed.Status)

	var fresh models.Submission
	require.NoError(t, db.First(&fresh, submission.SubmissionID).Error)
	assert.Equal(t, models.StatusPublished, fresh.Status)
	assert.EqualValues(t, 1, paymentCount(t, db, submission.SubmissionID, models.PaymentStatusPaid))
}
