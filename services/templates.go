package services

import (
	"fmt"

	"journal-management-api/models"
)

// ComposedMessage is a rendered notification subject/body pair.
type ComposedMessage struct {
	Subject string
	Body    string
}

// ComposeStatusChange maps a submission status to the email sent to the
// author. Pure: delivery and persistence happen elsewhere. Statuses without a
// template (e.g. RETRACTED) return ok=false and produce no notification.
func ComposeStatusChange(status models.SubmissionStatus, title, authorName, submissionNumber string) (ComposedMessage, bool) {
	switch status {
	case models.StatusSubmitted:
		return ComposedMessage{
			Subject: fmt.Sprintf("Submission received: %s", title),
			Body: fmt.Sprintf(
				"<p>Dear %s,</p><p>Your manuscript <strong>%s</strong> (no. %s) has been received and assigned to the editorial office.</p>",
				authorName, title, submissionNumber),
		}, true
	case models.StatusUnderReview:
		return ComposedMessage{
			Subject: fmt.Sprintf("Manuscript under review: %s", title),
			Body: fmt.Sprintf(
				"<p>Dear %s,</p><p>Your manuscript <strong>%s</strong> (no. %s) has entered peer review. We will contact you once the reviews are complete.</p>",
				authorName, title, submissionNumber),
		}, true
	case models.StatusRevisionRequired:
		return ComposedMessage{
			Subject: fmt.Sprintf("Revision requested: %s", title),
			Body: fmt.Sprintf(
				"<p>Dear %s,</p><p>The editor has requested a revision of <strong>%s</strong> (no. %s). Please log in to read the reviewer comments and resubmit.</p>",
				authorName, title, submissionNumber),
		}, true
	case models.StatusAccepted:
		return ComposedMessage{
			Subject: fmt.Sprintf("Manuscript accepted: %s", title),
			Body: fmt.Sprintf(
				"<p>Dear %s,</p><p>We are pleased to inform you that <strong>%s</strong> (no. %s) has been accepted for publication. An article processing charge is due before publication.</p>",
				authorName, title, submissionNumber),
		}, true
	case models.StatusPublished:
		return ComposedMessage{
			Subject: fmt.Sprintf("Article published: %s", title),
			Body: fmt.Sprintf(
				"<p>Dear %s,</p><p>Your article <strong>%s</strong> (no. %s) is now published.</p>",
				authorName, title, submissionNumber),
		}, true
	case models.StatusRejected:
		return ComposedMessage{
			Subject: fmt.Sprintf("Editorial decision: %s", title),
			Body: fmt.Sprintf(
				"<p>Dear %s,</p><p>After careful consideration, we regret to inform you that <strong>%s</strong> (no. %s) cannot be accepted for publication.</p>",
				authorName, title, submissionNumber),
		}, true
	}
	return ComposedMessage{}, false
}

// ComposeReviewerInvitation renders the invitation email to a reviewer.
func ComposeReviewerInvitation(reviewerName, title, submissionNumber string) ComposedMessage {
	return ComposedMessage{
		Subject: fmt.Sprintf("Review invitation: %s", title),
		Body: fmt.Sprintf(
			"<p>Dear %s,</p><p>You have been invited to review manuscript <strong>%s</strong> (no. %s). Please log in to accept or decline the invitation.</p>",
			reviewerName, title, submissionNumber),
	}
}

// ComposeReviewSubmitted notifies the editorial office of a completed review.
func ComposeReviewSubmitted(title, submissionNumber string) ComposedMessage {
	return ComposedMessage{
		Subject: fmt.Sprintf("Review completed for %s", submissionNumber),
		Body: fmt.Sprintf(
			"<p>A review has been completed for manuscript <strong>%s</strong> (no. %s).</p>",
			title, submissionNumber),
	}
}

// ComposePaymentReceived confirms an APC payment to the payer.
func ComposePaymentReceived(payerName, title string, amount int64, currency string) ComposedMessage {
	return ComposedMessage{
		Subject: fmt.Sprintf("Payment received for %s", title),
		Body: fmt.Sprintf(
			"<p>Dear %s,</p><p>We received your payment of %d %s for <strong>%s</strong>. Your article will be published once the proof is approved.</p>",
			payerName, amount, currency, title),
	}
}
