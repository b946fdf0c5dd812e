package services

import (
	"crypto/sha512"
	"encoding/hex"
	"log"
	"time"

	"journal-management-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gateway transaction statuses that settle or void a payment.
const (
	gatewayStatusCapture    = "capture"
	gatewayStatusSettlement = "settlement"
	gatewayStatusDeny       = "deny"
	gatewayStatusCancel     = "cancel"
	gatewayStatusExpire     = "expire"
)

// WebhookPayload is the gateway callback body. SignatureKey must equal
// sha512(order_id + status_code + gross_amount + server_key) before any state
// is touched.
type WebhookPayload struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	FraudStatus       string `json:"fraud_status"`
}

// ConfirmEvidence is the gateway evidence presented on a manual confirm call.
type ConfirmEvidence struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	StatusCode    string `json:"status_code" binding:"required"`
	GrossAmount   string `json:"gross_amount" binding:"required"`
	SignatureKey  string `json:"signature_key" binding:"required"`
}

// PaymentService creates and reconciles APC payment intents for accepted
// submissions and gates the PUBLISHED transition on paid status.
type PaymentService struct {
	db        *gorm.DB
	gateway   PaymentGateway
	notify    *NotificationService
	serverKey string
	amount    int64
	currency  string
}

func NewPaymentService(db *gorm.DB, gateway PaymentGateway, notify *NotificationService, serverKey string, amount int64, currency string) *PaymentService {
	return &PaymentService{
		db:        db,
		gateway:   gateway,
		notify:    notify,
		serverKey: serverKey,
		amount:    amount,
		currency:  currency,
	}
}

// CreateIntent opens a payment intent for an ACCEPTED submission. Creating an
// intent twice is idempotent: the open PENDING intent is returned as-is; a
// settled payment makes the call fail.
func (s *PaymentService) CreateIntent(submissionID uint, actor *models.User) (*models.Payment, error) {
	if actor == nil {
		return nil, NewAuthorizationError("actor is required")
	}

	var submission models.Submission
	if err := s.db.Preload("Author").
		Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("submission %d not found", submissionID)
		}
		return nil, err
	}

	if actor.UserID != submission.AuthorID && !actor.IsEditor() {
		return nil, NewAuthorizationError("only the submitting author or an editor may create a payment intent")
	}
	if submission.Status != models.StatusAccepted {
		return nil, NewInvalidStateError("submission %s is %s; payment intents require ACCEPTED",
			submission.SubmissionNumber, submission.Status)
	}

	var existing models.Payment
	err := s.db.Where("submission_id = ? AND status IN ?", submissionID,
		[]string{models.PaymentStatusPending, models.PaymentStatusPaid}).
		Order("created_at DESC").
		First(&existing).Error
	if err == nil {
		if existing.Status == models.PaymentStatusPaid {
			return nil, NewInvalidStateError("submission %s already has a settled payment", submission.SubmissionNumber)
		}
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	orderID := uuid.NewString()
	token, redirectURL, err := s.gateway.CreateTransaction(orderID, s.amount, &submission.Author)
	if err != nil {
		return nil, NewExternalServiceError(err, "payment gateway rejected intent for submission %s", submission.SubmissionNumber)
	}

	payment := models.Payment{
		OrderID:      orderID,
		SubmissionID: submissionID,
		PayerID:      submission.AuthorID,
		Amount:       s.amount,
		Currency:     s.currency,
		Status:       models.PaymentStatusPending,
		SnapToken:    &token,
		RedirectURL:  &redirectURL,
		CreatedAt:    time.Now(),
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// Confirm validates manually presented gateway evidence and settles the
// payment. Replays of the same transaction id no-op.
func (s *PaymentService) Confirm(paymentID uint, evidence ConfirmEvidence) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("payment %d not found", paymentID)
		}
		return nil, err
	}

	expected := s.signature(payment.OrderID, evidence.StatusCode, evidence.GrossAmount)
	if evidence.SignatureKey != expected {
		return nil, NewAuthorizationError("payment evidence signature does not verify")
	}

	return s.settle(&payment, evidence.TransactionID, "confirm")
}

// HandleWebhook processes an authenticated gateway callback. Replays of the
// same transaction id are detected and no-op'd rather than erroring.
func (s *PaymentService) HandleWebhook(payload WebhookPayload) (*models.Payment, error) {
	expected := s.signature(payload.OrderID, payload.StatusCode, payload.GrossAmount)
	if payload.SignatureKey != expected {
		return nil, NewAuthorizationError("webhook signature does not verify")
	}

	var payment models.Payment
	if err := s.db.Where("order_id = ?", payload.OrderID).First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("no payment for order %s", payload.OrderID)
		}
		return nil, err
	}

	switch payload.TransactionStatus {
	case gatewayStatusCapture, gatewayStatusSettlement:
		return s.settle(&payment, payload.TransactionID, payload.TransactionStatus)
	case gatewayStatusDeny, gatewayStatusCancel, gatewayStatusExpire:
		return s.fail(&payment, payload.TransactionID, payload.TransactionStatus)
	default:
		// Interim statuses (pending etc.) carry no state change.
		return &payment, nil
	}
}

// Refund reverses a settled payment. The submission status is deliberately
// left alone; reverting a published article is a manual editor action.
func (s *PaymentService) Refund(paymentID uint, reason string, actor *models.User) (*models.Payment, error) {
	if actor == nil || !actor.IsEditor() {
		return nil, NewAuthorizationError("only editors may refund payments")
	}
	if reason == "" {
		return nil, NewValidationError("refund reason is required")
	}

	var payment models.Payment
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("payment %d not found", paymentID)
		}
		return nil, err
	}
	if payment.Status != models.PaymentStatusPaid {
		return nil, NewInvalidStateError("payment %s is %s; only settled payments can be refunded",
			payment.OrderID, payment.Status)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":        models.PaymentStatusRefunded,
		"refund_reason": reason,
		"refunded_at":   now,
		"updated_at":    now,
	}
	if err := s.db.Model(&payment).Updates(updates).Error; err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatusRefunded
	payment.RefundReason = &reason
	payment.RefundedAt = &now
	return &payment, nil
}

// StatusFor returns the latest payment of a submission, or nil when no intent
// exists yet.
func (s *PaymentService) StatusFor(submissionID uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Where("submission_id = ?", submissionID).
		Order("created_at DESC").
		First(&payment).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentService) settle(payment *models.Payment, transactionID, eventStatus string) (*models.Payment, error) {
	processed, err := s.alreadyProcessed(transactionID)
	if err != nil {
		return nil, err
	}
	if processed || payment.Status == models.PaymentStatusPaid {
		// Replay: exactly one PAID transition per transaction id.
		return payment, nil
	}
	if payment.Status != models.PaymentStatusPending && payment.Status != models.PaymentStatusFailed {
		return nil, NewInvalidStateError("payment %s is %s and cannot settle", payment.OrderID, payment.Status)
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":         models.PaymentStatusPaid,
			"transaction_id": transactionID,
			"paid_at":        now,
			"updated_at":     now,
		}
		if err := tx.Model(payment).Updates(updates).Error; err != nil {
			return err
		}
		return s.markProcessed(tx, transactionID, payment.OrderID, eventStatus, now)
	})
	if err != nil {
		return nil, err
	}

	payment.Status = models.PaymentStatusPaid
	payment.TransactionID = &transactionID
	payment.PaidAt = &now

	var submission models.Submission
	if err := s.db.Preload("Author").First(&submission, payment.SubmissionID).Error; err == nil {
		msg := ComposePaymentReceived(submission.Author.FullName(), submission.Title, payment.Amount, payment.Currency)
		if err := s.notify.Notify(s.db, payment.PayerID, msg, "success", &payment.SubmissionID); err != nil {
			// Notification loss is tolerable here; the payment itself settled.
			log.Printf("Warning: failed to store payment notification: %v", err)
		}
		s.notify.Email(submission.Author.Email, msg)
	}

	return payment, nil
}

func (s *PaymentService) fail(payment *models.Payment, transactionID, eventStatus string) (*models.Payment, error) {
	processed, err := s.alreadyProcessed(transactionID)
	if err != nil {
		return nil, err
	}
	if processed || payment.Status != models.PaymentStatusPending {
		return payment, nil
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":         models.PaymentStatusFailed,
			"transaction_id": transactionID,
			"updated_at":     now,
		}
		if err := tx.Model(payment).Updates(updates).Error; err != nil {
			return err
		}
		return s.markProcessed(tx, transactionID, payment.OrderID, eventStatus, now)
	})
	if err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatusFailed
	payment.TransactionID = &transactionID
	return payment, nil
}

func (s *PaymentService) alreadyProcessed(transactionID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.PaymentWebhookEvent{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error
	return count > 0, err
}

func (s *PaymentService) markProcessed(tx *gorm.DB, transactionID, orderID, eventStatus string, now time.Time) error {
	return tx.Create(&models.PaymentWebhookEvent{
		TransactionID: transactionID,
		OrderID:       orderID,
		EventStatus:   eventStatus,
		ProcessedAt:   now,
	}).Error
}

func (s *PaymentService) signature(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + s.serverKey))
	return hex.EncodeToString(sum[:])
}
