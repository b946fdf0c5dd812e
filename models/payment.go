package models

import "time"

// Payment statuses for article processing charges.
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusRefunded = "REFUNDED"
	PaymentStatusFailed   = "FAILED"
)

// Payment represents an APC payment intent for an accepted submission.
type Payment struct {
	PaymentID    uint    `gorm:"primaryKey;column:payment_id" json:"payment_id"`
	OrderID      string  `gorm:"column:order_id;unique" json:"order_id"`
	SubmissionID uint    `gorm:"column:submission_id" json:"submission_id"`
	PayerID      uint    `gorm:"column:payer_id" json:"payer_id"`
	Amount       int64   `gorm:"column:amount" json:"amount"`
	Currency     string  `gorm:"column:currency" json:"currency"`
	Status       string  `gorm:"column:status" json:"status"`
	// TransactionID is the gateway transaction reference recorded on confirmation.
	TransactionID *string    `gorm:"column:transaction_id" json:"transaction_id,omitempty"`
	SnapToken     *string    `gorm:"column:snap_token" json:"snap_token,omitempty"`
	RedirectURL   *string    `gorm:"column:redirect_url" json:"redirect_url,omitempty"`
	RefundReason  *string    `gorm:"column:refund_reason" json:"refund_reason,omitempty"`
	PaidAt        *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
	RefundedAt    *time.Time `gorm:"column:refunded_at" json:"refunded_at,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at" json:"updated_at"`

	Submission *Submission `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
	Payer      *User       `gorm:"foreignKey:PayerID" json:"payer,omitempty"`
}

// PaymentWebhookEvent records processed gateway callbacks so replays no-op.
type PaymentWebhookEvent struct {
	EventID       uint      `gorm:"primaryKey;column:event_id" json:"event_id"`
	TransactionID string    `gorm:"column:transaction_id" json:"transaction_id"`
	OrderID       string    `gorm:"column:order_id" json:"order_id"`
	EventStatus   string    `gorm:"column:event_status" json:"event_status"`
	ProcessedAt   time.Time `gorm:"column:processed_at" json:"processed_at"`
}

// TableName overrides
func (Payment) TableName() string {
	return "payments"
}

func (PaymentWebhookEvent) TableName() string {
	return "payment_webhook_events"
}
