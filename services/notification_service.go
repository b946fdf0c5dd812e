package services

import (
	"log"
	"time"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// MailSender delivers a composed message out of band. config.SendMail
// satisfies it in production; tests pass a stub.
type MailSender func(to []string, subject, html string) error

// NotificationService persists in-app notifications and fans out email.
type NotificationService struct {
	db   *gorm.DB
	send MailSender
}

func NewNotificationService(db *gorm.DB, send MailSender) *NotificationService {
	return &NotificationService{db: db, send: send}
}

// Notify stores an in-app notification row inside the caller's transaction.
func (s *NotificationService) Notify(tx *gorm.DB, userID uint, msg ComposedMessage, notifType string, submissionID *uint) error {
	notification := models.Notification{
		UserID:              userID,
		Title:               msg.Subject,
		Message:             msg.Body,
		Type:                notifType,
		RelatedSubmissionID: submissionID,
		IsRead:              false,
		CreateAt:            time.Now(),
	}
	return tx.Create(&notification).Error
}

// Email delivers msg to the recipient after the surrounding transaction has
// committed. Failures are logged and swallowed: delivery never blocks or
// rolls back the transition that triggered it.
func (s *NotificationService) Email(to string, msg ComposedMessage) {
	if s.send == nil || to == "" {
		return
	}
	if err := s.send([]string{to}, msg.Subject, msg.Body); err != nil {
		log.Printf("Warning: failed to send email %q to %s: %v", msg.Subject, to, err)
	}
}
