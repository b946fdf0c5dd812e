package services

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"journal-management-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every pooled connection gets its own :memory: database, so pin to one.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Submission{},
		&models.SubmissionAuthor{},
		&models.DecisionHistory{},
		&models.Review{},
		&models.Payment{},
		&models.PaymentWebhookEvent{},
		&models.Issue{},
		&models.IssueArticle{},
		&models.Complaint{},
		&models.Notification{},
		&models.ManuscriptFile{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, roleID int) *models.User {
	t.Helper()

	now := time.Now()
	user := &models.User{
		UserFname:     "Test",
		UserLname:     uuid.NewString()[:8],
		Email:         uuid.NewString()[:8] + "@journal.test",
		Password:      "irrelevant",
		RoleID:        roleID,
		AccountStatus: models.AccountStatusActive,
		CreateAt:      &now,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedSubmission(t *testing.T, db *gorm.DB, author *models.User, status models.SubmissionStatus) *models.Submission {
	t.Helper()

	now := time.Now()
	submission := &models.Submission{
		SubmissionNumber: "JMP-" + uuid.NewString()[:8],
		Title:            "Graph Algorithms",
		Abstract:         "On the structure of sparse graphs.",
		Status:           status,
		AuthorID:         author.UserID,
		ReviewRound:      1,
		Version:          1,
		SubmittedAt:      &now,
		CreatedAt:        now,
	}
	require.NoError(t, db.Create(submission).Error)
	return submission
}

func seedReview(t *testing.T, db *gorm.DB, submission *models.Submission, reviewer *models.User, status string) *models.Review {
	t.Helper()

	review := &models.Review{
		SubmissionID: submission.SubmissionID,
		ReviewerID:   reviewer.UserID,
		ReviewRound:  submission.ReviewRound,
		ReviewStatus: status,
		InvitedAt:    time.Now(),
	}
	require.NoError(t, db.Create(review).Error)
	return review
}

func testNotificationService(db *gorm.DB) *NotificationService {
	return NewNotificationService(db, nil)
}

func testLifecycleService(db *gorm.DB) *LifecycleService {
	return NewLifecycleService(db, testNotificationService(db), "10.5555")
}

func testReviewService(db *gorm.DB) *ReviewService {
	return NewReviewService(db, testNotificationService(db))
}

const testServerKey = "test-server-key"

type stubGateway struct {
	calls    int
	failNext bool
}

func (g *stubGateway) CreateTransaction(orderID string, amount int64, payer *models.User) (string, string, error) {
	g.calls++
	if g.failNext {
		return "", "", errors.New("gateway unavailable")
	}
	return "tok_" + orderID, "https://pay.test/" + orderID, nil
}

func testPaymentService(db *gorm.DB, gateway PaymentGateway) *PaymentService {
	return NewPaymentService(db, gateway, testNotificationService(db), testServerKey, 1500, "USD")
}

func testSignature(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	return hex.EncodeToString(sum[:])
}

func settlementPayload(payment *models.Payment, transactionID string) WebhookPayload {
	return WebhookPayload{
		OrderID:           payment.OrderID,
		TransactionID:     transactionID,
		TransactionStatus: gatewayStatusSettlement,
		StatusCode:        "200",
		GrossAmount:       "1500.00",
		SignatureKey:      testSignature(payment.OrderID, "200", "1500.00"),
	}
}
