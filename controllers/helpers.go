package controllers

import (
	"net/http"
	"strconv"
	"sync"

	"journal-management-api/config"
	"journal-management-api/middleware"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

var (
	gatewayOnce sync.Once
	gateway     services.PaymentGateway
)

func notificationService() *services.NotificationService {
	return services.NewNotificationService(config.DB, config.SendMail)
}

func lifecycleService() *services.LifecycleService {
	return services.NewLifecycleService(config.DB, notificationService(), config.App.DOIPrefix)
}

func reviewService() *services.ReviewService {
	return services.NewReviewService(config.DB, notificationService())
}

func paymentService() *services.PaymentService {
	gatewayOnce.Do(func() {
		gateway = services.NewSnapGateway(config.App.Payment.ServerKey, config.App.Payment.Sandbox)
	})
	return services.NewPaymentService(
		config.DB,
		gateway,
		notificationService(),
		config.App.Payment.ServerKey,
		config.App.Payment.APCAmount,
		config.App.Payment.Currency,
	)
}

func issueService() *services.IssueService {
	return services.NewIssueService(config.DB)
}

// respondWorkflowError maps the workflow error taxonomy onto HTTP statuses.
// The kind travels with the message so clients can branch without parsing text.
func respondWorkflowError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindAuthorization:
		status = http.StatusForbidden
	case services.KindPaymentRequired:
		status = http.StatusPaymentRequired
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindInvalidTransition, services.KindInvalidState,
		services.KindConcurrentModification, services.KindDuplicateInvitation:
		status = http.StatusConflict
	case services.KindExternalService:
		status = http.StatusBadGateway
	}

	if kind == "" {
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": string(kind)})
}

func currentUserOrAbort(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return nil, false
	}
	return user, true
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
