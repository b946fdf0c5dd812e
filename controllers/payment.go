package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// CreatePaymentIntent opens an APC payment intent for an accepted submission.
func CreatePaymentIntent(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	payment, err := paymentService().CreateIntent(submissionID, user)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// ConfirmPayment settles a payment from manually presented gateway evidence.
func ConfirmPayment(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var evidence services.ConfirmEvidence
	if err := c.ShouldBindJSON(&evidence); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := paymentService().Confirm(paymentID, evidence)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// GetPaymentStatus reports the latest payment state for a submission.
func GetPaymentStatus(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := paymentService().StatusFor(submissionID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	if payment == nil {
		c.JSON(http.StatusOK, gin.H{"submission_id": submissionID, "status": "NONE", "paid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission_id": submissionID,
		"status":        payment.Status,
		"paid":          payment.Status == models.PaymentStatusPaid,
		"payment":       payment,
	})
}

// RefundPayment reverses a settled payment; the submission status stays put.
func RefundPayment(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := paymentService().Refund(paymentID, req.Reason, user)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// PaymentWebhook receives gateway callbacks. Unauthenticated route: the raw
// body is read as-is and trusted only after its signature verifies. Replays
// return 200 without re-applying state.
func PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read body"})
		return
	}

	var payload services.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	payment, err := paymentService().HandleWebhook(payload)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": payment.OrderID, "status": payment.Status})
}
