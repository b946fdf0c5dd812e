package controllers

import (
	"net/http"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/utils"

	"github.com/gin-gonic/gin"
)

type CreateComplaintRequest struct {
	SubmissionID *uint  `json:"submission_id"`
	Subject      string `json:"subject" binding:"required"`
	Body         string `json:"body" binding:"required"`
}

// CreateComplaint files a grievance, optionally tied to a submission.
func CreateComplaint(c *gin.Context) {
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SubmissionID != nil {
		var count int64
		config.DB.Model(&models.Submission{}).
			Where("submission_id = ? AND deleted_at IS NULL", *req.SubmissionID).
			Count(&count)
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
	}

	complaint := models.Complaint{
		SubmissionID:  req.SubmissionID,
		ComplainantID: user.UserID,
		Subject:       utils.SanitizeInput(req.Subject),
		Body:          utils.SanitizeInput(req.Body),
		Status:        models.ComplaintStatusOpen,
		CreatedAt:     time.Now(),
	}
	if err := config.DB.Create(&complaint).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to file complaint"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"complaint": complaint})
}

// GetMyComplaints lists complaints filed by the caller.
func GetMyComplaints(c *gin.Context) {
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var complaints []models.Complaint
	if err := config.DB.Where("complainant_id = ?", user.UserID).
		Order("created_at DESC").Find(&complaints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaints"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"complaints": complaints, "total": len(complaints)})
}

type UpdateComplaintRequest struct {
	Status     string  `json:"status" binding:"required"`
	Resolution *string `json:"resolution"`
}

// UpdateComplaintStatus lets an editor work a complaint through its states.
func UpdateComplaintStatus(c *gin.Context) {
	complaintID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var req UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Status {
	case models.ComplaintStatusUnderInvestigation, models.ComplaintStatusResolved, models.ComplaintStatusDismissed:
		// valid
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint status"})
		return
	}

	var complaint models.Complaint
	if err := config.DB.First(&complaint, complaintID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     req.Status,
		"updated_at": now,
	}
	if req.Status == models.ComplaintStatusResolved || req.Status == models.ComplaintStatusDismissed {
		updates["resolution"] = req.Resolution
		updates["resolved_by"] = user.UserID
		updates["resolved_at"] = now
	}

	if err := config.DB.Model(&complaint).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update complaint"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Complaint updated"})
}
