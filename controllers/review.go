package controllers

import (
	"net/http"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

type InviteReviewerRequest struct {
	ReviewerID uint       `json:"reviewer_id" binding:"required"`
	DueDate    *time.Time `json:"due_date"`
}

// InviteReviewer creates a PENDING review invitation on a submission.
func InviteReviewer(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var req InviteReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := reviewService().InviteReviewer(submissionID, req.ReviewerID, user, req.DueDate)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// GetAssignedReviews lists the caller's review invitations and assignments.
func GetAssignedReviews(c *gin.Context) {
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Submission").Preload("Submission.Author").
		Where("reviewer_id = ?", user.UserID)
	if status := c.Query("status"); status != "" {
		query = query.Where("review_status = ?", status)
	}

	var reviews []models.Review
	if err := query.Order("invited_at DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// AcceptReviewInvitation moves a pending invitation to IN_PROGRESS.
func AcceptReviewInvitation(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	review, err := reviewService().AcceptInvitation(reviewID, user)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// DeclineReviewInvitation declines a pending invitation permanently.
func DeclineReviewInvitation(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	review, err := reviewService().DeclineInvitation(reviewID, user)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

type SubmitReviewRequest struct {
	Recommendation       string  `json:"recommendation" binding:"required"`
	Rating               int     `json:"rating" binding:"required"`
	Comments             *string `json:"comments"`
	ConfidentialComments *string `json:"confidential_comments"`
}

// SubmitReview records a completed review with its recommendation.
func SubmitReview(c *gin.Context) {
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := reviewService().SubmitReview(reviewID, user, req.Recommendation, req.Rating, req.Comments, req.ConfidentialComments)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// GetDecisionView returns all completed reviews plus the recommendation
// distribution for the editor. Advisory only; the editor's explicit decision
// is authoritative.
func GetDecisionView(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	aggregate, err := reviewService().AggregateForDecision(submissionID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"decision_view": aggregate})
}
