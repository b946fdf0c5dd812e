package controllers

import (
	"net/http"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
	"journal-management-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CoAuthorRequest struct {
	FullName    string  `json:"full_name" binding:"required"`
	Email       *string `json:"email"`
	Affiliation *string `json:"affiliation"`
}

type CreateSubmissionRequest struct {
	Title     string            `json:"title" binding:"required"`
	Abstract  string            `json:"abstract" binding:"required"`
	Keywords  *string           `json:"keywords"`
	CoAuthors []CoAuthorRequest `json:"co_authors"`
}

// CreateSubmission registers a new manuscript in SUBMITTED state.
func CreateSubmission(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	now := time.Now()
	submission := models.Submission{
		SubmissionNumber: "JMP-" + uuid.NewString()[:8],
		Title:            utils.SanitizeInput(req.Title),
		Abstract:         utils.SanitizeInput(req.Abstract),
		Keywords:         req.Keywords,
		Status:           models.StatusSubmitted,
		AuthorID:         user.UserID,
		ReviewRound:      1,
		Version:          1,
		SubmittedAt:      &now,
		CreatedAt:        now,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}
		for i, coAuthor := range req.CoAuthors {
			entry := models.SubmissionAuthor{
				SubmissionID: submission.SubmissionID,
				FullName:     utils.SanitizeInput(coAuthor.FullName),
				Email:        coAuthor.Email,
				Affiliation:  coAuthor.Affiliation,
				AuthorOrder:  i + 1,
				CreatedAt:    now,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		history := models.DecisionHistory{
			SubmissionID: submission.SubmissionID,
			NewStatus:    models.StatusSubmitted,
			ChangedBy:    user.UserID,
			CreatedAt:    now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		if msg, composed := services.ComposeStatusChange(models.StatusSubmitted, submission.Title, user.FullName(), submission.SubmissionNumber); composed {
			id := submission.SubmissionID
			if err := notificationService().Notify(tx, user.UserID, msg, "info", &id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	if msg, composed := services.ComposeStatusChange(models.StatusSubmitted, submission.Title, user.FullName(), submission.SubmissionNumber); composed {
		notificationService().Email(user.Email, msg)
	}

	c.JSON(http.StatusCreated, gin.H{"submission": submission})
}

// GetSubmissions lists the caller's own submissions; editors see everything.
func GetSubmissions(c *gin.Context) {
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Author").Where("deleted_at IS NULL")
	if !user.IsEditor() {
		query = query.Where("author_id = ?", user.UserID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var submissions []models.Submission
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns a submission with co-authors, files and history.
func GetSubmission(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var submission models.Submission
	if err := config.DB.Preload("Author").
		Preload("CoAuthors").
		Preload("Files", "deleted_at IS NULL").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if !canViewSubmission(user, &submission) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission": submission})
}

// UpdateSubmission edits manuscript metadata while the author still owns the
// draft (SUBMITTED or REVISION_REQUIRED).
func UpdateSubmission(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		Title    *string `json:"title"`
		Abstract *string `json:"abstract"`
		Keywords *string `json:"keywords"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	if submission.AuthorID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the submitting author may edit"})
		return
	}
	if submission.Status != models.StatusSubmitted && submission.Status != models.StatusRevisionRequired {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Submission can no longer be edited",
			"kind":  string(services.KindInvalidState),
		})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	if req.Title != nil {
		updates["title"] = utils.SanitizeInput(*req.Title)
	}
	if req.Abstract != nil {
		updates["abstract"] = utils.SanitizeInput(*req.Abstract)
	}
	if req.Keywords != nil {
		updates["keywords"] = *req.Keywords
	}

	if err := config.DB.Model(&submission).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission updated"})
}

// RetractSubmission soft-retracts: an explicit state change, never a delete.
func RetractSubmission(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		Comments *string `json:"comments"`
	}
	_ = c.ShouldBindJSON(&req)

	submission, err := lifecycleService().Transition(submissionID, models.StatusRetracted, user, req.Comments)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission": submission})
}

// ResubmitSubmission is the author-initiated REVISION_REQUIRED -> UNDER_REVIEW
// transition after uploading a revised manuscript.
func ResubmitSubmission(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		Comments *string `json:"comments"`
	}
	_ = c.ShouldBindJSON(&req)

	submission, err := lifecycleService().Transition(submissionID, models.StatusUnderReview, user, req.Comments)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission": submission})
}

// ApproveProof records the author's sign-off on the final typeset version.
func ApproveProof(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	if submission.AuthorID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the submitting author may approve the proof"})
		return
	}
	if submission.Status != models.StatusAccepted {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Proof approval requires an accepted submission",
			"kind":  string(services.KindInvalidState),
		})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&submission).
		Updates(map[string]interface{}{"proof_approved": true, "updated_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve proof"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Proof approved"})
}

func canViewSubmission(user *models.User, submission *models.Submission) bool {
	if user.IsEditor() || submission.AuthorID == user.UserID {
		return true
	}
	// Assigned reviewers may read the manuscript they are reviewing.
	var count int64
	config.DB.Model(&models.Review{}).
		Where("submission_id = ? AND reviewer_id = ?", submission.SubmissionID, user.UserID).
		Count(&count)
	return count > 0
}
