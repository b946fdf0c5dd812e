package controllers

import (
	"net/http"

	"journal-management-api/config"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns role-scoped counters: authors see their own
// pipeline, reviewers their queue, editors the whole journal.
func GetDashboardStats(c *gin.Context) {
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	stats := gin.H{}

	submissionQuery := config.DB.Model(&models.Submission{}).Where("deleted_at IS NULL")
	if !user.IsEditor() {
		submissionQuery = submissionQuery.Where("author_id = ?", user.UserID)
	}

	type statusCount struct {
		Status models.SubmissionStatus `gorm:"column:status"`
		Count  int64                   `gorm:"column:count"`
	}
	var byStatus []statusCount
	if err := submissionQuery.Select("status, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate submissions"})
		return
	}

	submissionStats := gin.H{}
	var totalSubmissions int64
	for _, row := range byStatus {
		submissionStats[string(row.Status)] = row.Count
		totalSubmissions += row.Count
	}
	stats["submissions"] = submissionStats
	stats["total_submissions"] = totalSubmissions

	var openReviews int64
	config.DB.Model(&models.Review{}).
		Where("reviewer_id = ? AND review_status IN ?", user.UserID,
			[]string{models.ReviewStatusPending, models.ReviewStatusInProgress}).
		Count(&openReviews)
	stats["open_reviews"] = openReviews

	if user.IsEditor() {
		var pendingDecisions int64
		config.DB.Model(&models.Submission{}).
			Where("status = ? AND deleted_at IS NULL", models.StatusUnderReview).
			Count(&pendingDecisions)
		stats["awaiting_decision"] = pendingDecisions

		var unpaid int64
		config.DB.Model(&models.Submission{}).
			Where("status = ? AND deleted_at IS NULL", models.StatusAccepted).
			Where("submission_id NOT IN (?)",
				config.DB.Model(&models.Payment{}).Select("submission_id").
					Where("status = ?", models.PaymentStatusPaid)).
			Count(&unpaid)
		stats["awaiting_payment"] = unpaid

		var openComplaints int64
		config.DB.Model(&models.Complaint{}).
			Where("status IN ?", []string{models.ComplaintStatusOpen, models.ComplaintStatusUnderInvestigation}).
			Count(&openComplaints)
		stats["open_complaints"] = openComplaints
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
