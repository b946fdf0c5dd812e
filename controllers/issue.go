package controllers

import (
	"net/http"

	"journal-management-api/config"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateIssueRequest struct {
	Volume int     `json:"volume" binding:"required"`
	Number int     `json:"number" binding:"required"`
	Year   int     `json:"year" binding:"required"`
	Title  *string `json:"title"`
}

// CreateIssue opens a new draft issue.
func CreateIssue(c *gin.Context) {
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := issueService().CreateIssue(req.Volume, req.Number, req.Year, req.Title, user)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"issue": issue})
}

// GetIssues lists issues; readers see published ones, editors see all.
func GetIssues(c *gin.Context) {
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	query := config.DB.Where("deleted_at IS NULL")
	if !user.IsEditor() {
		query = query.Where("status <> ?", models.IssueStatusDraft)
	}

	var issues []models.Issue
	if err := query.Order("year DESC, volume DESC, number DESC").Find(&issues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch issues"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues, "total": len(issues)})
}

// GetIssue returns one issue with its ordered articles.
func GetIssue(c *gin.Context) {
	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var issue models.Issue
	if err := config.DB.
		Preload("Articles", func(db *gorm.DB) *gorm.DB { return db.Order("article_order ASC") }).
		Preload("Articles.Submission").
		Preload("Articles.Submission.Author").
		Where("issue_id = ? AND deleted_at IS NULL", issueID).
		First(&issue).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"issue": issue})
}

type AddIssueArticleRequest struct {
	SubmissionID uint `json:"submission_id" binding:"required"`
	ArticleOrder int  `json:"article_order"`
	PageStart    int  `json:"page_start" binding:"required"`
	PageEnd      int  `json:"page_end" binding:"required"`
}

// AddIssueArticle places an accepted submission into a draft issue.
func AddIssueArticle(c *gin.Context) {
	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var req AddIssueArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article, err := issueService().AddArticle(issueID, req.SubmissionID, req.ArticleOrder, req.PageStart, req.PageEnd, user)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"article": article})
}

// PublishIssue moves a draft issue to PUBLISHED.
func PublishIssue(c *gin.Context) {
	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	issue, err := issueService().PublishIssue(issueID, user)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"issue": issue})
}

// ArchiveIssue moves a published issue to ARCHIVED.
func ArchiveIssue(c *gin.Context) {
	issueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	issue, err := issueService().ArchiveIssue(issueID, user)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"issue": issue})
}
