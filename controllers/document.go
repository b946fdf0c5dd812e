package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadManuscriptFile attaches a manuscript, revision, supplement or proof
// file to a submission.
func UploadManuscriptFile(c *gin.Context) {
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
	if submission.AuthorID != user.UserID && !user.IsEditor() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	kind := c.PostForm("kind")
	switch kind {
	case models.FileKindManuscript, models.FileKindRevision, models.FileKindSupplement:
		// authors and editors
	case models.FileKindProof:
		// proofs come from the editorial office
		if !user.IsEditor() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only editors may upload proofs"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file kind"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if fileHeader.Size > 50*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 50MB limit"})
		return
	}

	record := models.ManuscriptFile{
		SubmissionID: submissionID,
		FileKind:     kind,
		OriginalName: fileHeader.Filename,
		FileSize:     fileHeader.Size,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		UploadedBy:   user.UserID,
		UploadedAt:   time.Now(),
	}
	if !record.IsValidDocumentType() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	dir := filepath.Join(config.App.UploadPath, "submissions", submission.SubmissionNumber)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare storage"})
		return
	}

	storedName := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	record.StoredPath = filepath.Join(dir, storedName)
	if err := c.SaveUploadedFile(fileHeader, record.StoredPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	if err := config.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file": record})
}

// DownloadManuscriptFile streams a stored file to an authorized caller.
func DownloadManuscriptFile(c *gin.Context) {
	fileID, ok := parseIDParam(c, "file_id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var file models.ManuscriptFile
	if err := config.DB.Where("file_id = ? AND deleted_at IS NULL", fileID).First(&file).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", file.SubmissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	if !canViewSubmission(user, &submission) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	c.FileAttachment(file.StoredPath, file.OriginalName)
}
