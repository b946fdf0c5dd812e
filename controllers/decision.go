package controllers

import (
	"net/http"

	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

type DecisionRequest struct {
	Decision string  `json:"decision" binding:"required"`
	Comments *string `json:"comments"`
}

// decisionTargets maps the editor's decision keyword to a lifecycle status.
var decisionTargets = map[string]models.SubmissionStatus{
	"start_review":      models.StatusUnderReview,
	"revision_required": models.StatusRevisionRequired,
	"accept":            models.StatusAccepted,
	"reject":            models.StatusRejected,
}

// DecideSubmission applies an explicit editorial decision. The review
// distribution is advisory; whatever the editor chooses here is what happens,
// subject to the transition table.
func DecideSubmission(c *gin.Context) {
	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := currentUserOrAbort(c)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, known := decisionTargets[req.Decision]
	if !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Decision must be one of start_review, revision_required, accept, reject"})
		return
	}

	submission, err := lifecycleService().Transition(submissionID, target, user, req.Comments)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission": submission})
}

// PublishSubmission moves an accepted, paid, proof-approved submission to
// PUBLISHED and assigns its DOI.
func PublishSubmission(c *gin.Context) {
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

	submission, err := lifecycleService().Transition(submissionID, models.StatusPublished, user, req.Comments)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission": submission})
}
