package services

import (
	"testing"

	"journal-management-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIssue(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	editor := seedUser(t, db, models.RoleIDEditor)
	svc := NewIssueService(db)

	_, err := svc.CreateIssue(12, 3, 2026, nil, author)
	require.Error(t, err)
	assert.Equal(t, KindAuthorization, KindOf(err))

	_, err = svc.CreateIssue(0, 3, 2026, nil, editor)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	issue, err := svc.CreateIssue(12, 3, 2026, nil, editor)
	require.NoError(t, err)
	assert.Equal(t, models.IssueStatusDraft, issue.Status)

	_, err = svc.CreateIssue(12, 3, 2026, nil, editor)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestAddArticle(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	editor := seedUser(t, db, models.RoleIDEditor)
	svc := NewIssueService(db)

	issue, err := svc.CreateIssue(12, 3, 2026, nil, editor)
	require.NoError(t, err)

	accepted := seedSubmission(t, db, author, models.StatusAccepted)
	pending := seedSubmission(t, db, author, models.StatusUnderReview)

	_, err = svc.AddArticle(issue.IssueID, pending.SubmissionID, 1, 1, 18, editor)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))

	_, err = svc.AddArticle(issue.IssueID, accepted.SubmissionID, 1, 20, 10, editor)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	article, err := svc.AddArticle(issue.IssueID, accepted.SubmissionID, 1, 1, 18, editor)
	require.NoError(t, err)
	assert.Equal(t, 1, article.PageStart)
	assert.Equal(t, 18, article.PageEnd)

	// The same article cannot appear twice in one issue.
	_, err = svc.AddArticle(issue.IssueID, accepted.SubmissionID, 2, 19, 30, editor)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestIssuePublicationFlow(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, models.RoleIDAuthor)
	editor := seedUser(t, db, models.RoleIDEditor)
	svc := NewIssueService(db)

	issue, err := svc.CreateIssue(12, 3, 2026, nil, editor)
	require.NoError(t, err)

	// Archiving a draft skips a state and is rejected.
	_, err = svc.ArchiveIssue(issue.IssueID, editor)
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, KindOf(err))

	published, err := svc.PublishIssue(issue.IssueID, editor)
	require.NoError(t, err)
	assert.Equal(t, models.IssueStatusPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)

	// A published issue is closed to new articles.
	accepted := seedSubmission(t, db, author, models.StatusAccepted)
	_, err = svc.AddArticle(issue.IssueID, accepted.SubmissionID, 1, 1, 18, editor)
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))

	archived, err := svc.ArchiveIssue(issue.IssueID, editor)
	require.NoError(t, err)
	assert.Equal(t, models.IssueStatusArchived, archived.Status)
}
