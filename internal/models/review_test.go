package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReview(t *testing.T) {
	review := NewReview("pr-1", "acme/widgets", 42)

	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "pr-1", review.PRID)
	assert.Equal(t, "acme/widgets", review.Repo)
	assert.Equal(t, 42, review.PRNumber)
	assert.NotNil(t, review.Suggestions)
	assert.NotNil(t, review.SecurityIssues)
	assert.False(t, review.Timestamp.IsZero())
}

func TestNewPullRequest(t *testing.T) {
	pr := NewPullRequest("acme/widgets", 42, "Add feature", "octocat", []string{"a.go"})

	assert.NotEmpty(t, pr.ID)
	assert.Equal(t, PullRequestStatusPending, pr.Status)
	assert.Nil(t, pr.ReviewID)
	assert.False(t, pr.IsCompleted())
	assert.False(t, pr.IsTerminal())

	pr.Status = PullRequestStatusFailed
	assert.True(t, pr.IsTerminal())
	assert.False(t, pr.IsCompleted())

	pr.Status = PullRequestStatusCompleted
	assert.True(t, pr.IsTerminal())
	assert.True(t, pr.IsCompleted())
}

func TestAnalyzePRRequestValidate(t *testing.T) {
	testCases := []struct {
		name        string
		request     AnalyzePRRequest
		expectError bool
	}{
		{
			name:    "Valid request",
			request: AnalyzePRRequest{RepoURL: "https://github.com/acme/widgets", PRNumber: 1, GitHubToken: "ghp_x"},
		},
		{
			name:        "Missing repo URL",
			request:     AnalyzePRRequest{PRNumber: 1, GitHubToken: "ghp_x"},
			expectError: true,
		},
		{
			name:        "Non-positive PR number",
			request:     AnalyzePRRequest{RepoURL: "acme/widgets", PRNumber: 0, GitHubToken: "ghp_x"},
			expectError: true,
		},
		{
			name:        "Missing token",
			request:     AnalyzePRRequest{RepoURL: "acme/widgets", PRNumber: 1},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.request.Validate()
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
