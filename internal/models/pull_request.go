package models

import (
	"time"

	"github.com/google/uuid"
)

// PullRequestStatus represents the analysis lifecycle of a pull request
type PullRequestStatus string

const (
	PullRequestStatusPending   PullRequestStatus = "pending"
	PullRequestStatusAnalyzing PullRequestStatus = "analyzing"
	PullRequestStatusCompleted PullRequestStatus = "completed"
	PullRequestStatusFailed    PullRequestStatus = "failed"
)

// PullRequest represents a GitHub pull request submitted for review
type PullRequest struct {
	ID           string            `json:"id" db:"id"`
	Repo         string            `json:"repo" db:"repo"`
	PRNumber     int               `json:"pr_number" db:"pr_number"`
	Title        string            `json:"title" db:"title"`
	Author       string            `json:"author" db:"author"`
	Status       PullRequestStatus `json:"status" db:"status"`
	FilesChanged []string          `json:"files_changed" db:"files_changed"` // stored as JSON array
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	ReviewID     *string           `json:"review_id" db:"review_id"`
	ErrorMessage *string           `json:"error_message,omitempty" db:"error_message"`
}

// NewPullRequest creates a new PullRequest with a generated UUID
func NewPullRequest(repo string, prNumber int, title, author string, filesChanged []string) *PullRequest {
	return &PullRequest{
		ID:           uuid.New().String(),
		Repo:         repo,
		PRNumber:     prNumber,
		Title:        title,
		Author:       author,
		Status:       PullRequestStatusPending,
		FilesChanged: filesChanged,
		CreatedAt:    time.Now().UTC(),
	}
}

// IsCompleted checks if the pull request analysis finished successfully
func (p *PullRequest) IsCompleted() bool {
	return p.Status == PullRequestStatusCompleted
}

// IsTerminal checks if the pull request reached a final status
func (p *PullRequest) IsTerminal() bool {
	return p.Status == PullRequestStatusCompleted || p.Status == PullRequestStatusFailed
}
