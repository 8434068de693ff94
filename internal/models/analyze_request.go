package models

// AnalyzePRRequest represents the request payload for triggering a pull request analysis
type AnalyzePRRequest struct {
	RepoURL     string `json:"repo_url" binding:"required"`
	PRNumber    int    `json:"pr_number" binding:"required"`
	GitHubToken string `json:"github_token" binding:"required"`
}

// Validate validates the analyze request
func (r *AnalyzePRRequest) Validate() error {
	if r.RepoURL == "" {
		return &ValidationError{Field: "repo_url", Message: "Repository URL is required"}
	}
	if r.PRNumber <= 0 {
		return &ValidationError{Field: "pr_number", Message: "Pull request number must be positive"}
	}
	if r.GitHubToken == "" {
		return &ValidationError{Field: "github_token", Message: "GitHub token is required"}
	}
	return nil
}

// ValidationError describes an invalid request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
