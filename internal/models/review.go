package models

import (
	"time"

	"github.com/google/uuid"
)

// SuggestionCategory classifies a review suggestion
type SuggestionCategory string

const (
	SuggestionCategoryArchitecture    SuggestionCategory = "architecture"
	SuggestionCategoryBestPractice    SuggestionCategory = "best_practice"
	SuggestionCategoryPerformance     SuggestionCategory = "performance"
	SuggestionCategoryMaintainability SuggestionCategory = "maintainability"
)

// Suggestion is a single improvement suggestion for one file
type Suggestion struct {
	FilePath   string `json:"file_path"`
	LineNumber *int   `json:"line_number"`
	Suggestion string `json:"suggestion"`
	Category   string `json:"category"` // architecture, best_practice, performance, maintainability
	Severity   string `json:"severity"` // high, medium, low
}

// SecurityIssue is a security finding in one file
type SecurityIssue struct {
	ID             string `json:"id"`
	FilePath       string `json:"file_path"`
	LineNumber     *int   `json:"line_number"`
	IssueType      string `json:"issue_type"`
	Description    string `json:"description"`
	Severity       string `json:"severity"` // critical, high, medium, low
	Recommendation string `json:"recommendation"`
}

// NewSecurityIssue creates a SecurityIssue with a generated UUID
func NewSecurityIssue(filePath string, lineNumber *int, issueType, description, severity, recommendation string) *SecurityIssue {
	return &SecurityIssue{
		ID:             uuid.New().String(),
		FilePath:       filePath,
		LineNumber:     lineNumber,
		IssueType:      issueType,
		Description:    description,
		Severity:       severity,
		Recommendation: recommendation,
	}
}

// QualityMetric holds the averaged quality scores for one analyzed pull request
type QualityMetric struct {
	ID                   string    `json:"id"`
	PRID                 string    `json:"pr_id"`
	ComplexityScore      float64   `json:"complexity_score"`
	MaintainabilityScore float64   `json:"maintainability_score"`
	OverallScore         float64   `json:"overall_score"`
	Timestamp            time.Time `json:"timestamp"`
}

// NewQualityMetric creates a QualityMetric with a generated UUID
func NewQualityMetric(prID string, complexity, maintainability, overall float64) *QualityMetric {
	return &QualityMetric{
		ID:                   uuid.New().String(),
		PRID:                 prID,
		ComplexityScore:      complexity,
		MaintainabilityScore: maintainability,
		OverallScore:         overall,
		Timestamp:            time.Now().UTC(),
	}
}

// Review is the persisted result of analyzing one pull request.
// Suggestions and security issues are stored as JSON arrays.
type Review struct {
	ID             string          `json:"id" db:"id"`
	PRID           string          `json:"pr_id" db:"pr_id"`
	Repo           string          `json:"repo" db:"repo"`
	PRNumber       int             `json:"pr_number" db:"pr_number"`
	Suggestions    []Suggestion    `json:"suggestions" db:"suggestions"`
	SecurityIssues []SecurityIssue `json:"security_issues" db:"security_issues"`
	QualityMetrics QualityMetric   `json:"quality_metrics"`
	Summary        string          `json:"summary" db:"summary"`
	FilesAnalyzed  int             `json:"files_analyzed" db:"files_analyzed"`
	Timestamp      time.Time       `json:"timestamp" db:"timestamp"`
}

// NewReview creates a Review with a generated UUID
func NewReview(prID, repo string, prNumber int) *Review {
	return &Review{
		ID:             uuid.New().String(),
		PRID:           prID,
		Repo:           repo,
		PRNumber:       prNumber,
		Suggestions:    []Suggestion{},
		SecurityIssues: []SecurityIssue{},
		Timestamp:      time.Now().UTC(),
	}
}
