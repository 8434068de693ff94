package models

import "time"

// QualityMetricPoint is one review's scores projected for the metrics endpoint
type QualityMetricPoint struct {
	PRID                 string    `json:"pr_id"`
	Repo                 string    `json:"repo"`
	Timestamp            time.Time `json:"timestamp"`
	ComplexityScore      float64   `json:"complexity_score"`
	MaintainabilityScore float64   `json:"maintainability_score"`
	OverallScore         float64   `json:"overall_score"`
}

// FlaggedSecurityIssue is a security issue tagged with its owning pull request
type FlaggedSecurityIssue struct {
	SecurityIssue
	PRID     string `json:"pr_id"`
	Repo     string `json:"repo"`
	PRNumber int    `json:"pr_number"`
}

// DashboardStats aggregates counts and the average quality score across all reviews
type DashboardStats struct {
	TotalPRsAnalyzed    int     `json:"total_prs_analyzed"`
	TotalReviews        int     `json:"total_reviews"`
	TotalSuggestions    int     `json:"total_suggestions"`
	TotalSecurityIssues int     `json:"total_security_issues"`
	AverageQualityScore float64 `json:"average_quality_score"`
}
