package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/prsight/prsight/internal/models"
)

// ReportService renders a stored review as an Excel workbook
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// BuildReviewWorkbook creates a workbook with a summary sheet plus one sheet
// each for suggestions and security issues
func (s *ReportService) BuildReviewWorkbook(review *models.Review) (*excelize.File, error) {
	f := excelize.NewFile()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	summaryRows := [][]interface{}{
		{"Repository", review.Repo},
		{"PR Number", review.PRNumber},
		{"Files Analyzed", review.FilesAnalyzed},
		{"Complexity Score", review.QualityMetrics.ComplexityScore},
		{"Maintainability Score", review.QualityMetrics.MaintainabilityScore},
		{"Overall Score", review.QualityMetrics.OverallScore},
		{"Reviewed At", review.Timestamp.Format("2006-01-02 15:04:05")},
		{"Summary", review.Summary},
	}
	for i, row := range summaryRows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := s.writeSuggestions(f, review.Suggestions); err != nil {
		return nil, err
	}
	if err := s.writeSecurityIssues(f, review.SecurityIssues); err != nil {
		return nil, err
	}

	return f, nil
}

func (s *ReportService) writeSuggestions(f *excelize.File, suggestions []models.Suggestion) error {
	const sheet = "Suggestions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"File", "Line", "Suggestion", "Category", "Severity"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, sug := range suggestions {
		row := []interface{}{sug.FilePath, formatLine(sug.LineNumber), sug.Suggestion, sug.Category, sug.Severity}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func (s *ReportService) writeSecurityIssues(f *excelize.File, issues []models.SecurityIssue) error {
	const sheet = "Security Issues"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"File", "Line", "Type", "Description", "Severity", "Recommendation"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, issue := range issues {
		row := []interface{}{issue.FilePath, formatLine(issue.LineNumber), issue.IssueType, issue.Description, issue.Severity, issue.Recommendation}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

func formatLine(line *int) string {
	if line == nil {
		return ""
	}
	return fmt.Sprintf("%d", *line)
}
