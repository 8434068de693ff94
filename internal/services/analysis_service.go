package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/prsight/prsight/internal/models"
	"github.com/prsight/prsight/internal/repositories"
	"github.com/prsight/prsight/pkg/logger"
)

// maxAnalyzedFiles caps how many changed files are sent to the reviewer.
// Bounds cost and latency per pull request.
const maxAnalyzedFiles = 5

// PullRequestFetcher retrieves pull request details from source control
type PullRequestFetcher interface {
	FetchPullRequest(ctx context.Context, repoURL string, prNumber int, token string) (*PullRequestDetails, error)
}

// CodeAnalyzer produces review findings for changed files. Both methods
// degrade instead of failing, see AnalyzerService.
type CodeAnalyzer interface {
	AnalyzeFile(ctx context.Context, path, content, reviewContext string) *FileAnalysis
	SummarizeContext(ctx context.Context, files []ChangedFile) string
}

// AnalysisResult identifies the records produced by a completed analysis
type AnalysisResult struct {
	PRID     string
	ReviewID string
}

// AnalysisService runs the review pipeline for one pull request:
// fetch -> persist PR -> cross-file context -> per-file analysis ->
// aggregate -> persist review -> mark completed.
type AnalysisService struct {
	fetcher         PullRequestFetcher
	analyzer        CodeAnalyzer
	pullRequestRepo *repositories.PullRequestRepository
	reviewRepo      *repositories.ReviewRepository
}

func NewAnalysisService(
	fetcher PullRequestFetcher,
	analyzer CodeAnalyzer,
	pullRequestRepo *repositories.PullRequestRepository,
	reviewRepo *repositories.ReviewRepository,
) *AnalysisService {
	return &AnalysisService{
		fetcher:         fetcher,
		analyzer:        analyzer,
		pullRequestRepo: pullRequestRepo,
		reviewRepo:      reviewRepo,
	}
}

// AnalyzePullRequest runs the full pipeline. A fetch failure aborts before
// anything is persisted. Any later failure marks the stored pull request as
// failed with the error recorded, then surfaces the error to the caller.
func (s *AnalysisService) AnalyzePullRequest(ctx context.Context, repoURL string, prNumber int, token string) (*AnalysisResult, error) {
	details, err := s.fetcher.FetchPullRequest(ctx, repoURL, prNumber, token)
	if err != nil {
		return nil, err
	}

	filePaths := make([]string, 0, len(details.Files))
	for _, f := range details.Files {
		filePaths = append(filePaths, f.Path)
	}

	pr := models.NewPullRequest(details.Repo, prNumber, details.Title, details.Author, filePaths)
	pr.Status = models.PullRequestStatusAnalyzing
	if err := s.pullRequestRepo.Create(pr); err != nil {
		return nil, fmt.Errorf("failed to save pull request: %w", err)
	}

	log := logger.WithFields(logrus.Fields{
		"pr_id":     pr.ID,
		"repo":      pr.Repo,
		"pr_number": pr.PRNumber,
	})
	log.Infof("Analyzing pull request with %d changed files", len(details.Files))

	review, err := s.runReview(ctx, pr, details)
	if err != nil {
		log.Errorf("Pull request analysis failed: %v", err)
		s.markFailed(pr.ID, err)
		return nil, err
	}

	if err := s.pullRequestRepo.UpdateStatus(pr.ID, models.PullRequestStatusCompleted, &review.ID, nil); err != nil {
		log.Errorf("Failed to mark pull request completed: %v", err)
		s.markFailed(pr.ID, err)
		return nil, fmt.Errorf("failed to update pull request status: %w", err)
	}

	log.WithField("review_id", review.ID).Info("Pull request analysis completed")

	return &AnalysisResult{PRID: pr.ID, ReviewID: review.ID}, nil
}

func (s *AnalysisService) runReview(ctx context.Context, pr *models.PullRequest, details *PullRequestDetails) (*models.Review, error) {
	reviewContext := s.analyzer.SummarizeContext(ctx, details.Files)

	files := details.Files
	if len(files) > maxAnalyzedFiles {
		files = files[:maxAnalyzedFiles]
	}

	analyses := make([]*FileAnalysis, 0, len(files))
	for _, f := range files {
		analyses = append(analyses, s.analyzer.AnalyzeFile(ctx, f.Path, f.Content, reviewContext))
	}

	agg := aggregateAnalyses(analyses)

	review := models.NewReview(pr.ID, pr.Repo, pr.PRNumber)
	review.Suggestions = agg.Suggestions
	review.SecurityIssues = agg.SecurityIssues
	review.QualityMetrics = *models.NewQualityMetric(pr.ID, agg.AvgComplexity, agg.AvgMaintainability, agg.OverallScore)
	review.Summary = buildSummary(agg)
	review.FilesAnalyzed = agg.FilesAnalyzed

	if err := s.reviewRepo.Create(review); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	return review, nil
}

func (s *AnalysisService) markFailed(prID string, cause error) {
	msg := cause.Error()
	if err := s.pullRequestRepo.UpdateStatus(prID, models.PullRequestStatusFailed, nil, &msg); err != nil {
		logger.WithField("pr_id", prID).Errorf("Failed to mark pull request failed: %v", err)
	}
}

// aggregate holds the combined findings across all analyzed files
type aggregate struct {
	Suggestions        []models.Suggestion
	SecurityIssues     []models.SecurityIssue
	AvgComplexity      float64
	AvgMaintainability float64
	OverallScore       float64
	FilesAnalyzed      int
}

// aggregateAnalyses concatenates per-file findings in order, tags each with
// its originating file path, and averages the scores. With no analyzed files
// the averages default to a neutral 50.
func aggregateAnalyses(analyses []*FileAnalysis) aggregate {
	agg := aggregate{
		Suggestions:    []models.Suggestion{},
		SecurityIssues: []models.SecurityIssue{},
		FilesAnalyzed:  len(analyses),
	}

	var totalComplexity, totalMaintainability float64
	for _, a := range analyses {
		for _, sug := range a.Suggestions {
			agg.Suggestions = append(agg.Suggestions, models.Suggestion{
				FilePath:   a.FilePath,
				LineNumber: sug.LineNumber,
				Suggestion: sug.Suggestion,
				Category:   sug.Category,
				Severity:   sug.Severity,
			})
		}
		for _, issue := range a.SecurityIssues {
			agg.SecurityIssues = append(agg.SecurityIssues, *models.NewSecurityIssue(
				a.FilePath, issue.LineNumber, issue.IssueType,
				issue.Description, issue.Severity, issue.Recommendation,
			))
		}
		totalComplexity += a.ComplexityScore
		totalMaintainability += a.MaintainabilityScore
	}

	if agg.FilesAnalyzed > 0 {
		agg.AvgComplexity = totalComplexity / float64(agg.FilesAnalyzed)
		agg.AvgMaintainability = totalMaintainability / float64(agg.FilesAnalyzed)
	} else {
		agg.AvgComplexity = neutralScore
		agg.AvgMaintainability = neutralScore
	}
	agg.OverallScore = (agg.AvgComplexity + agg.AvgMaintainability) / 2

	return agg
}

func buildSummary(agg aggregate) string {
	return fmt.Sprintf("Analyzed %d files. Found %d suggestions and %d security issues. \nOverall Quality Score: %.1f/100",
		agg.FilesAnalyzed, len(agg.Suggestions), len(agg.SecurityIssues), agg.OverallScore)
}
