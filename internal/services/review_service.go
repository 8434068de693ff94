package services

import (
	"math"

	"github.com/prsight/prsight/internal/models"
	"github.com/prsight/prsight/internal/repositories"
)

// maxListResults bounds how many records list endpoints load into memory
const maxListResults = 1000

// ReviewService serves the read endpoints over stored reviews and pull requests
type ReviewService struct {
	reviewRepo      *repositories.ReviewRepository
	pullRequestRepo *repositories.PullRequestRepository
}

func NewReviewService(reviewRepo *repositories.ReviewRepository, pullRequestRepo *repositories.PullRequestRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:      reviewRepo,
		pullRequestRepo: pullRequestRepo,
	}
}

func (s *ReviewService) ListReviews() ([]*models.Review, error) {
	return s.reviewRepo.List(maxListResults)
}

func (s *ReviewService) GetReview(id string) (*models.Review, error) {
	return s.reviewRepo.GetByID(id)
}

func (s *ReviewService) ListPullRequests() ([]*models.PullRequest, error) {
	return s.pullRequestRepo.List(maxListResults)
}

// QualityMetrics projects the stored reviews into per-review score points
func (s *ReviewService) QualityMetrics() ([]models.QualityMetricPoint, error) {
	reviews, err := s.reviewRepo.List(maxListResults)
	if err != nil {
		return nil, err
	}

	metrics := []models.QualityMetricPoint{}
	for _, review := range reviews {
		metrics = append(metrics, models.QualityMetricPoint{
			PRID:                 review.PRID,
			Repo:                 review.Repo,
			Timestamp:            review.Timestamp,
			ComplexityScore:      review.QualityMetrics.ComplexityScore,
			MaintainabilityScore: review.QualityMetrics.MaintainabilityScore,
			OverallScore:         review.QualityMetrics.OverallScore,
		})
	}

	return metrics, nil
}

// SecurityIssues flattens the issues of all reviews, each tagged with its
// owning pull request
func (s *ReviewService) SecurityIssues() ([]models.FlaggedSecurityIssue, error) {
	reviews, err := s.reviewRepo.List(maxListResults)
	if err != nil {
		return nil, err
	}

	issues := []models.FlaggedSecurityIssue{}
	for _, review := range reviews {
		for _, issue := range review.SecurityIssues {
			issues = append(issues, models.FlaggedSecurityIssue{
				SecurityIssue: issue,
				PRID:          review.PRID,
				Repo:          review.Repo,
				PRNumber:      review.PRNumber,
			})
		}
	}

	return issues, nil
}

// DashboardStats aggregates counts and the average overall score across all
// reviews, rounded to one decimal. Zero reviews yields all zeros.
func (s *ReviewService) DashboardStats() (*models.DashboardStats, error) {
	totalPRs, err := s.pullRequestRepo.Count()
	if err != nil {
		return nil, err
	}
	totalReviews, err := s.reviewRepo.Count()
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.List(maxListResults)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalPRsAnalyzed: totalPRs,
		TotalReviews:     totalReviews,
	}

	var totalScore float64
	for _, review := range reviews {
		stats.TotalSuggestions += len(review.Suggestions)
		stats.TotalSecurityIssues += len(review.SecurityIssues)
		totalScore += review.QualityMetrics.OverallScore
	}

	if len(reviews) > 0 {
		avg := totalScore / float64(len(reviews))
		stats.AverageQualityScore = math.Round(avg*10) / 10
	}

	return stats, nil
}
