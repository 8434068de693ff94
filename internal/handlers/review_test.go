package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prsight/prsight/internal/models"
	"github.com/prsight/prsight/internal/repositories"
	"github.com/prsight/prsight/internal/services"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repositories.PullRequestRepository, *repositories.ReviewRepository) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../migrations/001_create_tables.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	prRepo := repositories.NewPullRequestRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	reviewService := services.NewReviewService(reviewRepo, prRepo)
	reviewHandler := NewReviewHandler(reviewService, services.NewReportService())
	healthHandler := NewHealthHandler()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	{
		api.GET("/", healthHandler.Root)
		api.GET("/reviews", reviewHandler.ListReviews)
		api.GET("/reviews/:id", reviewHandler.GetReview)
		api.GET("/reviews/:id/export", reviewHandler.ExportReview)
		api.GET("/pull-requests", reviewHandler.ListPullRequests)
		api.GET("/metrics", reviewHandler.QualityMetrics)
		api.GET("/security-issues", reviewHandler.SecurityIssues)
		api.GET("/dashboard-stats", reviewHandler.DashboardStats)
	}

	return router, prRepo, reviewRepo
}

func storedReview(t *testing.T, prRepo *repositories.PullRequestRepository, reviewRepo *repositories.ReviewRepository) *models.Review {
	t.Helper()

	pr := models.NewPullRequest("acme/widgets", 42, "Add feature", "octocat", []string{"a.go"})
	pr.Status = models.PullRequestStatusCompleted
	require.NoError(t, prRepo.Create(pr))

	line := 4
	review := models.NewReview(pr.ID, pr.Repo, pr.PRNumber)
	review.Suggestions = []models.Suggestion{
		{FilePath: "a.go", LineNumber: &line, Suggestion: "Tidy up", Category: "maintainability", Severity: "low"},
	}
	review.SecurityIssues = []models.SecurityIssue{
		*models.NewSecurityIssue("a.go", nil, "open_redirect", "Unvalidated redirect", "medium", "Validate target"),
	}
	review.QualityMetrics = *models.NewQualityMetric(pr.ID, 60, 70, 65)
	review.Summary = "Analyzed 1 files. Found 1 suggestions and 1 security issues. \nOverall Quality Score: 65.0/100"
	review.FilesAnalyzed = 1
	require.NoError(t, reviewRepo.Create(review))

	return review
}

func TestRootEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "AI Code Review Assistant API", body["message"])
	assert.Equal(t, "1.0", body["version"])
}

func TestGetReviewNotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/reviews/unknown-id", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Review not found", body["message"])
}

func TestGetReviewRoundTrip(t *testing.T) {
	router, prRepo, reviewRepo := newTestRouter(t)
	review := storedReview(t, prRepo, reviewRepo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/reviews/"+review.ID, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got models.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	assert.Equal(t, review.ID, got.ID)
	assert.Equal(t, review.PRID, got.PRID)
	assert.Equal(t, review.Suggestions, got.Suggestions)
	assert.Equal(t, review.SecurityIssues, got.SecurityIssues)
	assert.Equal(t, review.Summary, got.Summary)
	assert.Equal(t, review.FilesAnalyzed, got.FilesAnalyzed)
	assert.WithinDuration(t, review.Timestamp, got.Timestamp, time.Second)

	// Timestamps must serialize as parseable ISO-8601 strings
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	ts, ok := raw["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestListEndpointsReturnEmptyArrays(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, path := range []string{"/api/reviews", "/api/pull-requests", "/api/metrics", "/api/security-issues"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "[]", w.Body.String(), path)
	}
}

func TestDashboardStatsZeroState(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/dashboard-stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalPRsAnalyzed)
	assert.Equal(t, 0, stats.TotalReviews)
	assert.Equal(t, 0, stats.TotalSuggestions)
	assert.Equal(t, 0, stats.TotalSecurityIssues)
	assert.Equal(t, 0.0, stats.AverageQualityScore)
}

func TestDashboardStatsAggregates(t *testing.T) {
	router, prRepo, reviewRepo := newTestRouter(t)
	storedReview(t, prRepo, reviewRepo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/dashboard-stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalPRsAnalyzed)
	assert.Equal(t, 1, stats.TotalReviews)
	assert.Equal(t, 1, stats.TotalSuggestions)
	assert.Equal(t, 1, stats.TotalSecurityIssues)
	assert.Equal(t, 65.0, stats.AverageQualityScore)
}

func TestSecurityIssuesTaggedWithPullRequest(t *testing.T) {
	router, prRepo, reviewRepo := newTestRouter(t)
	review := storedReview(t, prRepo, reviewRepo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/security-issues", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var issues []models.FlaggedSecurityIssue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issues))
	require.Len(t, issues, 1)
	assert.Equal(t, review.PRID, issues[0].PRID)
	assert.Equal(t, "acme/widgets", issues[0].Repo)
	assert.Equal(t, 42, issues[0].PRNumber)
	assert.Equal(t, "open_redirect", issues[0].IssueType)
}

func TestExportReview(t *testing.T) {
	router, prRepo, reviewRepo := newTestRouter(t)
	review := storedReview(t, prRepo, reviewRepo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/reviews/"+review.ID+"/export", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), review.ID)
	assert.NotZero(t, w.Body.Len())
}
