package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"sync"

	"github.com/prsight/prsight/internal/models"
)

// ErrReviewNotFound is returned when no review exists for the requested id
var ErrReviewNotFound = errors.New("review not found")

type ReviewRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	suggestionsJSON, err := json.Marshal(review.Suggestions)
	if err != nil {
		return err
	}
	issuesJSON, err := json.Marshal(review.SecurityIssues)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO reviews (
			id, pr_id, repo, pr_number, suggestions, security_issues,
			metric_id, complexity_score, maintainability_score, overall_score, metric_timestamp,
			summary, files_analyzed, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	m := review.QualityMetrics
	_, err = r.db.Exec(query,
		review.ID, review.PRID, review.Repo, review.PRNumber,
		string(suggestionsJSON), string(issuesJSON),
		m.ID, m.ComplexityScore, m.MaintainabilityScore, m.OverallScore, m.Timestamp,
		review.Summary, review.FilesAnalyzed, review.Timestamp,
	)

	return err
}

func (r *ReviewRepository) GetByID(id string) (*models.Review, error) {
	query := selectReviewColumns + ` WHERE id = ?`

	review, err := scanReview(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReviewNotFound
	}
	return review, err
}

func (r *ReviewRepository) List(limit int) ([]*models.Review, error) {
	query := selectReviewColumns + ` ORDER BY timestamp DESC LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

func (r *ReviewRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM reviews`).Scan(&count)
	return count, err
}

const selectReviewColumns = `SELECT id, pr_id, repo, pr_number, suggestions, security_issues,
	metric_id, complexity_score, maintainability_score, overall_score, metric_timestamp,
	summary, files_analyzed, timestamp
	FROM reviews`

func scanReview(row rowScanner) (*models.Review, error) {
	var review models.Review
	var suggestionsJSON, issuesJSON string

	err := row.Scan(
		&review.ID, &review.PRID, &review.Repo, &review.PRNumber,
		&suggestionsJSON, &issuesJSON,
		&review.QualityMetrics.ID, &review.QualityMetrics.ComplexityScore,
		&review.QualityMetrics.MaintainabilityScore, &review.QualityMetrics.OverallScore,
		&review.QualityMetrics.Timestamp,
		&review.Summary, &review.FilesAnalyzed, &review.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(suggestionsJSON), &review.Suggestions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(issuesJSON), &review.SecurityIssues); err != nil {
		return nil, err
	}
	if review.Suggestions == nil {
		review.Suggestions = []models.Suggestion{}
	}
	if review.SecurityIssues == nil {
		review.SecurityIssues = []models.SecurityIssue{}
	}
	review.QualityMetrics.PRID = review.PRID

	return &review, nil
}
