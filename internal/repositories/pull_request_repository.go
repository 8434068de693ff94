package repositories

import (
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/prsight/prsight/internal/models"
)

type PullRequestRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewPullRequestRepository(db *sql.DB) *PullRequestRepository {
	return &PullRequestRepository{db: db}
}

func (r *PullRequestRepository) Create(pr *models.PullRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	filesJSON, err := json.Marshal(pr.FilesChanged)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pull_requests (
			id, repo, pr_number, title, author, status, files_changed, created_at, review_id, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		pr.ID, pr.Repo, pr.PRNumber, pr.Title, pr.Author, pr.Status,
		string(filesJSON), pr.CreatedAt, pr.ReviewID, pr.ErrorMessage,
	)

	return err
}

func (r *PullRequestRepository) GetByID(id string) (*models.PullRequest, error) {
	query := `SELECT id, repo, pr_number, title, author, status, files_changed, created_at, review_id, error_message
		FROM pull_requests WHERE id = ?`

	return scanPullRequest(r.db.QueryRow(query, id))
}

func (r *PullRequestRepository) List(limit int) ([]*models.PullRequest, error) {
	query := `SELECT id, repo, pr_number, title, author, status, files_changed, created_at, review_id, error_message
		FROM pull_requests ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prs := []*models.PullRequest{}
	for rows.Next() {
		pr, err := scanPullRequest(rows)
		if err != nil {
			return nil, err
		}
		prs = append(prs, pr)
	}

	return prs, rows.Err()
}

// UpdateStatus transitions a pull request to a new status. The review id and
// error message are overwritten with the given values.
func (r *PullRequestRepository) UpdateStatus(id string, status models.PullRequestStatus, reviewID *string, errorMessage *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `UPDATE pull_requests SET status = ?, review_id = ?, error_message = ? WHERE id = ?`

	_, err := r.db.Exec(query, status, reviewID, errorMessage, id)
	return err
}

func (r *PullRequestRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM pull_requests`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPullRequest(row rowScanner) (*models.PullRequest, error) {
	var pr models.PullRequest
	var filesJSON string

	err := row.Scan(
		&pr.ID, &pr.Repo, &pr.PRNumber, &pr.Title, &pr.Author, &pr.Status,
		&filesJSON, &pr.CreatedAt, &pr.ReviewID, &pr.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(filesJSON), &pr.FilesChanged); err != nil {
		return nil, err
	}
	if pr.FilesChanged == nil {
		pr.FilesChanged = []string{}
	}

	return &pr, nil
}
