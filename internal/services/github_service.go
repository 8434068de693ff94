package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/prsight/prsight/pkg/logger"
)

// FetchError indicates the pull request could not be retrieved from GitHub:
// bad repository URL, invalid token, or an upstream API error. Handlers map
// it to a 400 response.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch PR: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ChangedFile is one changed file of a pull request. Content holds the
// unified diff patch, which may be empty when GitHub provides none.
type ChangedFile struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// PullRequestDetails holds the pull request metadata and changed files
// fetched from GitHub
type PullRequestDetails struct {
	Title  string        `json:"title"`
	Author string        `json:"author"`
	Repo   string        `json:"repo"`
	Files  []ChangedFile `json:"files"`
}

type GitHubService struct{}

func NewGitHubService() *GitHubService {
	return &GitHubService{}
}

// FetchPullRequest retrieves a pull request's title, author and changed files
// from GitHub. Removed files are excluded since there is nothing to review in
// a deleted file.
func (s *GitHubService) FetchPullRequest(ctx context.Context, repoURL string, prNumber int, token string) (*PullRequestDetails, error) {
	owner, repo, err := normalizeRepoURL(repoURL)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	client := createAuthenticatedClient(ctx, token)

	pr, _, err := client.PullRequests.Get(ctx, owner, repo, prNumber)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      owner + "/" + repo,
			"pr_number": prNumber,
		}).Errorf("Failed to fetch pull request: %v", err)
		return nil, &FetchError{Err: err}
	}

	commitFiles, err := s.fetchChangedFiles(ctx, client, owner, repo, prNumber)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      owner + "/" + repo,
			"pr_number": prNumber,
		}).Errorf("Failed to fetch pull request files: %v", err)
		return nil, &FetchError{Err: err}
	}

	files := []ChangedFile{}
	for _, f := range commitFiles {
		if f.GetStatus() == "removed" {
			continue
		}
		files = append(files, ChangedFile{
			Path:      f.GetFilename(),
			Content:   f.GetPatch(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
		})
	}

	return &PullRequestDetails{
		Title:  pr.GetTitle(),
		Author: pr.GetUser().GetLogin(),
		Repo:   owner + "/" + repo,
		Files:  files,
	}, nil
}

func (s *GitHubService) fetchChangedFiles(ctx context.Context, client *github.Client, owner, repo string, prNumber int) ([]*github.CommitFile, error) {
	var allFiles []*github.CommitFile
	opts := &github.ListOptions{
		PerPage: 100,
	}

	for {
		files, resp, err := client.PullRequests.ListFiles(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, err
		}
		allFiles = append(allFiles, files...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allFiles, nil
}

// normalizeRepoURL reduces a repository URL to its owner and name, stripping
// the protocol/host prefix and a trailing .git suffix.
func normalizeRepoURL(repoURL string) (owner, repo string, err error) {
	name := repoURL
	name = strings.TrimPrefix(name, "https://")
	name = strings.TrimPrefix(name, "http://")
	name = strings.TrimPrefix(name, "github.com/")
	name = strings.TrimSuffix(name, ".git")
	name = strings.Trim(name, "/")

	parts := strings.Split(name, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository URL: %s", repoURL)
	}

	return parts[0], parts[1], nil
}

// createAuthenticatedClient creates a GitHub client with the provided token
func createAuthenticatedClient(ctx context.Context, token string) *github.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	return github.NewClient(tc)
}
