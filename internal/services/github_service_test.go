package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRepoURL(t *testing.T) {
	testCases := []struct {
		name          string
		url           string
		expectedOwner string
		expectedRepo  string
		expectError   bool
	}{
		{
			name:          "Full HTTPS URL",
			url:           "https://github.com/acme/widgets",
			expectedOwner: "acme",
			expectedRepo:  "widgets",
		},
		{
			name:          "HTTPS URL with .git suffix",
			url:           "https://github.com/acme/widgets.git",
			expectedOwner: "acme",
			expectedRepo:  "widgets",
		},
		{
			name:          "HTTP URL",
			url:           "http://github.com/acme/widgets",
			expectedOwner: "acme",
			expectedRepo:  "widgets",
		},
		{
			name:          "Trailing slash",
			url:           "https://github.com/acme/widgets/",
			expectedOwner: "acme",
			expectedRepo:  "widgets",
		},
		{
			name:          "Bare owner/repo form",
			url:           "acme/widgets",
			expectedOwner: "acme",
			expectedRepo:  "widgets",
		},
		{
			name:        "Missing repository name",
			url:         "https://github.com/acme",
			expectError: true,
		},
		{
			name:        "Empty URL",
			url:         "",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			owner, repo, err := normalizeRepoURL(tc.url)

			if tc.expectError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.expectedOwner, owner)
			assert.Equal(t, tc.expectedRepo, repo)
		})
	}
}
