package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/prsight/prsight/pkg/logger"
)

const (
	// maxContextFiles bounds how many files feed the cross-file summary
	maxContextFiles = 10
	// contextSnippetLength bounds how much of each file feeds the summary
	contextSnippetLength = 500
	// neutralScore is used when a file's analysis fails
	neutralScore = 50

	contextFallback = "Unable to analyze multi-file context."

	analyzeSystemPrompt = `You are an expert code reviewer with deep knowledge of software architecture,
security best practices, and code quality. Analyze code comprehensively and provide:
1. Architectural improvements
2. Security vulnerabilities
3. Performance optimizations
4. Maintainability suggestions
5. Best practice violations

Your suggestions should be specific, actionable, and helpful - not generic.`

	contextSystemPrompt = "Analyze multiple code files to understand overall architecture and relationships."
)

// RawSuggestion is one suggestion as returned by the reviewer model
type RawSuggestion struct {
	LineNumber *int   `json:"line_number"`
	Suggestion string `json:"suggestion"`
	Category   string `json:"category"`
	Severity   string `json:"severity"`
}

// RawSecurityIssue is one security finding as returned by the reviewer model
type RawSecurityIssue struct {
	LineNumber     *int   `json:"line_number"`
	IssueType      string `json:"issue_type"`
	Description    string `json:"description"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation"`
}

// FileAnalysis is the structured review of a single file
type FileAnalysis struct {
	FilePath             string             `json:"file_path"`
	Suggestions          []RawSuggestion    `json:"suggestions"`
	SecurityIssues       []RawSecurityIssue `json:"security_issues"`
	ComplexityScore      float64            `json:"complexity_score"`
	MaintainabilityScore float64            `json:"maintainability_score"`
	OverallAssessment    string             `json:"overall_assessment"`
}

// AnalyzerService produces structured code review findings by prompting an
// LLM and parsing its JSON response
type AnalyzerService struct {
	api   *anthropic.Client
	model anthropic.Model
}

func NewAnalyzerService(apiKey, model string) *AnalyzerService {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &AnalyzerService{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// AnalyzeFile reviews a single file. It never fails: any upstream or parse
// error yields a degraded result with empty findings and neutral scores, so
// one bad file cannot abort a whole pull request analysis.
func (s *AnalyzerService) AnalyzeFile(ctx context.Context, path, content, reviewContext string) *FileAnalysis {
	prompt := buildAnalyzePrompt(path, content, reviewContext)

	text, err := s.complete(ctx, analyzeSystemPrompt, prompt, 4096)
	if err != nil {
		logger.WithField("file_path", path).Errorf("Error analyzing file: %v", err)
		return degradedAnalysis(path, err)
	}

	analysis, err := parseFileAnalysis(text, path)
	if err != nil {
		logger.WithField("file_path", path).Errorf("Error parsing analysis response: %v", err)
		return degradedAnalysis(path, err)
	}

	return analysis
}

// SummarizeContext builds a short cross-file architecture summary. On any
// failure it returns a fixed fallback string instead of an error.
func (s *AnalyzerService) SummarizeContext(ctx context.Context, files []ChangedFile) string {
	prompt := buildContextPrompt(files)

	text, err := s.complete(ctx, contextSystemPrompt, prompt, 2048)
	if err != nil {
		logger.Errorf("Error analyzing multi-file context: %v", err)
		return contextFallback
	}

	return text
}

func (s *AnalyzerService) complete(ctx context.Context, system, user string, maxTokens int64) (string, error) {
	msg, err := s.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     s.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("no text content in API response")
}

func buildAnalyzePrompt(path, content, reviewContext string) string {
	var sb strings.Builder
	sb.WriteString("Analyze this code file and provide detailed review:\n\n")
	sb.WriteString("File: ")
	sb.WriteString(path)
	sb.WriteString("\nContext: ")
	sb.WriteString(reviewContext)
	sb.WriteString("\n\n```\n")
	sb.WriteString(content)
	sb.WriteString("\n```\n\n")
	sb.WriteString(`Provide analysis in JSON format:
{
  "suggestions": [
    {
      "line_number": <number or null>,
      "suggestion": "<specific suggestion>",
      "category": "architecture|best_practice|performance|maintainability",
      "severity": "high|medium|low"
    }
  ],
  "security_issues": [
    {
      "line_number": <number or null>,
      "issue_type": "<type>",
      "description": "<description>",
      "severity": "critical|high|medium|low",
      "recommendation": "<how to fix>"
    }
  ],
  "complexity_score": <0-100>,
  "maintainability_score": <0-100>,
  "overall_assessment": "<brief summary>"
}`)
	return sb.String()
}

func buildContextPrompt(files []ChangedFile) string {
	var sb strings.Builder
	sb.WriteString("Analyze these related code files and provide architectural context:\n\n")

	for i, f := range files {
		if i >= maxContextFiles {
			break
		}
		snippet := f.Content
		if len(snippet) > contextSnippetLength {
			snippet = snippet[:contextSnippetLength]
		}
		sb.WriteString("File: ")
		sb.WriteString(f.Path)
		sb.WriteString("\n")
		sb.WriteString(snippet)
		sb.WriteString("...\n\n")
	}

	sb.WriteString(`Provide a brief summary of:
1. Overall architecture pattern
2. Key relationships between files
3. Potential architectural improvements`)
	return sb.String()
}

// parseFileAnalysis parses the model's JSON response, tolerating a fenced
// code block around the object.
func parseFileAnalysis(text, path string) (*FileAnalysis, error) {
	text = stripCodeFence(text)

	var analysis FileAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, fmt.Errorf("parse LLM response as JSON: %w", err)
	}

	analysis.FilePath = path
	if analysis.Suggestions == nil {
		analysis.Suggestions = []RawSuggestion{}
	}
	if analysis.SecurityIssues == nil {
		analysis.SecurityIssues = []RawSecurityIssue{}
	}

	return &analysis, nil
}

// stripCodeFence extracts the first markdown-fenced block, json-tagged or
// plain, wherever it sits in the response. Text without a fence is returned
// as-is.
func stripCodeFence(text string) string {
	if _, after, found := strings.Cut(text, "```json"); found {
		text = after
	} else if _, after, found := strings.Cut(text, "```"); found {
		text = after
	} else {
		return strings.TrimSpace(text)
	}

	if inner, _, found := strings.Cut(text, "```"); found {
		text = inner
	}
	return strings.TrimSpace(text)
}

func degradedAnalysis(path string, err error) *FileAnalysis {
	return &FileAnalysis{
		FilePath:             path,
		Suggestions:          []RawSuggestion{},
		SecurityIssues:       []RawSecurityIssue{},
		ComplexityScore:      neutralScore,
		MaintainabilityScore: neutralScore,
		OverallAssessment:    fmt.Sprintf("Analysis failed: %v", err),
	}
}
