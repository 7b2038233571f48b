package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/logging"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// ErrExtractionDisabled is returned when no model is configured.
var ErrExtractionDisabled = errors.New("job extraction is not configured")

// maxPostingLength caps the text sent to the model.
const maxPostingLength = 20000

const jobExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title (e.g., Senior Backend Engineer), at most 200 characters",
    "company": "Name of the company (e.g., Google, StartupInc)",
    "location": "Job location or 'Remote'",
    "short_description": "One or two sentences summarizing the role, at most 300 characters",
    "full_description": "A clean summary of the job. Focus on Responsibilities and Requirements. Remove HTML tags.",
    "salary": "The salary string if explicitly mentioned (e.g., '$100k - $150k'), otherwise null",
    "category": "One of: %s"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// JobExtractor turns a pasted job posting into a draft add-job form.
type JobExtractor interface {
	Extract(ctx context.Context, posting string) (*dtos.JobForm, error)
}

type LLMService struct {
	Client llms.Model
	Log    logging.Logger
}

// NewLLMService connects to Gemini. An empty apiKey yields a service whose
// Extract always returns ErrExtractionDisabled.
func NewLLMService(ctx context.Context, apiKey, model string, log logging.Logger) (*LLMService, error) {
	s := &LLMService{Log: log}
	if apiKey == "" {
		return s, nil
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	s.Client = llm
	return s, nil
}

// Enabled reports whether a model is configured.
func (s *LLMService) Enabled() bool {
	return s != nil && s.Client != nil
}

// Extract asks the model for a structured draft of posting. The draft is not
// validated; the user reviews and submits it through the normal form.
func (s *LLMService) Extract(ctx context.Context, posting string) (*dtos.JobForm, error) {
	if !s.Enabled() {
		return nil, ErrExtractionDisabled
	}
	posting = strings.TrimSpace(posting)
	if len(posting) > maxPostingLength {
		posting = posting[:maxPostingLength]
	}

	prompt := fmt.Sprintf(jobExtractionPrompt, strings.Join(models.Categories, ", "), posting)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt, llms.WithJSONMode())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	form, err := parseDraft(resp)
	if err != nil {
		s.Log.Warn(ctx, "unreadable extraction response", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	return form, nil
}

// jobDraft uses pointers so JSON nulls become empty strings.
type jobDraft struct {
	Title            *string `json:"title"`
	Company          *string `json:"company"`
	Location         *string `json:"location"`
	ShortDescription *string `json:"short_description"`
	FullDescription  *string `json:"full_description"`
	Salary           *string `json:"salary"`
	Category         *string `json:"category"`
}

// parseDraft decodes a model reply, tolerating a surrounding ```json fence.
func parseDraft(resp string) (*dtos.JobForm, error) {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")

	var d jobDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp)), &d); err != nil {
		return nil, err
	}

	form := &dtos.JobForm{
		Title:            clip(or(d.Title, ""), 200),
		Company:          clip(or(d.Company, ""), 100),
		Location:         clip(or(d.Location, ""), 100),
		ShortDescription: clip(or(d.ShortDescription, ""), 300),
		FullDescription:  or(d.FullDescription, ""),
		Salary:           clip(or(d.Salary, ""), 100),
		Category:         models.CategoryOther,
	}
	category := or(d.Category, "")
	for _, c := range models.Categories {
		if strings.EqualFold(c, category) {
			form.Category = c
		}
	}
	form.Normalize()
	return form, nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
