package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/justsurfingit/job-board/internal/logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultCountry        = "gb"
	DefaultResultsPerPage = 20
	SalaryNotSpecified    = "Not specified"
)

// AdzunaOptions configures the external search. The Default* values stand in
// for fields missing from a result.
type AdzunaOptions struct {
	AppID           string
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	DefaultLocation string
	DefaultLat      float64
	DefaultLon      float64
}

type SearchParams struct {
	Query    string
	Location string
	Country  string
	Page     int
	PerPage  int
}

// ExternalJob is one Adzuna result in the shape the explore page renders.
type ExternalJob struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	SalaryMin    *float64 `json:"salary_min,omitempty"`
	SalaryMax    *float64 `json:"salary_max,omitempty"`
	Salary       string   `json:"salary"`
	Category     string   `json:"category"`
	ContractType string   `json:"contract_type,omitempty"`
	Created      string   `json:"created,omitempty"`
	RedirectURL  string   `json:"redirect_url,omitempty"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
}

type SearchResult struct {
	Jobs    []ExternalJob `json:"jobs"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"results_per_page"`
}

type AdzunaService struct {
	opts   AdzunaOptions
	client *http.Client
	log    logging.Logger
}

func NewAdzunaService(opts AdzunaOptions, log logging.Logger) *AdzunaService {
	return &AdzunaService{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		log:    log,
	}
}

// adzunaResponse mirrors the parts of the search payload we use. Pointers
// distinguish absent fields from zero values.
type adzunaResponse struct {
	Count   int `json:"count"`
	Results []struct {
		ID      json.RawMessage `json:"id"`
		Title   *string         `json:"title"`
		Company *struct {
			DisplayName *string `json:"display_name"`
		} `json:"company"`
		Location *struct {
			DisplayName *string `json:"display_name"`
		} `json:"location"`
		Description *string  `json:"description"`
		SalaryMin   *float64 `json:"salary_min"`
		SalaryMax   *float64 `json:"salary_max"`
		Category    *struct {
			Label *string `json:"label"`
		} `json:"category"`
		ContractType *string  `json:"contract_type"`
		Created      *string  `json:"created"`
		RedirectURL  *string  `json:"redirect_url"`
		Latitude     *float64 `json:"latitude"`
		Longitude    *float64 `json:"longitude"`
	} `json:"results"`
}

// Search runs one query against Adzuna. A nil result means no data: missing
// credentials, a transport error, a non-2xx status or an unreadable body.
// The cause is logged, never returned.
func (s *AdzunaService) Search(ctx context.Context, p SearchParams) *SearchResult {
	if s.opts.AppID == "" || s.opts.APIKey == "" {
		s.log.Error(ctx, "adzuna credentials not configured")
		return nil
	}
	if p.Country == "" {
		p.Country = DefaultCountry
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultResultsPerPage
	}

	body, err := s.fetch(ctx, p)
	if err != nil {
		s.log.Error(ctx, "adzuna request failed", "query", p.Query, "error", err)
		return nil
	}

	res := &SearchResult{
		Jobs:    make([]ExternalJob, 0, len(body.Results)),
		Total:   body.Count,
		Page:    p.Page,
		PerPage: p.PerPage,
	}
	for _, r := range body.Results {
		job := ExternalJob{
			ID:          rawID(r.ID),
			Title:       or(r.Title, "N/A"),
			Company:     "N/A",
			Location:    s.opts.DefaultLocation,
			Description: or(r.Description, "No description available"),
			SalaryMin:   r.SalaryMin,
			SalaryMax:   r.SalaryMax,
			Salary:      FormatSalary(r.SalaryMin, r.SalaryMax),
			Category:    "Other",
			Latitude:    s.opts.DefaultLat,
			Longitude:   s.opts.DefaultLon,
		}
		if r.Company != nil {
			job.Company = or(r.Company.DisplayName, job.Company)
		}
		if r.Location != nil {
			job.Location = or(r.Location.DisplayName, job.Location)
		}
		if r.Category != nil {
			job.Category = or(r.Category.Label, job.Category)
		}
		job.ContractType = or(r.ContractType, "")
		job.Created = or(r.Created, "")
		job.RedirectURL = or(r.RedirectURL, "")
		if r.Latitude != nil {
			job.Latitude = *r.Latitude
		}
		if r.Longitude != nil {
			job.Longitude = *r.Longitude
		}
		res.Jobs = append(res.Jobs, job)
	}

	s.log.Info(ctx, "adzuna search", "query", p.Query, "location", p.Location, "found", len(res.Jobs))
	return res
}

func (s *AdzunaService) fetch(ctx context.Context, p SearchParams) (*adzunaResponse, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d",
		strings.TrimSuffix(s.opts.BaseURL, "/"), url.PathEscape(p.Country), p.Page)

	q := url.Values{}
	q.Set("app_id", s.opts.AppID)
	q.Set("app_key", s.opts.APIKey)
	q.Set("results_per_page", strconv.Itoa(p.PerPage))
	q.Set("what", p.Query)
	q.Set("where", p.Location)
	q.Set("content-type", "application/json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrExternalService, resp.StatusCode)
	}

	var body adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrExternalService, err)
	}
	return &body, nil
}

var salaryPrinter = message.NewPrinter(language.English)

// FormatSalary renders an optional salary range. Zero counts as absent.
func FormatSalary(minimum, maximum *float64) string {
	lo, hi := positive(minimum), positive(maximum)
	switch {
	case lo > 0 && hi > 0:
		return salaryPrinter.Sprintf("$%d - $%d", round(lo), round(hi))
	case lo > 0:
		return salaryPrinter.Sprintf("$%d+", round(lo))
	case hi > 0:
		return salaryPrinter.Sprintf("Up to $%d", round(hi))
	default:
		return SalaryNotSpecified
	}
}

func positive(v *float64) float64 {
	if v == nil || *v <= 0 {
		return 0
	}
	return *v
}

func round(v float64) int64 {
	return int64(v + 0.5)
}

// rawID accepts ids sent either as JSON strings or as numbers.
func rawID(raw json.RawMessage) string {
	id := strings.Trim(string(raw), `"`)
	if id == "null" {
		return ""
	}
	return id
}

func or(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
