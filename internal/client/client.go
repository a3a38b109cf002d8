package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:8080"

	searchPath    = "/api/flights"
	locationsPath = "/api/locations"
	maxErrorBody  = 200
)

// SearchResult is one decoded search response along with the source the
// server reported for it.
type SearchResult struct {
	Flights        []models.Flight
	Source         string
	FallbackReason string
}

// APIError is a non-2xx answer from the search API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("flight api returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

func SearchQuery(c models.SearchCriteria) url.Values {
	q := url.Values{
		"from":   {c.Origin},
		"to":     {c.Destination},
		"date":   {c.DepartureDate},
		"adults": {strconv.Itoa(c.Adults)},
	}
	if c.ReturnDate != "" {
		q.Set("returnDate", c.ReturnDate)
	}
	if c.Children > 0 {
		q.Set("children", strconv.Itoa(c.Children))
	}
	if c.InfantsInSeat > 0 {
		q.Set("infantsInSeat", strconv.Itoa(c.InfantsInSeat))
	}
	if c.InfantsOnLap > 0 {
		q.Set("infantsOnLap", strconv.Itoa(c.InfantsOnLap))
	}
	if c.CabinClass != "" {
		q.Set("cabinClass", c.CabinClass)
	}
	return q
}

func (c *Client) Search(ctx context.Context, criteria models.SearchCriteria) (SearchResult, error) {
	resp, body, err := c.get(ctx, searchPath, SearchQuery(criteria.Normalize()))
	if err != nil {
		return SearchResult{}, err
	}

	var decoded models.SearchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return SearchResult{}, fmt.Errorf("failed to decode search response: %w", err)
	}
	if decoded.Flights == nil {
		decoded.Flights = []models.Flight{}
	}

	return SearchResult{
		Flights:        decoded.Flights,
		Source:         resp.Header.Get("X-Flights-Source"),
		FallbackReason: resp.Header.Get("X-Fallback-Reason"),
	}, nil
}

// Locations returns the location payload exactly as the server sent it.
func (c *Client) Locations(ctx context.Context, keyword string) (json.RawMessage, error) {
	_, body, err := c.get(ctx, locationsPath, url.Values{"keyword": {keyword}})
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid JSON from locations endpoint")
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	return resp, body, nil
}

func errorMessage(body []byte) string {
	var e models.ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
