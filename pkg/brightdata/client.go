// Package brightdata provides a client for the Bright Data request API,
// used for Google SERP lookups and for fetching pages through the Web Unlocker.
package brightdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// ErrNoAPIKey is returned by every call when the client has no credential.
var ErrNoAPIKey = eris.New("brightdata: api key not configured")

// Client defines the Bright Data operations.
type Client interface {
	// Search runs a Google search through the SERP zone and returns the
	// parsed organic results.
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	// Scrape fetches targetURL through the unlocker zone and returns the raw body.
	Scrape(ctx context.Context, targetURL string) (string, error)
}

// SearchRequest describes one SERP query.
type SearchRequest struct {
	Query string
	// Country is the two-letter code sent as the Google "gl" parameter.
	Country string
	// Location is the canonical location name sent as "uule". The SERP zone
	// encodes plain names itself.
	Location   string
	Language   string
	NumResults int
}

// SearchResponse is the parsed SERP JSON payload.
type SearchResponse struct {
	Organic []OrganicResult `json:"organic"`
}

// OrganicResult is one organic search result.
type OrganicResult struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Rank        int    `json:"rank"`
}

// StatusError reports a non-200 response from the request API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("brightdata: unexpected status %d: %s", e.StatusCode, e.Body)
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from a non-200 response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Option configures the Bright Data client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithSERPZone sets the zone used for searches.
func WithSERPZone(zone string) Option {
	return func(c *httpClient) {
		if zone != "" {
			c.serpZone = zone
		}
	}
}

// WithUnlockerZone sets the zone used for page scrapes.
func WithUnlockerZone(zone string) Option {
	return func(c *httpClient) {
		if zone != "" {
			c.unlockerZone = zone
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

type httpClient struct {
	apiKey       string
	baseURL      string
	serpZone     string
	unlockerZone string
	http         *http.Client
}

// NewClient creates a new Bright Data client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:       apiKey,
		baseURL:      "https://api.brightdata.com",
		serpZone:     "serp_api1",
		unlockerZone: "web_unlocker1",
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestBody struct {
	Zone   string `json:"zone"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

// GoogleSearchURL builds the Google URL the SERP zone fetches. brd_json=1
// asks Bright Data to return parsed JSON instead of HTML.
func GoogleSearchURL(req SearchRequest) string {
	q := url.Values{}
	q.Set("q", req.Query)
	if req.Country != "" {
		q.Set("gl", req.Country)
	}
	if req.Location != "" {
		q.Set("uule", req.Location)
	}
	if req.Language != "" {
		q.Set("hl", req.Language)
	}
	if req.NumResults > 0 {
		q.Set("num", strconv.Itoa(req.NumResults))
	}
	q.Set("brd_json", "1")
	return "https://www.google.com/search?" + q.Encode()
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	body, err := c.do(ctx, c.serpZone, GoogleSearchURL(req))
	if err != nil {
		return nil, eris.Wrap(err, "brightdata: search")
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "brightdata: unmarshal search response")
	}
	if req.NumResults > 0 && len(result.Organic) > req.NumResults {
		result.Organic = result.Organic[:req.NumResults]
	}
	return &result, nil
}

func (c *httpClient) Scrape(ctx context.Context, targetURL string) (string, error) {
	body, err := c.do(ctx, c.unlockerZone, targetURL)
	if err != nil {
		return "", eris.Wrap(err, "brightdata: scrape")
	}
	return string(body), nil
}

func (c *httpClient) do(ctx context.Context, zone, targetURL string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	payload, err := json.Marshal(requestBody{Zone: zone, URL: targetURL, Format: "raw"})
	if err != nil {
		return nil, eris.Wrap(err, "brightdata: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/request", bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "brightdata: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "brightdata: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "brightdata: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
