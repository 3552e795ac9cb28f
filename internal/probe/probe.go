// Package probe checks whether a domain serves a website by issuing a
// header-only request to its root.
package probe

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Result is the outcome of a probe. OK is true only when the final response,
// after redirects, was 200.
type Result struct {
	FinalURL string
	OK       bool
}

// Prober checks a domain for a reachable website. Implementations never
// return errors; every failure is reported as Result{OK: false}.
type Prober interface {
	Probe(ctx context.Context, domain string) Result
}

// HTTPProber probes with HEAD requests over HTTPS.
type HTTPProber struct {
	http   *http.Client
	scheme string
}

// Option configures an HTTPProber.
type Option func(*HTTPProber)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *HTTPProber) {
		p.http = hc
	}
}

// WithScheme overrides the URL scheme (for testing against plain HTTP servers).
func WithScheme(scheme string) Option {
	return func(p *HTTPProber) {
		p.scheme = scheme
	}
}

// New creates an HTTPProber whose requests time out after timeout.
func New(timeout time.Duration, opts ...Option) *HTTPProber {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	p := &HTTPProber{
		http:   &http.Client{Timeout: timeout},
		scheme: "https",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe issues HEAD <scheme>://domain/ following redirects.
func (p *HTTPProber) Probe(ctx context.Context, domain string) Result {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return Result{}
	}
	target := p.scheme + "://" + domain + "/"

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		zap.L().Debug("probe: create request", zap.String("domain", domain), zap.Error(err))
		return Result{}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; LeadEnricher/1.0)")

	resp, err := p.http.Do(req)
	if err != nil {
		zap.L().Debug("probe: request failed", zap.String("domain", domain), zap.Error(err))
		return Result{}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		zap.L().Debug("probe: non-ok status",
			zap.String("domain", domain),
			zap.Int("status", resp.StatusCode),
		)
		return Result{}
	}
	return Result{FinalURL: resp.Request.URL.String(), OK: true}
}
