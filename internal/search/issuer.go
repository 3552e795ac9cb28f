// Package search issues localized SERP queries and returns their results as
// values, never as errors.
package search

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-enricher/internal/locale"
	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/resilience"
	"github.com/sells-group/lead-enricher/internal/store"
	"github.com/sells-group/lead-enricher/pkg/brightdata"
)

// Response is the tagged outcome of one search. Err is nil on success; an
// empty Results slice with a nil Err is a valid "no results" answer.
type Response struct {
	Query    string
	Location string
	Language string
	Results  []model.SearchResult
	Err      error
}

// OK reports whether the search succeeded.
func (r Response) OK() bool { return r.Err == nil }

// Request describes one query for SearchBatch.
type Request struct {
	Query   string
	Country string
	Num     int
}

// Searcher is the search capability consumed by the resolvers.
type Searcher interface {
	Search(ctx context.Context, query, country string, num int) Response
}

// Issuer sends queries to Bright Data with localization, caching, retries
// and a circuit breaker.
type Issuer struct {
	client   brightdata.Client
	cache    store.Store
	cacheTTL time.Duration
	retry    resilience.RetryConfig
	breaker  *resilience.CircuitBreaker
	parallel int
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithCache stores successful responses for ttl. A nil store disables caching.
func WithCache(st store.Store, ttl time.Duration) Option {
	return func(i *Issuer) {
		i.cache = st
		i.cacheTTL = ttl
	}
}

// WithRetry sets the retry policy for provider calls.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(i *Issuer) {
		i.retry = cfg
	}
}

// WithBreaker guards provider calls with a circuit breaker. Only provider
// failures count toward tripping it.
func WithBreaker(cfg resilience.CircuitBreakerConfig) Option {
	return func(i *Issuer) {
		if cfg.ShouldTrip == nil {
			cfg.ShouldTrip = isProviderFailure
		}
		i.breaker = resilience.NewCircuitBreaker(cfg)
	}
}

// WithParallelism caps concurrent calls in SearchBatch.
func WithParallelism(n int) Option {
	return func(i *Issuer) {
		if n > 0 {
			i.parallel = n
		}
	}
}

// NewIssuer creates an Issuer backed by client.
func NewIssuer(client brightdata.Client, opts ...Option) *Issuer {
	i := &Issuer{
		client:   client,
		retry:    resilience.DefaultRetryConfig(),
		parallel: 4,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.retry.ShouldRetry == nil {
		i.retry.ShouldRetry = shouldRetry
	}
	if i.retry.OnRetry == nil {
		i.retry.OnRetry = resilience.RetryLogger("brightdata", "search")
	}
	return i
}

// Search runs query localized for country and returns at most num results.
func (i *Issuer) Search(ctx context.Context, query, country string, num int) Response {
	resp := Response{
		Query:    query,
		Location: locale.Location(country),
		Language: locale.Language(country),
	}
	log := zap.L().With(zap.String("query", query), zap.String("location", resp.Location))

	if i.client == nil {
		resp.Err = brightdata.ErrNoAPIKey
		return resp
	}

	key := store.SearchKey(query, resp.Location, resp.Language, num)
	if results, ok := i.cached(ctx, key); ok {
		log.Debug("search: cache hit")
		resp.Results = results
		return resp
	}

	req := brightdata.SearchRequest{
		Query:      query,
		Country:    country,
		Location:   resp.Location,
		Language:   resp.Language,
		NumResults: num,
	}
	out, err := resilience.DoVal(ctx, i.retry, func(ctx context.Context) (*brightdata.SearchResponse, error) {
		if i.breaker == nil {
			return i.client.Search(ctx, req)
		}
		return resilience.ExecuteVal(ctx, i.breaker, func(ctx context.Context) (*brightdata.SearchResponse, error) {
			return i.client.Search(ctx, req)
		})
	})
	if err != nil {
		log.Warn("search: failed", zap.Error(err))
		resp.Err = eris.Wrap(err, "search")
		return resp
	}

	resp.Results = toResults(out)
	log.Debug("search: done", zap.Int("results", len(resp.Results)))
	i.save(ctx, key, resp.Results)
	return resp
}

// SearchBatch runs all requests concurrently and returns the responses
// keyed by query. Duplicate queries are issued once.
func (i *Issuer) SearchBatch(ctx context.Context, reqs []Request) map[string]Response {
	out := make(map[string]Response, len(reqs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.parallel)

	seen := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		if seen[r.Query] {
			continue
		}
		seen[r.Query] = true

		g.Go(func() error {
			resp := i.Search(gctx, r.Query, r.Country, r.Num)
			mu.Lock()
			out[r.Query] = resp
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Scrape fetches a page through the unlocker with the same caching, retry
// and breaker policy as searches.
func (i *Issuer) Scrape(ctx context.Context, targetURL string) (string, error) {
	if i.client == nil {
		return "", brightdata.ErrNoAPIKey
	}

	key := store.ScrapeKey(targetURL)
	if i.cache != nil {
		if data, err := i.cache.GetCachedScrape(ctx, key); err != nil {
			zap.L().Warn("search: scrape cache read failed", zap.Error(err))
		} else if data != nil {
			return string(data), nil
		}
	}

	html, err := resilience.DoVal(ctx, i.retry, func(ctx context.Context) (string, error) {
		if i.breaker == nil {
			return i.client.Scrape(ctx, targetURL)
		}
		return resilience.ExecuteVal(ctx, i.breaker, func(ctx context.Context) (string, error) {
			return i.client.Scrape(ctx, targetURL)
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "scrape")
	}

	if i.cache != nil {
		if err := i.cache.SetCachedScrape(ctx, key, []byte(html), i.cacheTTL); err != nil {
			zap.L().Warn("search: scrape cache write failed", zap.Error(err))
		}
	}
	return html, nil
}

func (i *Issuer) cached(ctx context.Context, key string) ([]model.SearchResult, bool) {
	if i.cache == nil {
		return nil, false
	}
	data, err := i.cache.GetCachedSearch(ctx, key)
	if err != nil {
		zap.L().Warn("search: cache read failed", zap.Error(err))
		return nil, false
	}
	if data == nil {
		return nil, false
	}
	var results []model.SearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		zap.L().Warn("search: cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return results, true
}

func (i *Issuer) save(ctx context.Context, key string, results []model.SearchResult) {
	if i.cache == nil {
		return
	}
	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := i.cache.SetCachedSearch(ctx, key, data, i.cacheTTL); err != nil {
		zap.L().Warn("search: cache write failed", zap.Error(err))
	}
}

func toResults(resp *brightdata.SearchResponse) []model.SearchResult {
	if resp == nil {
		return []model.SearchResult{}
	}
	results := make([]model.SearchResult, 0, len(resp.Organic))
	for _, o := range resp.Organic {
		if o.Link == "" {
			continue
		}
		results = append(results, model.SearchResult{
			Title:   o.Title,
			URL:     o.Link,
			Snippet: o.Description,
		})
	}
	return results
}

// shouldRetry retries throttling, provider 5xx and network failures.
func shouldRetry(err error) bool {
	if code := brightdata.StatusCode(err); code != 0 {
		return resilience.IsTransientHTTPStatus(code)
	}
	return resilience.IsTransient(err)
}

// isProviderFailure excludes configuration and client errors from the
// breaker's failure count.
func isProviderFailure(err error) bool {
	if eris.Is(err, brightdata.ErrNoAPIKey) {
		return false
	}
	if code := brightdata.StatusCode(err); code != 0 {
		return code >= 500 || code == 429
	}
	return true
}
