package main

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-enricher/internal/config"
	"github.com/sells-group/lead-enricher/internal/pipeline"
	"github.com/sells-group/lead-enricher/internal/probe"
	"github.com/sells-group/lead-enricher/internal/resilience"
	"github.com/sells-group/lead-enricher/internal/search"
	"github.com/sells-group/lead-enricher/internal/similarity"
	"github.com/sells-group/lead-enricher/internal/store"
	"github.com/sells-group/lead-enricher/pkg/brightdata"
)

// enricherEnv holds the store, search issuer and pipeline shared by the
// enrich and serve commands.
type enricherEnv struct {
	Store    store.Store
	Issuer   *search.Issuer
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the environment.
func (e *enricherEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore opens the configured cache backend. It returns nil when caching
// is disabled.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Cache.Driver, cfg.Cache.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

// resolveAPIKey looks the key up in every configured source.
func resolveAPIKey() (string, error) {
	path, err := config.CredentialPath()
	if err != nil {
		return "", err
	}
	return config.ResolveAPIKey(cfg.BrightData, path)
}

func newIssuer(apiKey string, st store.Store) *search.Issuer {
	client := brightdata.NewClient(apiKey,
		brightdata.WithBaseURL(cfg.BrightData.BaseURL),
		brightdata.WithSERPZone(cfg.BrightData.SERPZone),
		brightdata.WithUnlockerZone(cfg.BrightData.UnlockerZone),
		brightdata.WithTimeout(cfg.BrightData.Timeout()),
	)
	return search.NewIssuer(client,
		search.WithCache(st, cfg.Cache.TTL()),
		search.WithRetry(resilience.FromRetryConfig(cfg.Retry.MaxAttempts, cfg.Retry.InitialBackoffMs, cfg.Retry.MaxBackoffMs)),
		search.WithBreaker(resilience.FromCircuitConfig(cfg.Circuit.FailureThreshold, cfg.Circuit.ResetTimeoutSecs)),
	)
}

// initEnricher validates the configuration for mode and builds the
// pipeline. A missing API key is not fatal here: every search then fails
// and the failure is recorded in the lead notes.
func initEnricher(ctx context.Context, mode string, minConfidence float64, out io.Writer) (*enricherEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	apiKey, err := resolveAPIKey()
	if err != nil {
		zap.L().Warn("no bright data api key configured, searches will fail", zap.Error(err))
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	issuer := newIssuer(apiKey, st)
	p := pipeline.New(pipeline.Config{
		MinConfidence:   minConfidence,
		LeadDelay:       cfg.Enrich.LeadDelay(),
		BatchQueries:    cfg.Enrich.BatchQueries,
		LinkedInScrape:  cfg.Enrich.LinkedInScrape,
		CompanyResults:  cfg.Enrich.CompanyResults,
		LinkedInResults: cfg.Enrich.LinkedInResults,
		PersonResults:   cfg.Enrich.PersonResults,
	},
		issuer,
		probe.New(cfg.Enrich.ProbeTimeout()),
		similarity.New(cfg.Enrich.Similarity),
		pipeline.WithBatchSearcher(issuer),
		pipeline.WithScraper(issuer),
		pipeline.WithStore(st),
		pipeline.WithOutput(out),
	)

	return &enricherEnv{Store: st, Issuer: issuer, Pipeline: p}, nil
}
