// Package pipeline enriches leads with their company website, LinkedIn
// pages and company facts.
package pipeline

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/lead-enricher/internal/linkedin"
	"github.com/sells-group/lead-enricher/internal/locale"
	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/probe"
	"github.com/sells-group/lead-enricher/internal/resolve"
	"github.com/sells-group/lead-enricher/internal/search"
	"github.com/sells-group/lead-enricher/internal/similarity"
	"github.com/sells-group/lead-enricher/internal/store"
)

// Config tunes a Pipeline.
type Config struct {
	MinConfidence   float64
	LeadDelay       time.Duration
	BatchQueries    bool
	LinkedInScrape  bool
	CompanyResults  int
	LinkedInResults int
	PersonResults   int
	// ProgressEvery prints progress every n leads. Zero means 10.
	ProgressEvery int
}

// BatchSearcher issues several searches at once.
type BatchSearcher interface {
	SearchBatch(ctx context.Context, reqs []search.Request) map[string]search.Response
}

// Pipeline enriches leads one at a time.
type Pipeline struct {
	cfg      Config
	searcher search.Searcher
	batcher  BatchSearcher
	prober   probe.Prober
	scorer   similarity.Scorer
	scraper  linkedin.Scraper
	store    store.Store
	out      io.Writer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBatchSearcher enables concurrent per-lead searches when
// Config.BatchQueries is set.
func WithBatchSearcher(b BatchSearcher) Option {
	return func(p *Pipeline) {
		p.batcher = b
	}
}

// WithScraper sets the page fetcher used for LinkedIn company pages.
func WithScraper(s linkedin.Scraper) Option {
	return func(p *Pipeline) {
		p.scraper = s
	}
}

// WithStore records batch runs in st.
func WithStore(st store.Store) Option {
	return func(p *Pipeline) {
		p.store = st
	}
}

// WithOutput sets where progress and the summary are printed.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		p.out = w
	}
}

// New creates a Pipeline. A negative MinConfidence selects
// resolve.DefaultMinConfidence.
func New(cfg Config, searcher search.Searcher, prober probe.Prober, scorer similarity.Scorer, opts ...Option) *Pipeline {
	if cfg.MinConfidence < 0 {
		cfg.MinConfidence = resolve.DefaultMinConfidence
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 10
	}
	if scorer == nil {
		scorer = similarity.TokenSort{}
	}
	p := &Pipeline{
		cfg:      cfg,
		searcher: searcher,
		prober:   prober,
		scorer:   scorer,
		out:      io.Discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MinConfidence returns the threshold leads are bucketed against.
func (p *Pipeline) MinConfidence() float64 { return p.cfg.MinConfidence }

// EnrichLead resolves the website and LinkedIn pages of one lead. It never
// fails; every problem is reported through the lead's fields and notes.
func (p *Pipeline) EnrichLead(ctx context.Context, lead model.Lead) model.EnrichedLead {
	country := locale.DetectCountry(lead)
	e := model.NewEnrichedLead(lead, country)
	in := resolve.NewInput(lead, country)
	log := zap.L().With(zap.String("lead", in.CompanyName), zap.String("country", country))

	searcher := p.searcher
	if p.cfg.BatchQueries && p.batcher != nil && !resolve.IsGenericCompanyName(in.CompanyName) {
		searcher = search.NewPrefetched(p.batcher.SearchBatch(ctx, p.leadRequests(in)), p.searcher)
	}

	resolver := resolve.NewResolver(searcher, p.prober, p.scorer, resolve.Config{
		MinConfidence:  p.cfg.MinConfidence,
		CompanyResults: p.cfg.CompanyResults,
	})
	out := resolver.Resolve(ctx, in)
	e.Website = out.Website
	e.WebsiteConfidence = out.Confidence
	e.Notes = out.Notes
	log.Debug("pipeline: website resolved",
		zap.String("website", out.Website),
		zap.Float64("confidence", out.Confidence),
		zap.String("strategy", out.Strategy),
	)

	if resolve.IsGenericCompanyName(in.CompanyName) {
		return e
	}

	finder := linkedin.NewFinder(searcher, p.scraper, p.scorer, linkedin.Config{
		CompanyResults: p.cfg.LinkedInResults,
		PersonResults:  p.cfg.PersonResults,
	})

	if in.CompanyName != "" {
		if m := finder.FindCompany(ctx, in.CompanyName, country); m.Found() {
			e.CompanyLinkedIn = m.URL
			if p.cfg.LinkedInScrape {
				profile := finder.EnrichCompany(ctx, m.URL)
				e.EmployeeCount = profile.EmployeeCount
				e.Industry = profile.Industry
				e.LinkedInFollowers = profile.Followers
			}
		}
	}

	if in.FullName != "" && in.CompanyName != "" {
		if m := finder.FindPerson(ctx, in.FullName, in.CompanyName, country); m.Found() {
			e.PersonLinkedIn = m.URL
			e.PersonVerified = true
		}
	}

	log.Debug("pipeline: linkedin resolved",
		zap.String("company_linkedin", e.CompanyLinkedIn),
		zap.Bool("person_verified", e.PersonVerified),
	)
	return e
}

// leadRequests lists every search the lead may need, for batch mode.
func (p *Pipeline) leadRequests(in resolve.Input) []search.Request {
	companyResults := orDefault(p.cfg.CompanyResults, 10)
	var reqs []search.Request
	if _, ok := in.CompanyEmailDomain(); ok {
		reqs = append(reqs, search.Request{Query: search.EmailQuery(in.Email), Country: in.Country, Num: companyResults})
	}
	if in.CompanyName != "" {
		reqs = append(reqs,
			search.Request{Query: search.CompanyQuery(in.CompanyName), Country: in.Country, Num: companyResults},
			search.Request{
				Query:   search.LinkedInCompanyQuery(in.CompanyName),
				Country: in.Country,
				Num:     orDefault(p.cfg.LinkedInResults, linkedin.DefaultCompanyResults),
			},
		)
		if in.FullName != "" {
			reqs = append(reqs, search.Request{
				Query:   search.LinkedInPersonQuery(in.FullName, in.CompanyName),
				Country: in.Country,
				Num:     orDefault(p.cfg.PersonResults, linkedin.DefaultPersonResults),
			})
		}
	}
	return reqs
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
