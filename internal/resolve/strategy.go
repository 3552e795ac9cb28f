package resolve

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/normalize"
	"github.com/sells-group/lead-enricher/internal/probe"
	"github.com/sells-group/lead-enricher/internal/search"
	"github.com/sells-group/lead-enricher/internal/similarity"
)

// Strategy names reported in Outcome.Strategy.
const (
	StrategyDirectProbe   = "direct_probe"
	StrategyEmailSearch   = "email_search"
	StrategyCompanySearch = "company_search"
)

// OwnershipConfidence is the fixed confidence of a website confirmed through
// the lead's own email domain.
const OwnershipConfidence = 0.9

// Outcome is the result of website resolution for one lead.
type Outcome struct {
	Website    string
	Confidence float64
	Notes      string
	// Strategy names the strategy that produced the outcome, or "" when no
	// strategy ran to completion.
	Strategy string
	// Candidates holds the scored results of a company search, best first.
	Candidates []model.Candidate
	// ResultCount and SearchErr describe the company search, if one ran.
	ResultCount int
	SearchErr   error
}

// Strategy is one step of the resolution chain. done reports whether the
// chain should stop with out.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, in Input) (out Outcome, done bool)
}

// DirectProbe checks whether the email domain itself serves a website.
type DirectProbe struct {
	Prober probe.Prober
}

// Name implements Strategy.
func (DirectProbe) Name() string { return StrategyDirectProbe }

// Resolve implements Strategy.
func (s DirectProbe) Resolve(ctx context.Context, in Input) (Outcome, bool) {
	domain, ok := in.CompanyEmailDomain()
	if !ok || s.Prober == nil {
		return Outcome{}, false
	}

	res := s.Prober.Probe(ctx, domain)
	if !res.OK {
		return Outcome{}, false
	}
	website := res.FinalURL
	if website == "" {
		website = "https://" + domain + "/"
	}
	return Outcome{Website: website, Confidence: OwnershipConfidence, Strategy: StrategyDirectProbe}, true
}

// EmailSearch searches for the exact email address and accepts the first
// result hosted on the email's own domain.
type EmailSearch struct {
	Searcher search.Searcher
	Results  int
}

// Name implements Strategy.
func (EmailSearch) Name() string { return StrategyEmailSearch }

// Resolve implements Strategy.
func (s EmailSearch) Resolve(ctx context.Context, in Input) (Outcome, bool) {
	domain, ok := in.CompanyEmailDomain()
	if !ok {
		return Outcome{}, false
	}

	resp := s.Searcher.Search(ctx, search.EmailQuery(in.Email), in.Country, s.Results)
	if !resp.OK() {
		zap.L().Debug("resolve: email search failed", zap.String("email", in.Email), zap.Error(resp.Err))
		return Outcome{}, false
	}

	for _, r := range resp.Results {
		if normalize.IsExcludedWebsite(r.URL) {
			continue
		}
		if normalize.ExtractDomain(r.URL) == domain {
			return Outcome{Website: r.URL, Confidence: OwnershipConfidence, Strategy: StrategyEmailSearch}, true
		}
	}
	return Outcome{}, false
}

// CompanySearch searches by company name and picks the best scoring result.
// It always completes the chain once it has run.
type CompanySearch struct {
	Searcher search.Searcher
	Scorer   similarity.Scorer
	Results  int
}

// Name implements Strategy.
func (CompanySearch) Name() string { return StrategyCompanySearch }

// Resolve implements Strategy.
func (s CompanySearch) Resolve(ctx context.Context, in Input) (Outcome, bool) {
	if in.CompanyName == "" {
		return Outcome{}, false
	}

	out := Outcome{Strategy: StrategyCompanySearch}
	resp := s.Searcher.Search(ctx, search.CompanyQuery(in.CompanyName), in.Country, s.Results)
	if !resp.OK() {
		out.SearchErr = resp.Err
		return out, true
	}
	out.ResultCount = len(resp.Results)

	out.Candidates = RankCandidates(in, resp.Results, s.Scorer)
	if len(out.Candidates) > 0 {
		out.Website = out.Candidates[0].URL
		out.Confidence = out.Candidates[0].Score
	}
	return out, true
}

// RankCandidates scores every result that is not a social network or
// encyclopedia and sorts them best first. Ties keep search order.
func RankCandidates(in Input, results []model.SearchResult, scorer similarity.Scorer) []model.Candidate {
	candidates := make([]model.Candidate, 0, len(results))
	for _, r := range results {
		if r.URL == "" || normalize.IsExcludedWebsite(r.URL) {
			continue
		}
		candidates = append(candidates, model.Candidate{
			URL:     r.URL,
			Title:   r.Title,
			Snippet: r.Snippet,
			Score:   ScoreWebsiteMatch(in, r, scorer),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
