package resolve

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/lead-enricher/internal/probe"
	"github.com/sells-group/lead-enricher/internal/search"
	"github.com/sells-group/lead-enricher/internal/similarity"
)

// Notes written to EnrichedLead.Notes.
const (
	NoteGenericCompany    = "Generic company name, verify manually"
	NoteNoResults         = "No results found"
	NoteIdentityAmbiguity = "Person name equals company name with generic email. Verify manually."
)

// MediumConfidenceThreshold separates "needs review" from "low confidence".
const MediumConfidenceThreshold = 0.5

// DefaultMinConfidence is the default threshold for an unreviewed match.
const DefaultMinConfidence = 0.8

// Config tunes a Resolver.
type Config struct {
	MinConfidence  float64
	CompanyResults int
}

// Resolver runs the strategy chain and then picks the note for the outcome.
type Resolver struct {
	strategies    []Strategy
	guards        []guard
	minConfidence float64
}

// NewChain creates a Resolver over an explicit strategy list. A negative
// minConfidence selects DefaultMinConfidence; zero is a valid threshold.
func NewChain(minConfidence float64, strategies ...Strategy) *Resolver {
	if minConfidence < 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Resolver{
		strategies:    strategies,
		guards:        noteGuards,
		minConfidence: minConfidence,
	}
}

// NewResolver creates the standard chain: direct probe, email search, then
// company name search.
func NewResolver(searcher search.Searcher, prober probe.Prober, scorer similarity.Scorer, cfg Config) *Resolver {
	results := cfg.CompanyResults
	if results <= 0 {
		results = 10
	}
	return NewChain(cfg.MinConfidence,
		DirectProbe{Prober: prober},
		EmailSearch{Searcher: searcher, Results: results},
		CompanySearch{Searcher: searcher, Scorer: scorer, Results: results},
	)
}

// MinConfidence returns the threshold this resolver bands against.
func (r *Resolver) MinConfidence() float64 { return r.minConfidence }

// Resolve finds the website for in. Generic company names short-circuit
// without any search.
func (r *Resolver) Resolve(ctx context.Context, in Input) Outcome {
	log := zap.L().With(zap.String("company", in.CompanyName))

	if IsGenericCompanyName(in.CompanyName) {
		log.Debug("resolve: generic company name")
		return Outcome{Notes: NoteGenericCompany}
	}

	var out Outcome
	for _, s := range r.strategies {
		res, done := s.Resolve(ctx, in)
		if done {
			out = res
			log.Debug("resolve: strategy matched",
				zap.String("strategy", s.Name()),
				zap.String("website", out.Website),
				zap.Float64("confidence", out.Confidence),
			)
			break
		}
	}

	out.Notes = r.note(in, out)
	return out
}

// note returns the first note whose guard applies.
func (r *Resolver) note(in Input, out Outcome) string {
	for _, g := range r.guards {
		if n := g.note(in, out, r.minConfidence); n != "" {
			zap.L().Debug("resolve: note set", zap.String("guard", g.name), zap.String("company", in.CompanyName))
			return n
		}
	}
	return ""
}

// guard is one note-producing condition. An empty note means it does not apply.
type guard struct {
	name string
	note func(in Input, out Outcome, minConfidence float64) string
}

// noteGuards are evaluated in order; the first non-empty note wins. The
// band guards only look at company search outcomes because ownership
// matches carry a fixed confidence.
var noteGuards = []guard{
	{"search_error", func(_ Input, out Outcome, _ float64) string {
		if out.Strategy == StrategyCompanySearch && out.SearchErr != nil {
			return "Search error: " + out.SearchErr.Error()
		}
		return ""
	}},
	{"no_results", func(_ Input, out Outcome, _ float64) string {
		if out.Strategy == StrategyCompanySearch && out.ResultCount == 0 {
			return NoteNoResults
		}
		return ""
	}},
	{"medium_confidence", func(_ Input, out Outcome, minConfidence float64) string {
		if out.Strategy != StrategyCompanySearch || Band(out.Confidence, minConfidence) != BandMedium {
			return ""
		}
		return MediumConfidenceNote(out)
	}},
	{"low_confidence", func(_ Input, out Outcome, minConfidence float64) string {
		if out.Strategy != StrategyCompanySearch || Band(out.Confidence, minConfidence) != BandLow {
			return ""
		}
		return fmt.Sprintf("Low confidence match (%.2f). Manual review needed.", out.Confidence)
	}},
	{"identity_ambiguity", func(in Input, _ Outcome, _ float64) string {
		if _, owned := in.CompanyEmailDomain(); !owned && PersonEqualsCompany(in.FullName, in.CompanyName) {
			return NoteIdentityAmbiguity
		}
		return ""
	}},
}

// MediumConfidenceNote lists up to three candidate URLs, best first.
func MediumConfidenceNote(out Outcome) string {
	top := out.Candidates
	if len(top) > 3 {
		top = top[:3]
	}
	urls := make([]string, len(top))
	for i, c := range top {
		urls[i] = c.URL
	}
	return "Medium confidence. Candidates: " + strings.Join(urls, ", ")
}

// ConfidenceBand classifies a confidence against a threshold.
type ConfidenceBand int

const (
	BandLow ConfidenceBand = iota
	BandMedium
	BandHigh
)

func (b ConfidenceBand) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMedium:
		return "medium"
	default:
		return "low"
	}
}

// Band places confidence in exactly one band: high at or above
// minConfidence, medium from 0.5 up to it, low below 0.5.
func Band(confidence, minConfidence float64) ConfidenceBand {
	switch {
	case confidence >= minConfidence:
		return BandHigh
	case confidence >= MediumConfidenceThreshold:
		return BandMedium
	default:
		return BandLow
	}
}
