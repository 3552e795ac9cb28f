package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/resolve"
)

// BatchResult is the outcome of enriching a list of leads.
type BatchResult struct {
	// Leads holds one enriched lead per input lead, in input order.
	Leads []model.EnrichedLead
	// Review holds the leads with a website below the threshold.
	Review  []model.EnrichedLead
	Summary model.RunSummary
}

// Run enriches leads sequentially, pausing Config.LeadDelay between them.
// It stops early only when ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, leads []model.Lead) (*BatchResult, error) {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if p.cfg.LeadDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(p.cfg.LeadDelay), 1)
	}

	total := len(leads)
	enriched := make([]model.EnrichedLead, 0, total)
	for i, lead := range leads {
		if err := limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "pipeline: wait for next lead")
		}
		if (i+1)%p.cfg.ProgressEvery == 0 {
			fmt.Fprintf(p.out, "  Progress: %d/%d\n", i+1, total)
		}
		enriched = append(enriched, p.EnrichLead(ctx, lead))
	}

	res := &BatchResult{
		Leads:   enriched,
		Review:  ReviewLeads(enriched, p.cfg.MinConfidence),
		Summary: Summarize(enriched, p.cfg.MinConfidence),
	}
	zap.L().Info("pipeline: batch complete",
		zap.Int("total", res.Summary.Total),
		zap.Int("high_confidence", res.Summary.HighConfidence),
		zap.Int("review_needed", res.Summary.ReviewNeeded),
	)
	return res, nil
}

// Summarize counts the leads in each confidence band. A lead without a
// website is unresolved whatever the threshold.
func Summarize(leads []model.EnrichedLead, minConfidence float64) model.RunSummary {
	s := model.RunSummary{Total: len(leads), MinConfidence: minConfidence}
	for _, l := range leads {
		if l.Website == "" {
			s.Unresolved++
			continue
		}
		switch resolve.Band(l.WebsiteConfidence, minConfidence) {
		case resolve.BandHigh:
			s.HighConfidence++
		case resolve.BandMedium:
			s.ReviewNeeded++
		default:
			s.Unresolved++
		}
	}
	s.ReviewCount = len(ReviewLeads(leads, minConfidence))
	return s
}

// ReviewLeads returns the leads below minConfidence that still have a
// website to review.
func ReviewLeads(leads []model.EnrichedLead, minConfidence float64) []model.EnrichedLead {
	var review []model.EnrichedLead
	for _, l := range leads {
		if l.Website != "" && l.WebsiteConfidence < minConfidence {
			review = append(review, l)
		}
	}
	return review
}
