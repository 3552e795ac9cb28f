package resolve

import (
	"math"
	"strings"

	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/normalize"
	"github.com/sells-group/lead-enricher/internal/similarity"
)

// Weights of the website match signals. Each signal contributes at most its
// weight and the total is clamped to [0,1].
const (
	WeightEmailDomain = 0.50
	WeightTitle       = 0.25
	WeightPhone       = 0.15
)

// ScoreWebsiteMatch scores how well a search result matches the lead.
func ScoreWebsiteMatch(in Input, r model.SearchResult, scorer similarity.Scorer) float64 {
	score := 0.0

	if domain, ok := in.CompanyEmailDomain(); ok && normalize.ExtractDomain(r.URL) == domain {
		score += WeightEmailDomain
	}

	score += scorer.Similarity(in.CompanyName, r.Title) * WeightTitle

	if in.Phone != "" && strings.Contains(normalize.NormalizePhone(r.Snippet), in.Phone) {
		score += WeightPhone
	}

	return math.Min(math.Max(score, 0), 1)
}
