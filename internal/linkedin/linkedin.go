// Package linkedin finds a lead's LinkedIn company page and profile and
// reads public facts from the company page.
package linkedin

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/search"
	"github.com/sells-group/lead-enricher/internal/similarity"
)

const (
	companyPathMarker = "linkedin.com/company"
	personPathMarker  = "linkedin.com/in"
)

// Defaults for Config.
const (
	DefaultCompanyResults     = 10
	DefaultPersonResults      = 5
	DefaultMinTitleSimilarity = 0.6
)

// Scraper fetches the HTML of a page.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// Config tunes a Finder.
type Config struct {
	// CompanyResults is deliberately larger than one so that false
	// positives can be skipped.
	CompanyResults     int
	PersonResults      int
	MinTitleSimilarity float64
}

// Match is the outcome of a LinkedIn lookup. URL is "" when nothing was
// accepted; Err is set only when the search itself failed.
type Match struct {
	URL   string
	Title string
	Err   error
}

// Found reports whether a page was accepted.
func (m Match) Found() bool { return m.URL != "" }

// Finder looks up LinkedIn pages through a Searcher.
type Finder struct {
	searcher search.Searcher
	scraper  Scraper
	scorer   similarity.Scorer
	cfg      Config
}

// NewFinder creates a Finder. scraper may be nil, in which case
// EnrichCompany always returns an empty Profile.
func NewFinder(searcher search.Searcher, scraper Scraper, scorer similarity.Scorer, cfg Config) *Finder {
	if cfg.CompanyResults <= 0 {
		cfg.CompanyResults = DefaultCompanyResults
	}
	if cfg.PersonResults <= 0 {
		cfg.PersonResults = DefaultPersonResults
	}
	if cfg.MinTitleSimilarity <= 0 {
		cfg.MinTitleSimilarity = DefaultMinTitleSimilarity
	}
	if scorer == nil {
		scorer = similarity.TokenSort{}
	}
	return &Finder{searcher: searcher, scraper: scraper, scorer: scorer, cfg: cfg}
}

// FindCompany returns the first company page result that validates against
// company. Unvalidated candidates are skipped.
func (f *Finder) FindCompany(ctx context.Context, company, country string) Match {
	if strings.TrimSpace(company) == "" {
		return Match{}
	}
	log := zap.L().With(zap.String("company", company), zap.String("phase", "linkedin_company"))

	resp := f.searcher.Search(ctx, search.LinkedInCompanyQuery(company), country, f.cfg.CompanyResults)
	if !resp.OK() {
		log.Debug("linkedin: company search failed", zap.Error(resp.Err))
		return Match{Err: resp.Err}
	}

	for _, r := range resp.Results {
		if !strings.Contains(r.URL, companyPathMarker) {
			continue
		}
		if ValidateCompany(company, r, f.scorer, f.cfg.MinTitleSimilarity) {
			log.Debug("linkedin: company page accepted", zap.String("url", r.URL))
			return Match{URL: r.URL, Title: r.Title}
		}
		log.Debug("linkedin: company page rejected", zap.String("url", r.URL), zap.String("title", r.Title))
	}
	return Match{}
}

// FindPerson returns the first profile result for fullName at company. The
// quoted co-occurrence of both names in the query is the only evidence used.
func (f *Finder) FindPerson(ctx context.Context, fullName, company, country string) Match {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(company) == "" {
		return Match{}
	}

	resp := f.searcher.Search(ctx, search.LinkedInPersonQuery(fullName, company), country, f.cfg.PersonResults)
	if !resp.OK() {
		zap.L().Debug("linkedin: person search failed", zap.String("company", company), zap.Error(resp.Err))
		return Match{Err: resp.Err}
	}

	for _, r := range resp.Results {
		if strings.Contains(r.URL, personPathMarker) {
			return Match{URL: r.URL, Title: r.Title}
		}
	}
	return Match{}
}

// EnrichCompany scrapes a company page and extracts what it can. Any
// failure leaves the affected fields empty.
func (f *Finder) EnrichCompany(ctx context.Context, pageURL string) Profile {
	if f.scraper == nil || pageURL == "" {
		return Profile{}
	}
	html, err := f.scraper.Scrape(ctx, pageURL)
	if err != nil {
		zap.L().Debug("linkedin: company page scrape failed", zap.String("url", pageURL), zap.Error(err))
		return Profile{}
	}
	return ParseCompanyPage(html)
}

// ValidateCompany accepts a company page result when its title is similar
// enough to company or its URL slug and the company name contain one another.
func ValidateCompany(company string, r model.SearchResult, scorer similarity.Scorer, minTitleSimilarity float64) bool {
	if r.Title != "" && scorer.Similarity(company, r.Title) >= minTitleSimilarity {
		return true
	}

	slug := CompanySlug(r.URL)
	name := compactName(company)
	if slug == "" || name == "" {
		return false
	}
	return strings.Contains(slug, name) || strings.Contains(name, slug)
}

// CompanySlug returns the lowercased path segment after /company/ with
// hyphens and underscores removed, or "" when there is none.
func CompanySlug(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}
	path = strings.ToLower(path)

	idx := strings.Index(path, "/company/")
	if idx < 0 {
		return ""
	}
	seg := path[idx+len("/company/"):]
	if end := strings.IndexAny(seg, "/?#"); end >= 0 {
		seg = seg[:end]
	}
	return strings.NewReplacer("-", "", "_", "").Replace(seg)
}

func compactName(name string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(name)))
}
