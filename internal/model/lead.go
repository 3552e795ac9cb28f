package model

import (
	"math"
	"strconv"
	"strings"
)

// Input columns the enrichment pipeline reads from a lead row.
const (
	FieldCompanyName = "company_name"
	FieldFullName    = "full_name"
	FieldWorkEmail   = "work_email"
	FieldWorkPhone   = "work_phone_number"
)

// Enrichment columns appended to every output row, in output order.
const (
	FieldWebsite           = "website"
	FieldWebsiteConfidence = "website_confidence"
	FieldCompanyLinkedIn   = "company_linkedin"
	FieldPersonLinkedIn    = "person_linkedin"
	FieldPersonVerified    = "person_verified"
	FieldEmployeeCount     = "employee_count"
	FieldIndustry          = "industry"
	FieldLinkedInFollowers = "linkedin_followers"
	FieldCountry           = "country"
	FieldNotes             = "notes"
)

// EnrichmentFields lists the enrichment columns in output order.
var EnrichmentFields = []string{
	FieldWebsite,
	FieldWebsiteConfidence,
	FieldCompanyLinkedIn,
	FieldPersonLinkedIn,
	FieldPersonVerified,
	FieldEmployeeCount,
	FieldIndustry,
	FieldLinkedInFollowers,
	FieldCountry,
	FieldNotes,
}

// Lead is a single input row keyed by column name. Unknown columns are
// carried through to the output untouched.
type Lead map[string]string

// Get returns the trimmed value of a column, or "" when absent.
func (l Lead) Get(field string) string {
	return strings.TrimSpace(l[field])
}

// CompanyName returns the lead's company name.
func (l Lead) CompanyName() string { return l.Get(FieldCompanyName) }

// FullName returns the contact's full name.
func (l Lead) FullName() string { return l.Get(FieldFullName) }

// Email returns the contact's work email.
func (l Lead) Email() string { return l.Get(FieldWorkEmail) }

// Phone returns the contact's work phone number as written in the input.
func (l Lead) Phone() string { return l.Get(FieldWorkPhone) }

// SearchResult is one organic result returned by the search provider.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Candidate is a search result scored against a lead. Score is in [0,1].
type Candidate struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// EnrichedLead is the output of enriching one Lead. The input row is kept
// verbatim; enrichment fields overwrite same-named input columns on output.
type EnrichedLead struct {
	Lead              Lead    `json:"lead"`
	Website           string  `json:"website"`
	WebsiteConfidence float64 `json:"website_confidence"`
	CompanyLinkedIn   string  `json:"company_linkedin"`
	PersonLinkedIn    string  `json:"person_linkedin"`
	PersonVerified    bool    `json:"person_verified"`
	EmployeeCount     string  `json:"employee_count"`
	Industry          string  `json:"industry"`
	LinkedInFollowers string  `json:"linkedin_followers"`
	Country           string  `json:"country"`
	Notes             string  `json:"notes"`
}

// NewEnrichedLead returns an EnrichedLead with every enrichment field at its
// default value.
func NewEnrichedLead(lead Lead, country string) EnrichedLead {
	cp := make(Lead, len(lead))
	for k, v := range lead {
		cp[k] = v
	}
	return EnrichedLead{Lead: cp, Country: country}
}

// Values flattens the lead and its enrichment fields into one column map.
func (e EnrichedLead) Values() map[string]string {
	out := make(map[string]string, len(e.Lead)+len(EnrichmentFields))
	for k, v := range e.Lead {
		out[k] = v
	}
	verified := ""
	if e.PersonVerified {
		verified = "true"
	}
	out[FieldWebsite] = e.Website
	out[FieldWebsiteConfidence] = FormatConfidence(e.WebsiteConfidence)
	out[FieldCompanyLinkedIn] = e.CompanyLinkedIn
	out[FieldPersonLinkedIn] = e.PersonLinkedIn
	out[FieldPersonVerified] = verified
	out[FieldEmployeeCount] = e.EmployeeCount
	out[FieldIndustry] = e.Industry
	out[FieldLinkedInFollowers] = e.LinkedInFollowers
	out[FieldCountry] = e.Country
	out[FieldNotes] = e.Notes
	return out
}

// Record returns the row for the given output header.
func (e EnrichedLead) Record(header []string) []string {
	values := e.Values()
	row := make([]string, len(header))
	for i, col := range header {
		row[i] = values[col]
	}
	return row
}

// OutputHeader appends the enrichment columns missing from the input header.
func OutputHeader(input []string) []string {
	seen := make(map[string]bool, len(input))
	header := make([]string, 0, len(input)+len(EnrichmentFields))
	for _, col := range input {
		seen[col] = true
		header = append(header, col)
	}
	for _, col := range EnrichmentFields {
		if !seen[col] {
			header = append(header, col)
		}
	}
	return header
}

// FormatConfidence renders a confidence with at most four decimals.
func FormatConfidence(v float64) string {
	return strconv.FormatFloat(math.Round(v*10000)/10000, 'f', -1, 64)
}
