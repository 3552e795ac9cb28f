// Package resolve decides which URL is a lead's company website and how
// confident that decision is.
package resolve

import (
	"strings"

	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/normalize"
)

// Input is the part of a lead the resolvers look at, normalized once.
type Input struct {
	CompanyName string
	FullName    string
	Email       string
	// EmailDomain is "" when the email has no domain.
	EmailDomain  string
	GenericEmail bool
	// Phone holds digits only.
	Phone   string
	Country string
}

// NewInput normalizes lead for resolution in country.
func NewInput(lead model.Lead, country string) Input {
	in := Input{
		CompanyName: lead.CompanyName(),
		FullName:    lead.FullName(),
		Email:       lead.Email(),
		Phone:       normalize.NormalizePhone(lead.Phone()),
		Country:     country,
	}
	if domain, ok := normalize.ExtractEmailDomain(in.Email); ok {
		in.EmailDomain = domain
		in.GenericEmail = normalize.IsGenericEmailDomain(domain)
	}
	return in
}

// CompanyEmailDomain returns the email domain when it can prove company
// ownership, i.e. it is present and not a consumer provider.
func (in Input) CompanyEmailDomain() (string, bool) {
	if in.EmailDomain == "" || in.GenericEmail {
		return "", false
	}
	return in.EmailDomain, true
}

var genericCompanyNames = map[string]bool{
	"selbstständigkeit": true,
	"selbstständig":     true,
	"selbständig":       true,
	"self-employed":     true,
	"self employed":     true,
	"freelancer":        true,
	"freiberufler":      true,
	"privat":            true,
	"private":           true,
}

// IsGenericCompanyName reports whether name is a placeholder such as
// "self-employed" rather than a real company.
func IsGenericCompanyName(name string) bool {
	return genericCompanyNames[strings.ToLower(strings.TrimSpace(name))]
}

// PersonEqualsCompany reports whether the contact's name equals the company
// name or one contains the other, ignoring case. An empty name or company
// never matches.
func PersonEqualsCompany(fullName, company string) bool {
	name := strings.ToLower(strings.TrimSpace(fullName))
	comp := strings.ToLower(strings.TrimSpace(company))
	if name == "" || comp == "" {
		return false
	}
	return name == comp || strings.Contains(comp, name) || strings.Contains(name, comp)
}
