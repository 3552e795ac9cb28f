// Package locale infers a lead's country and the search location and
// language that go with it.
package locale

import (
	"strings"

	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/normalize"
)

// DefaultCountry is used when neither phone nor email reveal a country.
const DefaultCountry = "DE"

type signal struct {
	match   string
	country string
}

// phonePrefixes are international calling codes, checked in order against
// the digits of the phone number.
var phonePrefixes = []signal{
	{"49", "DE"},
	{"43", "AT"},
	{"41", "CH"},
	{"33", "FR"},
	{"34", "ES"},
}

// emailSuffixes are country TLDs checked against the email domain.
var emailSuffixes = []signal{
	{".de", "DE"},
	{".at", "AT"},
	{".ch", "CH"},
	{".fr", "FR"},
	{".es", "ES"},
}

// DetectCountry returns the country code for lead. The phone calling code
// wins over the email TLD; DefaultCountry is returned when neither matches.
func DetectCountry(lead model.Lead) string {
	if digits := normalize.NormalizePhone(lead.Phone()); digits != "" {
		for _, p := range phonePrefixes {
			if strings.HasPrefix(digits, p.match) {
				return p.country
			}
		}
	}

	if domain, ok := normalize.ExtractEmailDomain(lead.Email()); ok {
		for _, s := range emailSuffixes {
			if strings.HasSuffix(domain, s.match) {
				return s.country
			}
		}
	}

	return DefaultCountry
}

var locations = map[string]string{
	// Europe
	"DE": "Germany", "AT": "Austria", "CH": "Switzerland",
	"FR": "France", "ES": "Spain", "NL": "Netherlands",
	"BE": "Belgium", "IT": "Italy", "PL": "Poland",
	"CZ": "Czech Republic", "PT": "Portugal", "IE": "Ireland",
	"GB": "United Kingdom",
	"SE": "Sweden", "NO": "Norway", "DK": "Denmark", "FI": "Finland",
	"GR": "Greece", "RU": "Russia",
	// North America
	"US": "United States", "CA": "Canada", "MX": "Mexico",
	// South America
	"BR": "Brazil", "AR": "Argentina", "CL": "Chile", "CO": "Colombia", "PE": "Peru",
	// Asia-Pacific
	"JP": "Japan", "KR": "South Korea", "CN": "China", "IN": "India",
	"AU": "Australia", "NZ": "New Zealand", "SG": "Singapore",
	"MY": "Malaysia", "TH": "Thailand", "VN": "Vietnam", "ID": "Indonesia",
	"PH": "Philippines", "HK": "Hong Kong", "TW": "Taiwan",
	// Middle East & Africa
	"AE": "United Arab Emirates", "SA": "Saudi Arabia", "IL": "Israel", "TR": "Turkey",
	"EG": "Egypt", "NG": "Nigeria", "KE": "Kenya", "ZA": "South Africa",
}

// Location returns the human-readable search location for a country code.
// Unknown codes are returned unchanged.
func Location(country string) string {
	if name, ok := locations[strings.ToUpper(country)]; ok {
		return name
	}
	return country
}

// Language returns "de" for the DACH countries and "en" otherwise.
func Language(country string) string {
	switch strings.ToUpper(country) {
	case "DE", "AT", "CH":
		return "de"
	default:
		return "en"
	}
}
