package linkedin

import (
	"encoding/json"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Profile holds public facts read from a LinkedIn company page. Every field
// is optional.
type Profile struct {
	EmployeeCount string `json:"employee_count,omitempty"`
	Followers     string `json:"followers,omitempty"`
	Industry      string `json:"industry,omitempty"`
}

var (
	followersRe = regexp.MustCompile(`(?i)(\d[\d,.]*)\s+followers\s+on\s+LinkedIn`)
	industryRe  = regexp.MustCompile(`(?is)industry[^<]*</[^>]+>\s*<dd[^>]*>\s*([^<]+?)\s*</dd>`)
)

// ParseCompanyPage extracts the employee count, follower count and industry
// from company page HTML. Each extraction fails independently.
func ParseCompanyPage(page string) Profile {
	var p Profile
	if strings.TrimSpace(page) == "" {
		return p
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		zap.L().Debug("linkedin: parse company page", zap.Error(err))
	} else {
		p.EmployeeCount = employeesFromLDJSON(doc)
		p.Industry = industryFromDoc(doc)
	}

	if m := followersRe.FindStringSubmatch(page); m != nil {
		p.Followers = strings.NewReplacer(",", "", ".", "").Replace(m[1])
	}
	if p.Industry == "" {
		if m := industryRe.FindStringSubmatch(page); m != nil {
			p.Industry = strings.TrimSpace(html.UnescapeString(m[1]))
		}
	}
	return p
}

func employeesFromLDJSON(doc *goquery.Document) string {
	var count string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			zap.L().Debug("linkedin: invalid ld+json", zap.Error(err))
			return true
		}
		org := findOrganization(data)
		if org == nil {
			return true
		}
		count = employeeValue(org["numberOfEmployees"])
		return false
	})
	return count
}

// findOrganization returns the first Organization object at the top level
// or one level below an array or @graph wrapper.
func findOrganization(data any) map[string]any {
	switch v := data.(type) {
	case map[string]any:
		if isOrganization(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				if obj, ok := item.(map[string]any); ok && isOrganization(obj["@type"]) {
					return obj
				}
			}
		}
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok && isOrganization(obj["@type"]) {
				return obj
			}
		}
	}
	return nil
}

func isOrganization(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Organization" || v == "Corporation"
	case []any:
		for _, item := range v {
			if isOrganization(item) {
				return true
			}
		}
	}
	return false
}

func employeeValue(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case string:
		return strings.TrimSpace(n)
	case map[string]any:
		return employeeValue(n["value"])
	}
	return ""
}

func industryFromDoc(doc *goquery.Document) string {
	var industry string
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(dt.Text()), "industry") {
			return true
		}
		industry = strings.TrimSpace(dt.NextFiltered("dd").Text())
		return industry == ""
	})
	return industry
}
