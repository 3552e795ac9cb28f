// Package normalize canonicalizes domains, email addresses and phone numbers
// so that lead attributes can be compared against search results.
package normalize

import (
	"net/url"
	"strings"
)

// ExtractDomain returns the lowercased host of rawURL with one leading "www."
// removed. A missing scheme is treated as https. Malformed input never fails;
// the best-effort host (possibly "") is returned instead.
func ExtractDomain(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	var host string
	if u, err := url.Parse(s); err == nil {
		host = u.Host
	} else {
		host = hostFallback(s)
	}

	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}

// hostFallback extracts the authority by hand when url.Parse rejects input.
func hostFallback(s string) string {
	if idx := strings.Index(s, "://"); idx >= 0 {
		s = s[idx+3:]
	}
	if idx := strings.IndexAny(s, "/?#"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.LastIndex(s, "@"); idx >= 0 {
		s = s[idx+1:]
	}
	return strings.TrimSpace(s)
}

// ExtractEmailDomain returns the lowercased part after the last "@". ok is
// false when the address has no "@" or nothing follows it.
func ExtractEmailDomain(email string) (domain string, ok bool) {
	idx := strings.LastIndex(email, "@")
	if idx < 0 {
		return "", false
	}
	domain = strings.ToLower(strings.TrimSpace(email[idx+1:]))
	return domain, domain != ""
}

// NormalizePhone keeps only the ASCII digits of phone.
func NormalizePhone(phone string) string {
	if phone == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(phone))
	for i := 0; i < len(phone); i++ {
		if c := phone[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// excludedWebsiteDomains are platforms that never count as a company website.
var excludedWebsiteDomains = []string{
	"linkedin.com",
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"youtube.com",
	"wikipedia.org",
}

// IsExcludedWebsite reports whether rawURL points at a social network or
// encyclopedia (including subdomains such as de.wikipedia.org).
func IsExcludedWebsite(rawURL string) bool {
	domain := ExtractDomain(rawURL)
	if domain == "" {
		return false
	}
	for _, d := range excludedWebsiteDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}
