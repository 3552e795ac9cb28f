package search

// CompanyQuery searches for a company's website by exact name.
func CompanyQuery(company string) string {
	return quote(company)
}

// EmailQuery searches for pages that mention an exact email address.
func EmailQuery(email string) string {
	return quote(email)
}

// LinkedInCompanyQuery restricts a company name search to LinkedIn company pages.
func LinkedInCompanyQuery(company string) string {
	return quote(company) + " site:linkedin.com/company"
}

// LinkedInPersonQuery searches LinkedIn profiles that mention both the
// person and the company.
func LinkedInPersonQuery(fullName, company string) string {
	return quote(fullName) + " " + quote(company) + " site:linkedin.com/in"
}

// quote wraps s in double quotes for an exact-phrase search. Values are
// used verbatim.
func quote(s string) string {
	return `"` + s + `"`
}
