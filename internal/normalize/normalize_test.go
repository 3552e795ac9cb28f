package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full url", "https://www.a.com/x", "a.com"},
		{"no scheme", "reha360.de", "reha360.de"},
		{"no scheme with www", "www.Reha360.DE/kontakt", "reha360.de"},
		{"http", "http://example.org?q=1", "example.org"},
		{"www stripped once", "https://www.www.example.com", "www.example.com"},
		{"keeps port", "https://example.com:8080/", "example.com:8080"},
		{"subdomain", "https://de.wikipedia.org/wiki/X", "de.wikipedia.org"},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"malformed", "https://exa mple.com/%zz", "exa mple.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDomain(tt.in))
		})
	}
}

func TestExtractDomain_Idempotent(t *testing.T) {
	for _, in := range []string{"https://www.a.com/x", "b.de", "http://shop.c.ch/path"} {
		once := ExtractDomain(in)
		assert.Equal(t, once, ExtractDomain(once), in)
	}
}

func TestExtractEmailDomain(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"office@reha360.de", "reha360.de", true},
		{"Max.Muster@Example.COM", "example.com", true},
		{"weird@name@corp.io", "corp.io", true},
		{"no-at-sign", "", false},
		{"trailing@", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ExtractEmailDomain(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "491234567890", NormalizePhone("+49-123-456-7890"))
	assert.Equal(t, "0041443334455", NormalizePhone("0041 (44) 333 44 55"))
	assert.Equal(t, "", NormalizePhone(""))
	assert.Equal(t, "", NormalizePhone("n/a"))
}

func TestIsGenericEmailDomain(t *testing.T) {
	assert.True(t, IsGenericEmailDomain("gmail.com"))
	assert.True(t, IsGenericEmailDomain("GMX.de"))
	assert.True(t, IsGenericEmailDomain(" bluewin.ch "))
	assert.True(t, IsGenericEmailDomain("t-online.de"))
	assert.False(t, IsGenericEmailDomain("reha360.de"))
	assert.False(t, IsGenericEmailDomain(""))
}

func TestIsExcludedWebsite(t *testing.T) {
	assert.True(t, IsExcludedWebsite("https://www.linkedin.com/company/acme"))
	assert.True(t, IsExcludedWebsite("https://de.wikipedia.org/wiki/Acme"))
	assert.True(t, IsExcludedWebsite("facebook.com/acme"))
	assert.False(t, IsExcludedWebsite("https://acme.de/"))
	assert.False(t, IsExcludedWebsite("https://notlinkedin.com/"))
	assert.False(t, IsExcludedWebsite(""))
}
