package brightdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/request", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body requestBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "serp_test", body.Zone)
		assert.Equal(t, "raw", body.Format)

		u, err := url.Parse(body.URL)
		require.NoError(t, err)
		assert.Equal(t, "www.google.com", u.Host)
		assert.Equal(t, `"Reha360"`, u.Query().Get("q"))
		assert.Equal(t, "DE", u.Query().Get("gl"))
		assert.Equal(t, "de", u.Query().Get("hl"))
		assert.Equal(t, "10", u.Query().Get("num"))
		assert.Equal(t, "Germany", u.Query().Get("uule"))
		assert.Equal(t, "1", u.Query().Get("brd_json"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic":[
			{"title":"Reha360 GmbH","link":"https://reha360.de/","description":"Physiotherapie","rank":1},
			{"title":"Reha360 | LinkedIn","link":"https://www.linkedin.com/company/reha360","description":"","rank":2}
		]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithSERPZone("serp_test"))
	got, err := client.Search(context.Background(), SearchRequest{
		Query:      `"Reha360"`,
		Country:    "DE",
		Location:   "Germany",
		Language:   "de",
		NumResults: 10,
	})

	require.NoError(t, err)
	require.Len(t, got.Organic, 2)
	assert.Equal(t, "Reha360 GmbH", got.Organic[0].Title)
	assert.Equal(t, "https://reha360.de/", got.Organic[0].Link)
	assert.Equal(t, "Physiotherapie", got.Organic[0].Description)
}

func TestSearch_TruncatesToNumResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic":[{"link":"https://a.com"},{"link":"https://b.com"},{"link":"https://c.com"}]}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	got, err := client.Search(context.Background(), SearchRequest{Query: "x", NumResults: 2})

	require.NoError(t, err)
	assert.Len(t, got.Organic, 2)
}

func TestSearch_EmptyResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"general":{"query":"x"}}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	got, err := client.Search(context.Background(), SearchRequest{Query: "x"})

	require.NoError(t, err)
	assert.Empty(t, got.Organic)
}

func TestSearch_StatusError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
	}{
		{http.StatusTooManyRequests},
		{http.StatusBadGateway},
		{http.StatusUnauthorized},
		{http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":"nope"}`))
			}))
			defer srv.Close()

			client := NewClient("k", WithBaseURL(srv.URL))
			_, err := client.Search(context.Background(), SearchRequest{Query: "x"})

			require.Error(t, err)
			assert.Contains(t, err.Error(), "unexpected status")
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestSearch_InvalidJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), SearchRequest{Query: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestNoAPIKey(t *testing.T) {
	t.Parallel()

	client := NewClient("")

	_, err := client.Search(context.Background(), SearchRequest{Query: "x"})
	assert.True(t, eris.Is(err, ErrNoAPIKey))

	_, err = client.Scrape(context.Background(), "https://example.com")
	assert.True(t, eris.Is(err, ErrNoAPIKey))
	assert.Zero(t, StatusCode(err))
}

func TestScrape_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body requestBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "unlocker_test", body.Zone)
		assert.Equal(t, "https://www.linkedin.com/company/reha360", body.URL)

		w.Write([]byte(`<html><body>ok</body></html>`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL), WithUnlockerZone("unlocker_test"))
	got, err := client.Scrape(context.Background(), "https://www.linkedin.com/company/reha360")

	require.NoError(t, err)
	assert.Equal(t, `<html><body>ok</body></html>`, got)
}

func TestScrape_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("k", WithBaseURL(srv.URL))
	_, err := client.Scrape(ctx, "https://example.com")
	require.Error(t, err)
}

func TestGoogleSearchURL_OmitsEmpty(t *testing.T) {
	t.Parallel()

	u, err := url.Parse(GoogleSearchURL(SearchRequest{Query: "acme"}))
	require.NoError(t, err)
	assert.Equal(t, "acme", u.Query().Get("q"))
	assert.False(t, u.Query().Has("gl"))
	assert.False(t, u.Query().Has("uule"))
	assert.False(t, u.Query().Has("num"))
	assert.Equal(t, "1", u.Query().Get("brd_json"))
}

func TestGoogleSearchURL_Location(t *testing.T) {
	t.Parallel()

	u, err := url.Parse(GoogleSearchURL(SearchRequest{
		Query:    "acme",
		Country:  "US",
		Location: "New York,New York,United States",
		Language: "en",
	}))
	require.NoError(t, err)
	assert.Equal(t, "US", u.Query().Get("gl"))
	assert.Equal(t, "New York,New York,United States", u.Query().Get("uule"))
	assert.Equal(t, "en", u.Query().Get("hl"))
}
