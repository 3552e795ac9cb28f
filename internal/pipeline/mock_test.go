package pipeline

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/probe"
	"github.com/sells-group/lead-enricher/internal/search"
)

// --- Prober Mock ---

type mockProber struct {
	mock.Mock
}

func (m *mockProber) Probe(ctx context.Context, domain string) probe.Result {
	args := m.Called(ctx, domain)
	return args.Get(0).(probe.Result)
}

// --- Scraper Mock ---

type mockScraper struct {
	mock.Mock
}

func (m *mockScraper) Scrape(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// --- Batch Searcher Mock ---

type mockBatchSearcher struct {
	mock.Mock
}

func (m *mockBatchSearcher) SearchBatch(ctx context.Context, reqs []search.Request) map[string]search.Response {
	args := m.Called(ctx, reqs)
	return args.Get(0).(map[string]search.Response)
}

// fakeSearcher answers from a fixed table and records every query. Unknown
// queries return an empty result set.
type fakeSearcher struct {
	mu        sync.Mutex
	responses map[string]search.Response
	calls     []string
}

func newFakeSearcher(responses map[string]search.Response) *fakeSearcher {
	if responses == nil {
		responses = map[string]search.Response{}
	}
	return &fakeSearcher{responses: responses}
}

func (f *fakeSearcher) Search(_ context.Context, query, _ string, _ int) search.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, query)
	if resp, ok := f.responses[query]; ok {
		resp.Query = query
		return resp
	}
	return search.Response{Query: query, Results: []model.SearchResult{}}
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
