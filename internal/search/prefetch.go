package search

import "context"

// Prefetched answers queries from responses fetched ahead of time by
// SearchBatch and falls back to next for anything it does not hold.
type Prefetched struct {
	responses map[string]Response
	next      Searcher
}

// NewPrefetched wraps the responses of a SearchBatch call.
func NewPrefetched(responses map[string]Response, next Searcher) *Prefetched {
	return &Prefetched{responses: responses, next: next}
}

// Search implements Searcher.
func (p *Prefetched) Search(ctx context.Context, query, country string, num int) Response {
	if resp, ok := p.responses[query]; ok {
		return resp
	}
	return p.next.Search(ctx, query, country, num)
}
