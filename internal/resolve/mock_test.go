package resolve

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/lead-enricher/internal/probe"
	"github.com/sells-group/lead-enricher/internal/search"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, query, country string, num int) search.Response {
	args := m.Called(ctx, query, country, num)
	return args.Get(0).(search.Response)
}

type mockProber struct {
	mock.Mock
}

func (m *mockProber) Probe(ctx context.Context, domain string) probe.Result {
	args := m.Called(ctx, domain)
	return args.Get(0).(probe.Result)
}
