package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/probe"
	"github.com/sells-group/lead-enricher/internal/search"
	"github.com/sells-group/lead-enricher/internal/similarity"
)

func newTestResolver(s *mockSearcher, p *mockProber, minConfidence float64) *Resolver {
	return NewResolver(s, p, similarity.TokenSort{}, Config{MinConfidence: minConfidence, CompanyResults: 10})
}

func results(rs ...model.SearchResult) search.Response {
	return search.Response{Results: rs}
}

func TestResolve_GenericCompanyShortCircuits(t *testing.T) {
	for _, name := range []string{"self-employed", "Freelancer", " Selbstständig ", "privat"} {
		t.Run(name, func(t *testing.T) {
			s := &mockSearcher{}
			p := &mockProber{}
			in := NewInput(model.Lead{model.FieldCompanyName: name, model.FieldWorkEmail: "a@b-gmbh.de"}, "DE")

			out := newTestResolver(s, p, 0.8).Resolve(context.Background(), in)

			assert.Equal(t, NoteGenericCompany, out.Notes)
			assert.Empty(t, out.Website)
			assert.Zero(t, out.Confidence)
			s.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			p.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything)
		})
	}
}

func TestResolve_DirectProbe(t *testing.T) {
	s := &mockSearcher{}
	p := &mockProber{}
	p.On("Probe", mock.Anything, "reha360.de").Return(probe.Result{FinalURL: "https://reha360.de/", OK: true})

	in := NewInput(model.Lead{model.FieldCompanyName: "Reha360", model.FieldWorkEmail: "office@reha360.de"}, "DE")
	out := newTestResolver(s, p, 0.8).Resolve(context.Background(), in)

	assert.Equal(t, "https://reha360.de/", out.Website)
	assert.Equal(t, 0.9, out.Confidence)
	assert.Empty(t, out.Notes)
	assert.Equal(t, StrategyDirectProbe, out.Strategy)
	s.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_DirectProbeBypassesBanding(t *testing.T) {
	p := &mockProber{}
	p.On("Probe", mock.Anything, "reha360.de").Return(probe.Result{OK: true})

	in := NewInput(model.Lead{model.FieldCompanyName: "Reha360", model.FieldWorkEmail: "office@reha360.de"}, "DE")
	out := newTestResolver(&mockSearcher{}, p, 0.95).Resolve(context.Background(), in)

	assert.Equal(t, "https://reha360.de/", out.Website)
	assert.Equal(t, 0.9, out.Confidence)
	assert.Empty(t, out.Notes)
}

func TestResolve_EmailSearch(t *testing.T) {
	s := &mockSearcher{}
	p := &mockProber{}
	p.On("Probe", mock.Anything, "reha360.de").Return(probe.Result{})
	s.On("Search", mock.Anything, `"office@reha360.de"`, "DE", 10).Return(results(
		model.SearchResult{URL: "https://www.linkedin.com/company/reha360.de"},
		model.SearchResult{URL: "https://verzeichnis.de/reha360"},
		model.SearchResult{URL: "https://www.reha360.de/impressum", Title: "Impressum"},
	))

	in := NewInput(model.Lead{model.FieldCompanyName: "Reha360", model.FieldWorkEmail: "office@reha360.de"}, "DE")
	out := newTestResolver(s, p, 0.8).Resolve(context.Background(), in)

	assert.Equal(t, "https://www.reha360.de/impressum", out.Website)
	assert.Equal(t, 0.9, out.Confidence)
	assert.Equal(t, StrategyEmailSearch, out.Strategy)
	assert.Empty(t, out.Notes)
	s.AssertNumberOfCalls(t, "Search", 1)
}

func TestResolve_CompanySearchAfterOwnershipFails(t *testing.T) {
	newMocks := func(snippet string) (*mockSearcher, *mockProber) {
		s := &mockSearcher{}
		p := &mockProber{}
		p.On("Probe", mock.Anything, "reha360.de").Return(probe.Result{})
		s.On("Search", mock.Anything, `"office@reha360.de"`, "DE", 10).Return(search.Response{Err: errors.New("timeout")})
		s.On("Search", mock.Anything, `"Reha360"`, "DE", 10).Return(results(
			model.SearchResult{URL: "https://de.wikipedia.org/wiki/Reha", Title: "Reha360"},
			model.SearchResult{URL: "https://reha360.de/", Title: "Reha360 GmbH", Snippet: snippet},
			model.SearchResult{URL: "https://other.de/", Title: "Something else"},
		))
		return s, p
	}

	t.Run("medium without phone", func(t *testing.T) {
		s, p := newMocks("")
		in := NewInput(model.Lead{model.FieldCompanyName: "Reha360", model.FieldWorkEmail: "office@reha360.de"}, "DE")
		out := newTestResolver(s, p, 0.8).Resolve(context.Background(), in)

		sim := similarity.TokenSort{}.Similarity("Reha360", "Reha360 GmbH")
		assert.Equal(t, "https://reha360.de/", out.Website)
		assert.InDelta(t, 0.5+0.25*sim, out.Confidence, 1e-9)
		assert.Equal(t, StrategyCompanySearch, out.Strategy)
		assert.Equal(t, "Medium confidence. Candidates: https://reha360.de/, https://other.de/", out.Notes)
	})

	t.Run("high with phone", func(t *testing.T) {
		s, p := newMocks("Tel. +49 30 123 456")
		lead := model.Lead{
			model.FieldCompanyName: "Reha360",
			model.FieldWorkEmail:   "office@reha360.de",
			model.FieldWorkPhone:   "+49-30-123456",
		}
		out := newTestResolver(s, p, 0.8).Resolve(context.Background(), NewInput(lead, "DE"))

		assert.Equal(t, "https://reha360.de/", out.Website)
		assert.GreaterOrEqual(t, out.Confidence, 0.8)
		assert.Empty(t, out.Notes)
	})
}

func TestResolve_NoResults(t *testing.T) {
	s := &mockSearcher{}
	p := &mockProber{}
	s.On("Search", mock.Anything, `"Acme"`, "DE", 10).Return(results())

	in := NewInput(model.Lead{model.FieldCompanyName: "Acme", model.FieldWorkEmail: "acme@gmail.com"}, "DE")
	out := newTestResolver(s, p, 0.8).Resolve(context.Background(), in)

	assert.Empty(t, out.Website)
	assert.Zero(t, out.Confidence)
	assert.Equal(t, NoteNoResults, out.Notes)
	p.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything)
}

func TestResolve_OnlyBlockedResults(t *testing.T) {
	s := &mockSearcher{}
	s.On("Search", mock.Anything, `"Acme"`, "DE", 10).Return(results(
		model.SearchResult{URL: "https://www.facebook.com/acme", Title: "Acme"},
		model.SearchResult{URL: "https://www.youtube.com/@acme", Title: "Acme"},
	))

	in := NewInput(model.Lead{model.FieldCompanyName: "Acme", model.FieldWorkEmail: "acme@gmail.com"}, "DE")
	out := newTestResolver(s, &mockProber{}, 0.8).Resolve(context.Background(), in)

	assert.Empty(t, out.Website)
	assert.Zero(t, out.Confidence)
	assert.Equal(t, "Low confidence match (0.00). Manual review needed.", out.Notes)
}

func TestResolve_LowConfidence(t *testing.T) {
	s := &mockSearcher{}
	s.On("Search", mock.Anything, `"Acme"`, "DE", 10).Return(results(
		model.SearchResult{URL: "https://acme-tools.com/", Title: "Acme Tools"},
	))

	in := NewInput(model.Lead{model.FieldCompanyName: "Acme", model.FieldWorkEmail: "acme@gmail.com"}, "DE")
	out := newTestResolver(s, &mockProber{}, 0.8).Resolve(context.Background(), in)

	assert.Equal(t, "https://acme-tools.com/", out.Website)
	assert.Less(t, out.Confidence, 0.5)
	assert.Regexp(t, `^Low confidence match \(0\.\d\d\)\. Manual review needed\.$`, out.Notes)
}

func TestResolve_ZeroThresholdAcceptsAnyMatch(t *testing.T) {
	s := &mockSearcher{}
	s.On("Search", mock.Anything, `"Acme"`, "DE", 10).Return(results(
		model.SearchResult{URL: "https://acme-tools.com/", Title: "Acme Tools"},
	))

	r := newTestResolver(s, &mockProber{}, 0)
	assert.Zero(t, r.MinConfidence())

	in := NewInput(model.Lead{model.FieldCompanyName: "Acme", model.FieldWorkEmail: "acme@gmail.com"}, "DE")
	out := r.Resolve(context.Background(), in)
	assert.Equal(t, "https://acme-tools.com/", out.Website)
	assert.Less(t, out.Confidence, 0.5)
	assert.Empty(t, out.Notes)
}

func TestNewChain_Threshold(t *testing.T) {
	assert.Zero(t, NewChain(0).MinConfidence())
	assert.Equal(t, 0.65, NewChain(0.65).MinConfidence())
	assert.Equal(t, DefaultMinConfidence, NewChain(-1).MinConfidence())
}

func TestResolve_SearchError(t *testing.T) {
	s := &mockSearcher{}
	s.On("Search", mock.Anything, `"Acme"`, "DE", 10).Return(search.Response{Err: errors.New("brightdata: api key not configured")})

	in := NewInput(model.Lead{model.FieldCompanyName: "Acme"}, "DE")
	out := newTestResolver(s, &mockProber{}, 0.8).Resolve(context.Background(), in)

	assert.Empty(t, out.Website)
	assert.Zero(t, out.Confidence)
	assert.Equal(t, "Search error: brightdata: api key not configured", out.Notes)
}

func TestResolve_EmptyCompanyName(t *testing.T) {
	s := &mockSearcher{}
	p := &mockProber{}
	p.On("Probe", mock.Anything, "acme.de").Return(probe.Result{})
	s.On("Search", mock.Anything, `"info@acme.de"`, "DE", 10).Return(results())

	in := NewInput(model.Lead{model.FieldWorkEmail: "info@acme.de"}, "DE")
	out := newTestResolver(s, p, 0.8).Resolve(context.Background(), in)

	assert.Empty(t, out.Website)
	assert.Zero(t, out.Confidence)
	assert.Empty(t, out.Notes)
	assert.Empty(t, out.Strategy)
	s.AssertNumberOfCalls(t, "Search", 1)
}

func TestResolve_IdentityAmbiguity(t *testing.T) {
	s := &mockSearcher{}
	s.On("Search", mock.Anything, `"Mina GmbH"`, "DE", 10).Return(results(
		model.SearchResult{URL: "https://mina.de/", Title: "Mina GmbH"},
	))
	lead := model.Lead{
		model.FieldCompanyName: "Mina GmbH",
		model.FieldFullName:    "Mina",
		model.FieldWorkEmail:   "mina@gmx.de",
	}

	// With a threshold below the generic-email ceiling the banding guards
	// stay silent and the identity guard applies.
	out := newTestResolver(s, &mockProber{}, 0.2).Resolve(context.Background(), NewInput(lead, "DE"))
	assert.Equal(t, NoteIdentityAmbiguity, out.Notes)

	// At the default threshold the low-confidence note was set first.
	out = newTestResolver(s, &mockProber{}, 0.8).Resolve(context.Background(), NewInput(lead, "DE"))
	assert.Contains(t, out.Notes, "Low confidence match")
}

func TestRankCandidates_StableTies(t *testing.T) {
	in := NewInput(model.Lead{model.FieldCompanyName: "Zeta"}, "DE")
	got := RankCandidates(in, []model.SearchResult{
		{URL: "https://a.de/", Title: "nothing"},
		{URL: "https://b.de/", Title: "nothing"},
		{URL: "https://zeta.de/", Title: "Zeta"},
		{URL: "https://c.de/", Title: "nothing"},
		{URL: ""},
	}, similarity.TokenSort{})

	require.Len(t, got, 4)
	assert.Equal(t, "https://zeta.de/", got[0].URL)
	assert.Equal(t, []string{"https://a.de/", "https://b.de/", "https://c.de/"},
		[]string{got[1].URL, got[2].URL, got[3].URL})
}

func TestScoreWebsiteMatch(t *testing.T) {
	scorer := similarity.TokenSort{}
	base := model.Lead{model.FieldCompanyName: "Reha360", model.FieldWorkEmail: "office@reha360.de"}

	t.Run("email domain", func(t *testing.T) {
		score := ScoreWebsiteMatch(NewInput(base, "DE"), model.SearchResult{URL: "https://reha360.de", Title: "Reha360"}, scorer)
		assert.GreaterOrEqual(t, score, 0.5)
	})

	t.Run("generic email earns no bonus", func(t *testing.T) {
		lead := model.Lead{model.FieldCompanyName: "Test", model.FieldWorkEmail: "user@gmail.com"}
		score := ScoreWebsiteMatch(NewInput(lead, "DE"), model.SearchResult{URL: "https://gmail.com", Title: "Test"}, scorer)
		assert.Less(t, score, 0.5)
	})

	t.Run("phone in snippet", func(t *testing.T) {
		lead := model.Lead{model.FieldCompanyName: "Test", model.FieldWorkPhone: "+49-123-456"}
		score := ScoreWebsiteMatch(NewInput(lead, "DE"), model.SearchResult{URL: "https://x.com", Snippet: "Call us at 49123456"}, scorer)
		assert.InDelta(t, 0.15, score, 1e-9)
	})

	t.Run("empty phone never matches", func(t *testing.T) {
		lead := model.Lead{model.FieldCompanyName: "Test"}
		score := ScoreWebsiteMatch(NewInput(lead, "DE"), model.SearchResult{URL: "https://x.com", Snippet: "12345"}, scorer)
		assert.Zero(t, score)
	})

	t.Run("monotonic and bounded", func(t *testing.T) {
		lead := model.Lead{model.FieldCompanyName: "Reha360", model.FieldWorkEmail: "office@reha360.de", model.FieldWorkPhone: "030 1234"}
		in := NewInput(lead, "DE")
		none := ScoreWebsiteMatch(in, model.SearchResult{URL: "https://x.de"}, scorer)
		title := ScoreWebsiteMatch(in, model.SearchResult{URL: "https://x.de", Title: "Reha360"}, scorer)
		domain := ScoreWebsiteMatch(in, model.SearchResult{URL: "https://reha360.de", Title: "Reha360"}, scorer)
		all := ScoreWebsiteMatch(in, model.SearchResult{URL: "https://reha360.de", Title: "Reha360", Snippet: "030-1234"}, scorer)

		assert.Less(t, none, title)
		assert.Less(t, title, domain)
		assert.Less(t, domain, all)
		assert.LessOrEqual(t, all, 1.0)
		assert.GreaterOrEqual(t, none, 0.0)
	})
}

func TestBand_Partition(t *testing.T) {
	for _, c := range []float64{0, 0.1, 0.49999, 0.5, 0.6, 0.79999, 0.8, 0.9, 1} {
		b := Band(c, 0.8)
		switch {
		case c >= 0.8:
			assert.Equal(t, BandHigh, b, c)
		case c >= 0.5:
			assert.Equal(t, BandMedium, b, c)
		default:
			assert.Equal(t, BandLow, b, c)
		}
	}
	assert.Equal(t, "medium", BandMedium.String())
}

func TestPersonEqualsCompany(t *testing.T) {
	assert.True(t, PersonEqualsCompany("Mina", "Mina"))
	assert.True(t, PersonEqualsCompany("Mina", "Mina GmbH"))
	assert.True(t, PersonEqualsCompany("Anna Berg Consulting", "anna berg"))
	assert.False(t, PersonEqualsCompany("Sven Haubert", "Reha360"))
	assert.False(t, PersonEqualsCompany("", "Company"))
	assert.False(t, PersonEqualsCompany("Mina", ""))
}

func TestNewInput(t *testing.T) {
	in := NewInput(model.Lead{
		model.FieldCompanyName: "Acme",
		model.FieldWorkEmail:   "Max@GMX.de",
		model.FieldWorkPhone:   "+41 44 123",
	}, "CH")

	assert.Equal(t, "gmx.de", in.EmailDomain)
	assert.True(t, in.GenericEmail)
	assert.Equal(t, "4144123", in.Phone)
	_, owned := in.CompanyEmailDomain()
	assert.False(t, owned)
}
