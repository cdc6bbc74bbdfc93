// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// fakeAdapter returns canned hits after an optional delay and counts calls.
// A stubborn adapter ignores its context while sleeping.
type fakeAdapter struct {
	id       string
	payloads []string
	schema   engine.Schema
	err      error
	delay    time.Duration
	stubborn bool
	panics   bool
	calls    atomic.Int32
}

func (f *fakeAdapter) ID() string { return f.id }

func (f *fakeAdapter) Search(ctx context.Context, _ types.Query) ([]engine.RawHit, error) {
	f.calls.Add(1)
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		if f.stubborn {
			time.Sleep(f.delay)
		} else {
			select {
			case <-ctx.Done():
				return nil, engine.AsFailure(f.id, ctx.Err())
			case <-time.After(f.delay):
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	schema := f.schema
	if schema == "" {
		schema = engine.SchemaCrossref
	}
	hits := make([]engine.RawHit, len(f.payloads))
	for i, p := range f.payloads {
		hits[i] = engine.RawHit{Engine: f.id, Schema: schema, Payload: []byte(p)}
	}
	return hits, nil
}

func notFound(id string) *fakeAdapter {
	return &fakeAdapter{id: id, err: engine.NotFound(id)}
}

func entry(a *fakeAdapter, tier int, ts ...types.ReferenceType) engine.Entry {
	return engine.Entry{Descriptor: engine.Descriptor{ID: a.id, Tier: tier, Types: ts}, Adapter: a}
}

func newResolver(t *testing.T, opts []Option, entries ...engine.Entry) *Resolver {
	t.Helper()
	reg, err := engine.NewRegistry(entries...)
	require.NoError(t, err)
	cfg := types.DefaultResolverConfig()
	cfg.TierTimeout = 2 * time.Second
	r, err := New(reg, cfg, opts...)
	require.NoError(t, err)
	return r
}

const deepLearning = `{
	"DOI": "10.1038/s41586-020-2000-0",
	"type": "journal-article",
	"title": ["Deep learning"],
	"author": [{"given": "J.", "family": "Smith"}],
	"container-title": ["Nature"],
	"volume": "580",
	"page": "123-456",
	"issued": {"date-parts": [[2020]]}
}`

// weakMatch shares the title words and year but not the author.
const weakMatch = `{
	"DOI": "10.1000/other",
	"type": "journal-article",
	"title": ["Deep learning in practice"],
	"author": [{"given": "K.", "family": "Brown"}],
	"container-title": ["Geoderma"],
	"issued": {"date-parts": [[2020]]}
}`

func TestResolveDOIMatchWithoutAI(t *testing.T) {
	crossref := &fakeAdapter{id: "crossref", payloads: []string{deepLearning}}
	openai := &fakeAdapter{id: "openai", payloads: []string{deepLearning}}
	claude := &fakeAdapter{id: "claude", payloads: []string{deepLearning}}

	fixed := WithScorer(func(types.Query, types.CanonicalMetadata) float64 { return 0.95 })
	r := newResolver(t, []Option{fixed},
		entry(crossref, 1, types.TypeJournal, types.TypeBook),
		entry(openai, 2, types.AllReferenceTypes...),
		entry(claude, 3, types.AllReferenceTypes...),
	)

	res, err := r.Resolve(context.Background(), types.RawCitation{
		Text: "Smith, J. (2020). Deep learning. Nature, 580, 123-456.",
	})
	require.NoError(t, err)

	assert.Equal(t, types.StatusResolved, res.Status)
	require.NotNil(t, res.Best)
	assert.Equal(t, "10.1038/s41586-020-2000-0", res.Best.Identifiers.DOI)
	assert.Equal(t, 0.95, res.Best.Confidence)
	assert.Equal(t, "crossref", res.Best.Source)
	assert.Equal(t, []int{1}, res.TiersSearched)
	assert.Equal(t, int32(0), openai.calls.Load())
	assert.Equal(t, int32(0), claude.calls.Load())
}

func TestResolveGibberishUnresolved(t *testing.T) {
	engines := []*fakeAdapter{notFound("crossref"), notFound("openlibrary"), notFound("openai"), notFound("gemini"), notFound("claude")}
	r := newResolver(t, nil,
		entry(engines[0], 1, types.TypeUnknown, types.TypeJournal),
		entry(engines[1], 1, types.TypeUnknown, types.TypeBook),
		entry(engines[2], 2, types.AllReferenceTypes...),
		entry(engines[3], 2, types.AllReferenceTypes...),
		entry(engines[4], 3, types.AllReferenceTypes...),
	)

	res, err := r.Resolve(context.Background(), types.RawCitation{Text: "some random unparseable gibberish xyz123"})
	require.NoError(t, err)

	assert.Equal(t, types.StatusUnresolved, res.Status)
	assert.Nil(t, res.Best)
	assert.Empty(t, res.Candidates)
	assert.Equal(t, []int{1, 2, 3}, res.TiersSearched)
	assert.Equal(t, []string{"crossref", "openlibrary", "openai", "gemini", "claude"}, res.EnginesAttempted())
	for _, a := range res.Attempts {
		assert.Equal(t, types.FailureNotFound, a.Failure, a.Engine)
	}
}

func TestResolveAmbiguousSearchesBothTypes(t *testing.T) {
	books := notFound("openlibrary")
	journals := notFound("openalex")
	legal := notFound("courtlistener")

	detector := WithDetector(func(string) []types.TypeScore {
		return []types.TypeScore{{Type: types.TypeBook, Score: 0.55}, {Type: types.TypeJournal, Score: 0.5}}
	})
	r := newResolver(t, []Option{detector},
		entry(books, 1, types.TypeBook),
		entry(journals, 1, types.TypeJournal),
		entry(legal, 1, types.TypeLegalCase),
	)

	res, err := r.Resolve(context.Background(), types.RawCitation{Text: "Review of Rawls, A Theory of Justice"})
	require.NoError(t, err)

	assert.Equal(t, []types.ReferenceType{types.TypeBook, types.TypeJournal}, res.SearchedTypes)
	assert.Equal(t, int32(1), books.calls.Load())
	assert.Equal(t, int32(1), journals.calls.Load())
	assert.Equal(t, int32(0), legal.calls.Load())
	assert.Equal(t, []string{"openlibrary", "openalex"}, res.EnginesAttempted())
}

func TestResolveTypeHintOverridesDetection(t *testing.T) {
	books := notFound("openlibrary")
	journals := notFound("openalex")
	r := newResolver(t, nil, entry(books, 1, types.TypeBook), entry(journals, 1, types.TypeJournal))

	res, err := r.Resolve(context.Background(), types.RawCitation{Text: "Smith (2020). Title. Journal of Things, 3(2), 1-9.", TypeHint: "book"})
	require.NoError(t, err)
	assert.Equal(t, []types.ReferenceType{types.TypeBook}, res.SearchedTypes)
	assert.Equal(t, int32(0), journals.calls.Load())
}

func TestResolveShortCircuitDoesNotWaitForSlowAdapters(t *testing.T) {
	fast := &fakeAdapter{id: "crossref", payloads: []string{deepLearning}}
	slow := &fakeAdapter{id: "semantic_scholar", payloads: []string{deepLearning}, delay: 3 * time.Second, stubborn: true}
	ai := &fakeAdapter{id: "openai", payloads: []string{deepLearning}}

	r := newResolver(t, nil,
		entry(slow, 1, types.TypeJournal),
		entry(fast, 1, types.TypeJournal),
		entry(ai, 2, types.TypeJournal),
	)

	start := time.Now()
	res, err := r.Resolve(context.Background(), types.RawCitation{
		Text: "Smith, J. (2020). Deep learning. Nature. doi:10.1038/s41586-020-2000-0",
	})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, res.ShortCircuited)
	assert.Equal(t, types.StatusResolved, res.Status)
	assert.Equal(t, 1.0, res.Best.Confidence)
	assert.Equal(t, int32(0), ai.calls.Load())

	require.Len(t, res.Attempts, 2)
	assert.Equal(t, "semantic_scholar", res.Attempts[0].Engine, "attempts keep registry order")
	assert.Equal(t, types.FailureTimeout, res.Attempts[0].Failure)
	assert.Empty(t, res.Attempts[1].Failure)
}

func TestResolveAttemptsOrderedByTierThenRegistration(t *testing.T) {
	late := &fakeAdapter{id: "openai", err: engine.NotFound("openai")}
	slow := &fakeAdapter{id: "crossref", err: engine.NotFound("crossref"), delay: 50 * time.Millisecond}
	fast := &fakeAdapter{id: "openalex", err: engine.NotFound("openalex")}

	r := newResolver(t, nil,
		entry(late, 2, types.AllReferenceTypes...),
		entry(slow, 1, types.AllReferenceTypes...),
		entry(fast, 1, types.AllReferenceTypes...),
	)

	res, err := r.Resolve(context.Background(), types.RawCitation{Text: "some random unparseable gibberish xyz123"})
	require.NoError(t, err)
	require.Len(t, res.Attempts, 3)
	assert.Equal(t, []string{"crossref", "openalex", "openai"}, res.EnginesAttempted())
	assert.Equal(t, []int{1, 1, 2}, []int{res.Attempts[0].Tier, res.Attempts[1].Tier, res.Attempts[2].Tier})
}

func TestResolveEscalatesAndCarriesBest(t *testing.T) {
	weak := &fakeAdapter{id: "crossref", payloads: []string{weakMatch}}
	strong := &fakeAdapter{id: "openai", payloads: []string{deepLearning}}
	never := &fakeAdapter{id: "claude", payloads: []string{deepLearning}}

	r := newResolver(t, nil,
		entry(weak, 1, types.TypeJournal, types.TypeBook),
		entry(strong, 2, types.TypeJournal, types.TypeBook),
		entry(never, 3, types.TypeJournal, types.TypeBook),
	)

	res, err := r.Resolve(context.Background(), types.RawCitation{Text: "Smith, J. (2020). Deep learning. Nature, 580, 123-456."})
	require.NoError(t, err)

	assert.Equal(t, types.StatusResolved, res.Status)
	assert.Equal(t, "openai", res.Best.Source)
	assert.Equal(t, []int{1, 2}, res.TiersSearched)
	assert.Equal(t, int32(0), never.calls.Load(), "no tier is queried once resolved")
	assert.Equal(t, int32(1), weak.calls.Load(), "tiers are never revisited")
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "crossref", res.Candidates[1].Source)
}

func TestResolveExhaustedReturnsLowConfidence(t *testing.T) {
	weak := &fakeAdapter{id: "crossref", payloads: []string{weakMatch}}
	r := newResolver(t, []Option{WithScorer(func(types.Query, types.CanonicalMetadata) float64 { return 0.4 })},
		entry(weak, 1, types.TypeJournal, types.TypeBook),
		entry(notFound("openai"), 2, types.TypeJournal, types.TypeBook),
	)

	res, err := r.Resolve(context.Background(), types.RawCitation{Text: "Smith, J. (2020). Deep learning. Nature, 580, 123-456."})
	require.NoError(t, err)

	assert.Equal(t, types.StatusLowConfidence, res.Status)
	require.NotNil(t, res.Best)
	assert.Equal(t, 0.4, res.Best.Confidence)
	assert.Equal(t, []int{1, 2}, res.TiersSearched)
}

func TestResolveDeterministic(t *testing.T) {
	build := func() *Resolver {
		return newResolver(t, nil,
			entry(&fakeAdapter{id: "crossref", payloads: []string{weakMatch, deepLearning}, delay: 20 * time.Millisecond}, 1, types.TypeJournal, types.TypeBook),
			entry(&fakeAdapter{id: "openalex", payloads: []string{weakMatch}, delay: 5 * time.Millisecond}, 1, types.TypeJournal),
			entry(&fakeAdapter{id: "openlibrary", err: engine.NotFound("openlibrary")}, 1, types.TypeBook),
		)
	}
	raw := types.RawCitation{Text: "Smith, J. (2019). Deep learning. Nature, 580, 123-456."}

	first, err := build().Resolve(context.Background(), raw)
	require.NoError(t, err)
	second, err := build().Resolve(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, first.ShortCircuited)
	require.NotNil(t, first.Best)
	assert.Equal(t, "10.1038/s41586-020-2000-0", first.Best.Identifiers.DOI)
	assert.Len(t, first.Candidates, 2, "duplicate works are collapsed")
}

func TestResolveAdapterTimeout(t *testing.T) {
	slow := &fakeAdapter{id: "pubmed", payloads: []string{deepLearning}, delay: time.Second}
	fast := notFound("crossref")

	slowEntry := entry(slow, 1, types.TypeJournal)
	slowEntry.Timeout = 30 * time.Millisecond
	r := newResolver(t, nil, slowEntry, entry(fast, 1, types.TypeJournal))

	res, err := r.Resolve(context.Background(), types.RawCitation{Text: "Smith (2020). Deep learning. Nature, 580, 123-456."})
	require.NoError(t, err)

	assert.Equal(t, types.StatusUnresolved, res.Status)
	require.Len(t, res.Attempts, 2)
	assert.Equal(t, types.FailureTimeout, res.Attempts[0].Failure)
	assert.Equal(t, types.FailureNotFound, res.Attempts[1].Failure)
}

func TestResolveAbsorbsAdapterFaults(t *testing.T) {
	r := newResolver(t, nil,
		entry(&fakeAdapter{id: "panicky", panics: true}, 1, types.TypeJournal),
		entry(&fakeAdapter{id: "broken", err: errors.New("connection refused")}, 1, types.TypeJournal),
		entry(&fakeAdapter{id: "empty"}, 1, types.TypeJournal),
		entry(&fakeAdapter{id: "garbage", payloads: []string{`{not json`, `{"title": []}`}}, 1, types.TypeJournal),
	)

	res, err := r.Resolve(context.Background(), types.RawCitation{Text: "Journal of Things, vol. 3"})
	require.NoError(t, err)
	assert.Equal(t, types.StatusUnresolved, res.Status)

	got := map[string]types.FailureKind{}
	for _, a := range res.Attempts {
		got[a.Engine] = a.Failure
	}
	assert.Equal(t, map[string]types.FailureKind{
		"panicky": types.FailureTransportError,
		"broken":  types.FailureTransportError,
		"empty":   types.FailureNotFound,
		"garbage": "",
	}, got)
	assert.Equal(t, 2, res.Attempts[3].Hits)
	assert.Zero(t, res.Attempts[3].Kept)
}

func TestResolveBlankInput(t *testing.T) {
	a := notFound("crossref")
	r := newResolver(t, nil, entry(a, 1, types.AllReferenceTypes...))

	res, err := r.Resolve(context.Background(), types.RawCitation{Text: "  "})
	require.NoError(t, err)
	assert.Equal(t, types.StatusUnresolved, res.Status)
	assert.Empty(t, res.Attempts)
	assert.Equal(t, []types.TypeScore{{Type: types.TypeUnknown, Score: 1}}, res.DetectedTypes)
	assert.Equal(t, int32(0), a.calls.Load())
}

func TestResolveCancelledContext(t *testing.T) {
	a := notFound("crossref")
	r := newResolver(t, nil, entry(a, 1, types.AllReferenceTypes...))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := r.Resolve(ctx, types.RawCitation{Text: "Deep learning"})
	require.NoError(t, err)
	assert.Equal(t, types.StatusUnresolved, res.Status)
	assert.Empty(t, res.TiersSearched)
}

func TestResolveConfigErrors(t *testing.T) {
	_, err := New(nil, types.DefaultResolverConfig())
	var ce *types.ConfigError
	require.ErrorAs(t, err, &ce)

	reg, err := engine.NewRegistry(entry(notFound("courtlistener"), 1, types.TypeLegalCase))
	require.NoError(t, err)

	bad := types.DefaultResolverConfig()
	bad.ShortCircuitThreshold = 0.5
	_, err = New(reg, bad)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "short_circuit_threshold", ce.Field)

	r, err := New(reg, types.DefaultResolverConfig())
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), types.RawCitation{Text: "Deep learning", TypeHint: "pamphlet"})
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "type", ce.Field)

	_, err = r.Resolve(context.Background(), types.RawCitation{Text: "Deep learning", TypeHint: "book"})
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, ErrNoTiers)
}
