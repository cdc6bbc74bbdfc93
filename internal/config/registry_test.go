// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cite-resolver/internal/ai"
	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/internal/secrets"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

func ids(es []engine.Entry) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}

func entryFor(t *testing.T, reg *engine.Registry, id string) engine.Entry {
	t.Helper()
	for _, e := range reg.Entries() {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("engine %q not registered", id)
	return engine.Entry{}
}

func build(t *testing.T, cfg types.ResolverConfig, sec secrets.Secrets) *Engines {
	t.Helper()
	engines, err := BuildRegistry(context.Background(), cfg, sec, nil)
	require.NoError(t, err)
	t.Cleanup(func() { engines.Close() })
	return engines
}

func TestBuildRegistryWithoutKeys(t *testing.T) {
	engines := build(t, types.DefaultResolverConfig(), nil)

	assert.Equal(t, []string{
		"crossref", "openalex", "semantic_scholar", "arxiv", "pubmed",
		"openlibrary", "google_books", "courtlistener", "wikipedia", "webpage",
	}, ids(engines.Registry.Entries()))

	for _, e := range engines.Registry.Entries() {
		assert.Equal(t, 1, e.Tier, e.ID)
		assert.False(t, e.AI, e.ID)
	}
	assert.Equal(t, []string{"crossref", "openalex", "openlibrary"},
		ids(engines.Registry.AdaptersFor(types.TypeUnknown)))
}

func TestBuildRegistryWithKeys(t *testing.T) {
	sec := secrets.Secrets{
		secrets.OpenAIKey:    "sk-test",
		secrets.AnthropicKey: "sk-ant-test",
	}
	engines := build(t, types.DefaultResolverConfig(), sec)
	reg := engines.Registry

	assert.Equal(t, []int{1, 2, 3}, reg.Tiers([]types.ReferenceType{types.TypeJournal}))

	openai := entryFor(t, reg, "openai")
	assert.Equal(t, 2, openai.Tier)
	assert.True(t, openai.AI)
	assert.Equal(t, 20*time.Second, openai.Timeout)
	assert.ElementsMatch(t, types.AllReferenceTypes, openai.Types)

	claude := entryFor(t, reg, "claude")
	assert.Equal(t, 3, claude.Tier)
	assert.Equal(t, 30*time.Second, claude.Timeout)

	assert.NotContains(t, ids(reg.Entries()), "gemini")

	a, ok := openai.Adapter.(*ai.Adapter)
	require.True(t, ok)
	require.NotNil(t, engines.Costs)
	assert.Same(t, engines.Costs, a.Costs)
	assert.NotNil(t, a.Log)
}

func TestBuildRegistryOverrides(t *testing.T) {
	off := false
	tier := 2
	cfg := types.DefaultResolverConfig()
	cfg.Engines = []types.EngineConfig{
		{ID: "arxiv", Enabled: &off},
		{ID: "openalex", Tier: &tier, Types: []string{"book", "case"}, Timeout: 3 * time.Second},
		{ID: "crossref", RateLimit: 5, Burst: 2, CacheSize: 16},
	}
	reg := build(t, cfg, nil).Registry

	assert.NotContains(t, ids(reg.Entries()), "arxiv")

	openalex := entryFor(t, reg, "openalex")
	assert.Equal(t, 2, openalex.Tier)
	assert.Equal(t, []types.ReferenceType{types.TypeBook, types.TypeLegalCase}, openalex.Types)
	assert.Equal(t, 3*time.Second, openalex.Timeout)

	crossref := entryFor(t, reg, "crossref")
	assert.Equal(t, "crossref", crossref.Adapter.ID())
}

func TestBuildRegistryErrors(t *testing.T) {
	tests := []struct {
		name   string
		engine types.EngineConfig
		field  string
	}{
		{"unknown engine", types.EngineConfig{ID: "bing"}, "engines"},
		{"unknown type", types.EngineConfig{ID: "crossref", Types: []string{"pamphlet"}}, "engines.crossref.types"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.DefaultResolverConfig()
			cfg.Engines = []types.EngineConfig{tt.engine}
			_, err := BuildRegistry(context.Background(), cfg, nil, nil)
			var cerr *types.ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestBuildRegistryCatalog(t *testing.T) {
	cfg := types.DefaultResolverConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog.db")
	engines := build(t, cfg, nil)

	first := engines.Registry.Entries()[0]
	assert.Equal(t, "catalog", first.ID)
	assert.Equal(t, 0, first.Tier)
	assert.Equal(t, 2*time.Second, first.Timeout)
	assert.NotContains(t, first.Types, types.TypeWebPage)

	require.NoError(t, engines.Close())
	assert.NoError(t, engines.Close())
}

func TestEngineIDs(t *testing.T) {
	all := EngineIDs()
	assert.Equal(t, "catalog", all[0])
	assert.Contains(t, all, "courtlistener")
	assert.Contains(t, all, "gemini")
	assert.Contains(t, all, "wikipedia")
	assert.Len(t, all, 14)
}
