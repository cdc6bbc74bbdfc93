// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/cite-resolver/internal/ai"
	"github.com/pdiddy/cite-resolver/internal/catalog"
	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/internal/logger"
	"github.com/pdiddy/cite-resolver/internal/search"
	"github.com/pdiddy/cite-resolver/internal/secrets"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// engineDefault is the default registration of one engine.
type engineDefault struct {
	id      string
	tier    int
	types   []types.ReferenceType
	timeout time.Duration
	rps     float64
	burst   int
	cache   int
	ai      bool
}

var (
	scholarly = []types.ReferenceType{types.TypeJournal}
	books     = []types.ReferenceType{types.TypeBook}
)

// defaultEngines is the registry in cost order. Free sources sit in tier
// 1, the cheaper AI models in tier 2 and the expensive one in tier 3. The
// catalog is added in front when a catalog path is configured.
var defaultEngines = []engineDefault{
	{id: "crossref", tier: 1, types: []types.ReferenceType{types.TypeJournal, types.TypeBook, types.TypeUnknown}, timeout: 8 * time.Second, cache: 256},
	{id: "openalex", tier: 1, types: []types.ReferenceType{types.TypeJournal, types.TypeUnknown}, timeout: 8 * time.Second},
	{id: "semantic_scholar", tier: 1, types: scholarly, timeout: 8 * time.Second, rps: 1, burst: 1},
	{id: "arxiv", tier: 1, types: scholarly, timeout: 8 * time.Second, rps: 1.0 / 3, burst: 1},
	{id: "pubmed", tier: 1, types: scholarly, timeout: 8 * time.Second, rps: 3, burst: 3},
	{id: "openlibrary", tier: 1, types: []types.ReferenceType{types.TypeBook, types.TypeUnknown}, timeout: 8 * time.Second},
	{id: "google_books", tier: 1, types: books, timeout: 8 * time.Second},
	{id: "courtlistener", tier: 1, types: []types.ReferenceType{types.TypeLegalCase}, timeout: 10 * time.Second, rps: 1, burst: 2, cache: 256},
	{id: "wikipedia", tier: 1, types: []types.ReferenceType{types.TypeWebPage}, timeout: 8 * time.Second},
	{id: "webpage", tier: 1, types: []types.ReferenceType{types.TypeWebPage, types.TypeNewspaper}, timeout: 8 * time.Second},
	{id: "openai", tier: 2, types: types.AllReferenceTypes, timeout: 20 * time.Second, ai: true},
	{id: "gemini", tier: 2, types: types.AllReferenceTypes, timeout: 20 * time.Second, ai: true},
	{id: "claude", tier: 3, types: types.AllReferenceTypes, timeout: 30 * time.Second, ai: true},
}

var catalogEngine = engineDefault{
	id:      catalog.EngineID,
	tier:    0,
	types:   []types.ReferenceType{types.TypeJournal, types.TypeBook, types.TypeLegalCase},
	timeout: 2 * time.Second,
}

// EngineIDs lists every engine id that can be configured.
func EngineIDs() []string {
	ids := []string{catalogEngine.id}
	for _, s := range defaultEngines {
		ids = append(ids, s.id)
	}
	return ids
}

// Engines is the assembled registry and the resources its adapters hold.
// Costs accumulates token usage of the AI engines.
type Engines struct {
	Registry *engine.Registry
	Costs    *ai.CostTracker
	log      logger.Logger
	closers  []io.Closer
}

// Close releases the catalog database and AI clients.
func (e *Engines) Close() error {
	var errs []error
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// BuildRegistry assembles the engine registry from cfg. Engines that need
// an API key are skipped when the key is missing; engine overrides in cfg
// may disable, re-tier, retype, retime, rate limit or cache any engine.
func BuildRegistry(ctx context.Context, cfg types.ResolverConfig, sec secrets.Secrets, log logger.Logger) (*Engines, error) {
	if log == nil {
		log = logger.Discard()
	}
	overrides, err := overridesByID(cfg.Engines)
	if err != nil {
		return nil, err
	}

	client := search.NewClient(cfg.HTTP)
	if client.Email == "" {
		client.Email = sec.Get(secrets.ContactEmail)
	}

	defs := defaultEngines
	if cfg.CatalogPath != "" {
		defs = append([]engineDefault{catalogEngine}, defaultEngines...)
	}

	out := &Engines{Costs: ai.NewCostTracker(), log: log}
	var entries []engine.Entry
	for _, def := range defs {
		o, ok := overrides[def.id]
		if ok && o.Enabled != nil && !*o.Enabled {
			log.Debug("engine disabled", "engine", def.id)
			continue
		}
		if ok {
			if def, err = applyOverride(def, o); err != nil {
				out.Close()
				return nil, err
			}
		}

		a, err := out.adapter(ctx, def.id, cfg, client, sec)
		if err != nil {
			out.Close()
			return nil, err
		}
		if a == nil {
			log.Debug("engine skipped, no credentials", "engine", def.id)
			continue
		}
		if def.rps > 0 {
			a = engine.RateLimited(a, def.rps, max(def.burst, 1))
		}
		if def.cache > 0 {
			if a, err = engine.Cached(a, def.cache); err != nil {
				out.Close()
				return nil, &types.ConfigError{Field: "engines." + def.id + ".cache_size", Err: err}
			}
		}

		entries = append(entries, engine.Entry{
			Descriptor: engine.Descriptor{
				ID:      def.id,
				Tier:    def.tier,
				Types:   def.types,
				Timeout: def.timeout,
				AI:      def.ai,
			},
			Adapter: a,
		})
	}

	reg, err := engine.NewRegistry(entries...)
	if err != nil {
		out.Close()
		return nil, &types.ConfigError{Field: "engines", Err: err}
	}
	out.Registry = reg
	log.Debug("registry built", "engines", reg.Len())
	return out, nil
}

func overridesByID(cfgs []types.EngineConfig) (map[string]types.EngineConfig, error) {
	known := make(map[string]bool)
	for _, id := range EngineIDs() {
		known[id] = true
	}
	out := make(map[string]types.EngineConfig, len(cfgs))
	for _, c := range cfgs {
		if !known[c.ID] {
			return nil, &types.ConfigError{Field: "engines", Err: fmt.Errorf("unknown engine %q", c.ID)}
		}
		out[c.ID] = c
	}
	return out, nil
}

func applyOverride(def engineDefault, o types.EngineConfig) (engineDefault, error) {
	if o.Tier != nil {
		def.tier = *o.Tier
	}
	if len(o.Types) > 0 {
		ts := make([]types.ReferenceType, 0, len(o.Types))
		for _, s := range o.Types {
			t, err := types.ParseReferenceType(s)
			if err != nil {
				return def, &types.ConfigError{Field: "engines." + def.id + ".types", Err: err}
			}
			ts = append(ts, t)
		}
		def.types = ts
	}
	if o.Timeout > 0 {
		def.timeout = o.Timeout
	}
	if o.RateLimit > 0 {
		def.rps = o.RateLimit
	}
	if o.Burst > 0 {
		def.burst = o.Burst
	}
	if o.CacheSize > 0 {
		def.cache = o.CacheSize
	}
	return def, nil
}

// adapter constructs the adapter for id. It returns nil, nil when the
// engine needs a key that is not configured.
func (e *Engines) adapter(ctx context.Context, id string, cfg types.ResolverConfig, client *search.Client, sec secrets.Secrets) (engine.Adapter, error) {
	switch id {
	case catalog.EngineID:
		store, err := catalog.Open(cfg.CatalogPath)
		if err != nil {
			return nil, &types.ConfigError{Field: "catalog_path", Err: err}
		}
		e.closers = append(e.closers, store)
		return catalog.NewAdapter(store), nil
	case "crossref":
		return &search.Crossref{Client: client}, nil
	case "openalex":
		return &search.OpenAlex{Client: client}, nil
	case "semantic_scholar":
		return &search.SemanticScholar{Client: client, APIKey: sec.Get(secrets.SemanticScholarKey)}, nil
	case "arxiv":
		return &search.Arxiv{Client: client}, nil
	case "pubmed":
		return &search.PubMed{Client: client, APIKey: sec.Get(secrets.NCBIKey)}, nil
	case "openlibrary":
		return &search.OpenLibrary{Client: client}, nil
	case "google_books":
		return &search.GoogleBooks{Client: client, APIKey: sec.Get(secrets.GoogleBooksKey)}, nil
	case "courtlistener":
		return &search.CourtListener{Client: client, Token: sec.Get(secrets.CourtListenerToken)}, nil
	case "wikipedia":
		return &search.Wikipedia{Client: client}, nil
	case "webpage":
		return &search.WebPage{Client: client}, nil
	case "openai":
		key := sec.Get(secrets.OpenAIKey)
		if key == "" {
			return nil, nil
		}
		c := ai.NewOpenAI(key, cfg.AI.OpenAIModel, "", cfg.AI.MaxTokens)
		return e.aiAdapter(id, c, cfg), nil
	case "gemini":
		key := sec.Get(secrets.GeminiKey)
		if key == "" {
			return nil, nil
		}
		c, err := ai.NewGemini(ctx, key, cfg.AI.GeminiModel, cfg.AI.MaxTokens)
		if err != nil {
			return nil, fmt.Errorf("creating gemini client: %w", err)
		}
		e.closers = append(e.closers, c)
		return e.aiAdapter(id, c, cfg), nil
	case "claude":
		key := sec.Get(secrets.AnthropicKey)
		if key == "" {
			return nil, nil
		}
		c := ai.NewClaude(key, cfg.AI.ClaudeModel, "", cfg.AI.MaxTokens)
		return e.aiAdapter(id, c, cfg), nil
	}
	return nil, &types.ConfigError{Field: "engines", Err: fmt.Errorf("unknown engine %q", id)}
}

func (e *Engines) aiAdapter(id string, c ai.Completer, cfg types.ResolverConfig) *ai.Adapter {
	a := ai.NewAdapter(id, c, cfg.AI.MaxRetries)
	a.Costs = e.Costs
	if e.log != nil {
		a.Log = e.log
	}
	return a
}
