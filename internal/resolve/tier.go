// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/internal/normalize"
	"github.com/pdiddy/cite-resolver/internal/score"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// candidate is a scored record with the keys that make ranking
// independent of arrival order.
type candidate struct {
	meta  types.CanonicalMetadata
	tier  int
	order int
	index int
}

// attemptRecord carries the registry order alongside the public attempt.
type attemptRecord struct {
	types.Attempt
	order int
}

// outcome is what one adapter call produced.
type outcome struct {
	entry engine.Entry
	hits  []engine.RawHit
	err   *engine.Failure
}

// searchTier invokes every adapter in tier for the query's types with
// bounded concurrency. It returns when all calls have finished or timed
// out, or as soon as a hit short-circuits the tier.
func (r *Resolver) searchTier(ctx context.Context, st *run, tier int) {
	entries := r.registry.InTier(tier, st.query.Types)
	st.searched = append(st.searched, tier)
	st.log.Info("searching tier", "tier", tier, "engines", len(entries))

	tierCtx, cancel := context.WithTimeout(ctx, r.cfg.TierTimeout)
	defer cancel()

	results := make(chan outcome, len(entries))
	go func() {
		var g errgroup.Group
		g.SetLimit(r.cfg.MaxConcurrency)
		for _, e := range entries {
			g.Go(func() error {
				results <- call(tierCtx, e, st.query)
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	for out := range results {
		att := attemptRecord{
			Attempt: types.Attempt{Engine: out.entry.ID, Tier: tier, Hits: len(out.hits)},
			order:   out.entry.Order,
		}
		if out.err != nil {
			att.Failure = out.err.Kind
			att.Message = out.err.Error()
			st.log.Debug("engine failed", "engine", out.entry.ID, "kind", out.err.Kind, "error", out.err.Err)
			st.attempts = append(st.attempts, att)
			continue
		}

		exact := false
		for i, h := range out.hits {
			meta, ok := r.normalizer.Normalize(h)
			if !ok {
				continue
			}
			meta.Confidence = r.score(st.query, meta)
			att.Kept++
			st.pool = append(st.pool, candidate{meta: meta, tier: tier, order: out.entry.Order, index: i})
			if score.ExactMatch(st.query, meta) || meta.Confidence >= r.cfg.ShortCircuitThreshold {
				exact = true
			}
		}
		st.log.Debug("engine answered", "engine", out.entry.ID, "hits", att.Hits, "kept", att.Kept)
		st.attempts = append(st.attempts, att)

		if exact && !st.shortCirc {
			st.shortCirc = true
			st.log.Info("short-circuit", "tier", tier, "engine", out.entry.ID)
			cancel()
		}
	}
}

// call runs one adapter under its own timeout. It returns when the
// adapter does or when ctx ends, whichever is first, so a slow adapter
// that ignores its deadline cannot hold the tier open.
func call(ctx context.Context, e engine.Entry, q types.Query) outcome {
	if err := ctx.Err(); err != nil {
		return outcome{entry: e, err: engine.AsFailure(e.ID, err)}
	}

	var (
		callCtx context.Context
		cancel  context.CancelFunc
	)
	if e.Timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, e.Timeout)
	} else {
		callCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{entry: e, err: engine.AsFailure(e.ID, fmt.Errorf("adapter panic: %v", p))}
			}
		}()
		hits, err := e.Adapter.Search(callCtx, q)
		if err != nil {
			done <- outcome{entry: e, err: engine.AsFailure(e.ID, err)}
			return
		}
		if len(hits) == 0 {
			done <- outcome{entry: e, err: engine.NotFound(e.ID)}
			return
		}
		done <- outcome{entry: e, hits: hits}
	}()

	select {
	case out := <-done:
		return out
	case <-callCtx.Done():
		return outcome{entry: e, err: engine.AsFailure(e.ID, callCtx.Err())}
	}
}

// rankPool orders candidates by confidence, then tier, registry order and
// hit position, so the winner never depends on which adapter answered
// first.
func rankPool(pool []candidate) {
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		switch {
		case a.meta.Confidence != b.meta.Confidence:
			return a.meta.Confidence > b.meta.Confidence
		case a.tier != b.tier:
			return a.tier < b.tier
		case a.order != b.order:
			return a.order < b.order
		default:
			return a.index < b.index
		}
	})
}

// dedupe keeps the highest-ranked copy of each work and drops records
// that scored zero. pool must already be ranked.
func dedupe(pool []candidate) []candidate {
	seen := make(map[string]bool, len(pool))
	var out []candidate
	for _, c := range pool {
		if c.meta.Confidence <= 0 {
			continue
		}
		keys := identity(c.meta)
		dup := false
		for _, k := range keys {
			if seen[k] {
				dup = true
				break
			}
		}
		for _, k := range keys {
			seen[k] = true
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

// identity returns the keys under which two records count as the same work.
func identity(m types.CanonicalMetadata) []string {
	var keys []string
	id := m.Identifiers
	if id.DOI != "" {
		keys = append(keys, "doi:"+strings.ToLower(id.DOI))
	}
	if id.ISBN != "" {
		keys = append(keys, "isbn:"+id.ISBN)
	}
	if id.ArXivID != "" {
		keys = append(keys, "arxiv:"+id.ArXivID)
	}
	if id.CaseCitation != "" {
		keys = append(keys, "case:"+strings.ToLower(id.CaseCitation))
	}
	keys = append(keys, "title:"+strings.Join(normalize.Tokens(m.Title), " ")+":"+strconv.Itoa(m.Year))
	return keys
}
