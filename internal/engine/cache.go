// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// cachedAdapter is a read-through cache in front of another adapter.
// Concurrent misses for the same query share one upstream call, and a
// caller that gives up does not cancel it for the others.
type cachedAdapter struct {
	inner Adapter
	cache *lru.Cache[string, []RawHit]
	group singleflight.Group
}

// Cached wraps a with an LRU of size queries. Only successful searches are
// stored; failures are returned to every waiting caller and not cached.
func Cached(a Adapter, size int) (Adapter, error) {
	c, err := lru.New[string, []RawHit](size)
	if err != nil {
		return nil, fmt.Errorf("creating cache for %s: %w", a.ID(), err)
	}
	return &cachedAdapter{inner: a, cache: c}, nil
}

func (c *cachedAdapter) ID() string { return c.inner.ID() }

func (c *cachedAdapter) Search(ctx context.Context, q types.Query) ([]RawHit, error) {
	key := cacheKey(q)
	if hits, ok := c.cache.Get(key); ok {
		return cloneHits(hits), nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		if hits, ok := c.cache.Get(key); ok {
			return hits, nil
		}
		// The shared call outlives a cancelled leader so other waiters
		// still get an answer. The leader's deadline still bounds it.
		fctx := context.WithoutCancel(ctx)
		if dl, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			fctx, cancel = context.WithDeadline(fctx, dl)
			defer cancel()
		}
		hits, err := c.inner.Search(fctx, q)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, hits)
		return hits, nil
	})

	select {
	case <-ctx.Done():
		return nil, AsFailure(c.ID(), ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return cloneHits(r.Val.([]RawHit)), nil
	}
}

func cacheKey(q types.Query) string {
	parts := []string{
		strings.ToLower(strings.TrimSpace(q.Text)),
		strings.ToLower(q.Title),
		strings.ToLower(strings.Join(q.Authors, ",")),
		strconv.Itoa(q.Year),
		strings.ToLower(q.DOI),
		q.ISBN,
		q.ArXivID,
		q.CaseCitation,
		q.URL,
	}
	for _, t := range q.Types {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, "\x1f")
}

// cloneHits copies the slice so callers cannot mutate cached entries.
func cloneHits(hits []RawHit) []RawHit {
	out := make([]RawHit, len(hits))
	for i, h := range hits {
		out[i] = RawHit{Engine: h.Engine, Schema: h.Schema, Payload: append([]byte(nil), h.Payload...)}
	}
	return out
}
