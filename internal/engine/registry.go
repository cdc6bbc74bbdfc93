// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"sort"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// Entry binds an adapter to its descriptor. Order is the registration
// position and breaks ties within a tier.
type Entry struct {
	Descriptor
	Adapter Adapter
	Order   int
}

// Registry maps reference types to tiered adapter lists. It is built once
// and never modified, so concurrent lookups need no locking.
type Registry struct {
	entries []Entry
}

// NewRegistry validates the entries and returns an immutable registry.
// Duplicate ids, nil adapters, negative tiers, empty or unknown type sets
// are configuration errors.
func NewRegistry(entries ...Entry) (*Registry, error) {
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		if e.Adapter == nil {
			return nil, fmt.Errorf("engine %q: nil adapter", e.ID)
		}
		if e.ID == "" {
			e.ID = e.Adapter.ID()
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("engine %q registered twice", e.ID)
		}
		seen[e.ID] = true
		if e.Tier < 0 {
			return nil, fmt.Errorf("engine %q: negative tier %d", e.ID, e.Tier)
		}
		if len(e.Types) == 0 {
			return nil, fmt.Errorf("engine %q: no reference types", e.ID)
		}
		for _, t := range e.Types {
			if !t.Valid() {
				return nil, fmt.Errorf("engine %q: unknown reference type %q", e.ID, t)
			}
		}
		e.Types = append([]types.ReferenceType(nil), e.Types...)
		e.Order = i
		out = append(out, e)
	}
	return &Registry{entries: out}, nil
}

// AdaptersFor returns the entries serving t, ordered by tier then
// registration order.
func (r *Registry) AdaptersFor(t types.ReferenceType) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.Supports(t) {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out
}

// InTier returns the distinct entries in tier that serve any of ts, in
// registration order. An adapter serving two candidate types is called once.
func (r *Registry) InTier(tier int, ts []types.ReferenceType) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.Tier != tier {
			continue
		}
		for _, t := range ts {
			if e.Supports(t) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Tiers returns the distinct tier numbers serving any of ts, ascending.
func (r *Registry) Tiers(ts []types.ReferenceType) []int {
	set := make(map[int]bool)
	for _, t := range ts {
		for _, e := range r.AdaptersFor(t) {
			set[e.Tier] = true
		}
	}
	tiers := make([]int, 0, len(set))
	for tier := range set {
		tiers = append(tiers, tier)
	}
	sort.Ints(tiers)
	return tiers
}

// Entries returns every registered entry ordered by tier then registration.
func (r *Registry) Entries() []Entry {
	out := append([]Entry(nil), r.entries...)
	sortEntries(out)
	return out
}

// Len returns the number of registered engines.
func (r *Registry) Len() int { return len(r.entries) }

func sortEntries(es []Entry) {
	sort.SliceStable(es, func(i, j int) bool {
		if es[i].Tier != es[j].Tier {
			return es[i].Tier < es[j].Tier
		}
		return es[i].Order < es[j].Order
	})
}
