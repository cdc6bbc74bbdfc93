// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// Adapter serves catalog records as canonical raw hits.
type Adapter struct {
	Store *Store
}

// NewAdapter wraps s.
func NewAdapter(s *Store) *Adapter {
	return &Adapter{Store: s}
}

// ID returns the adapter identifier.
func (a *Adapter) ID() string { return EngineID }

// Search looks q up in the catalog.
func (a *Adapter) Search(ctx context.Context, q types.Query) ([]engine.RawHit, error) {
	if !q.HasIdentifier() && q.Title == "" {
		return nil, engine.Unsupported(a.ID())
	}
	records, err := a.Store.Lookup(ctx, q)
	if err != nil {
		return nil, engine.AsFailure(a.ID(), err)
	}
	if len(records) == 0 {
		return nil, engine.NotFound(a.ID())
	}

	hits := make([]engine.RawHit, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return nil, engine.Malformed(a.ID(), err)
		}
		hits = append(hits, engine.RawHit{Engine: a.ID(), Schema: engine.SchemaCanonical, Payload: payload})
	}
	return hits, nil
}
