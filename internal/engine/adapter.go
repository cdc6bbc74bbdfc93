// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine defines the uniform search capability every metadata
// source is wrapped in, the static registry that maps reference types to
// tiers of adapters, and decorators that add caching and client-side rate
// limiting without the resolver knowing.
package engine

import (
	"context"
	"time"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// Schema identifies the mapping table the normalizer applies to a hit.
type Schema string

const (
	SchemaCrossref      Schema = "crossref"
	SchemaOpenAlex      Schema = "openalex"
	SchemaSemantic      Schema = "semantic_scholar"
	SchemaArxiv         Schema = "arxiv"
	SchemaPubMed        Schema = "pubmed"
	SchemaOpenLibrary   Schema = "openlibrary"
	SchemaGoogleBooks   Schema = "google_books"
	SchemaCourtListener Schema = "courtlistener"
	SchemaWebPage       Schema = "webpage"
	SchemaAI            Schema = "ai"
	SchemaCanonical     Schema = "canonical"
)

// RawHit is one record as returned by a source, still in the source's
// native shape. Payload is a JSON document; sources that speak XML or HTML
// convert to JSON before returning.
type RawHit struct {
	Engine  string `json:"engine"`
	Schema  Schema `json:"schema"`
	Payload []byte `json:"payload"`
}

// Adapter wraps one external metadata source. Search must honor the
// context deadline and return a *Failure instead of hanging. Adapters keep
// no memory between calls other than rate-limit and cache bookkeeping.
type Adapter interface {
	ID() string
	Search(ctx context.Context, q types.Query) ([]RawHit, error)
}

// Descriptor is the registry's static view of an adapter.
type Descriptor struct {
	ID      string                `json:"id" yaml:"id"`
	Tier    int                   `json:"tier" yaml:"tier"`
	Types   []types.ReferenceType `json:"types" yaml:"types"`
	Timeout time.Duration         `json:"timeout" yaml:"timeout"`
	AI      bool                  `json:"ai,omitempty" yaml:"ai,omitempty"`
}

// Supports reports whether the descriptor lists t.
func (d Descriptor) Supports(t types.ReferenceType) bool {
	for _, s := range d.Types {
		if s == t {
			return true
		}
	}
	return false
}
