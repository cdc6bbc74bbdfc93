// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlex queries the OpenAlex works index.
type OpenAlex struct {
	Client *Client
}

// ID returns the adapter identifier.
func (b *OpenAlex) ID() string { return "openalex" }

// Search fetches a work by DOI when the query has one, and otherwise runs
// a relevance search on the title guess and first author.
func (b *OpenAlex) Search(ctx context.Context, q types.Query) ([]engine.RawHit, error) {
	params := url.Values{}
	if b.Client != nil && b.Client.Email != "" {
		// Polite pool access.
		params.Set("mailto", b.Client.Email)
	}

	if q.DOI != "" {
		reqURL := openAlexSearchBase + "/doi:" + url.PathEscape(q.DOI)
		if len(params) > 0 {
			reqURL += "?" + params.Encode()
		}
		doc, err := b.Client.getJSON(ctx, b.ID(), reqURL, nil)
		if err != nil {
			return nil, err
		}
		if !doc.Get("id").Exists() {
			return nil, engine.NotFound(b.ID())
		}
		return []engine.RawHit{hit(b.ID(), engine.SchemaOpenAlex, doc.Raw)}, nil
	}

	searchText := titleAuthor(q)
	if searchText == "" {
		return nil, engine.Unsupported(b.ID())
	}
	params.Set("search", searchText)
	params.Set("per_page", strconv.Itoa(b.Client.limit()))
	params.Set("page", "1")

	doc, err := b.Client.getJSON(ctx, b.ID(), openAlexSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return splitHits(b.ID(), engine.SchemaOpenAlex, doc, "results", b.Client.limit())
}
