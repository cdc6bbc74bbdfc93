// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// Crossref looks up journal articles and books in the Crossref registry.
// A DOI is fetched directly; anything else goes through the bibliographic
// query, which is built for unparsed reference strings.
type Crossref struct {
	Client *Client
}

// ID returns the adapter identifier.
func (c *Crossref) ID() string { return "crossref" }

// Search queries Crossref for q.
func (c *Crossref) Search(ctx context.Context, q types.Query) ([]engine.RawHit, error) {
	if q.DOI != "" {
		reqURL := crossrefAPIBase + "/" + url.PathEscape(q.DOI)
		if c.Client != nil && c.Client.Email != "" {
			reqURL += "?" + url.Values{"mailto": {c.Client.Email}}.Encode()
		}
		doc, err := c.Client.getJSON(ctx, c.ID(), reqURL, nil)
		if err != nil {
			return nil, err
		}
		msg := doc.Get("message")
		if !msg.IsObject() {
			return nil, engine.NotFound(c.ID())
		}
		return []engine.RawHit{hit(c.ID(), engine.SchemaCrossref, msg.Raw)}, nil
	}

	text := q.Text
	if text == "" {
		text = q.SearchText()
	}
	if text == "" {
		return nil, engine.Unsupported(c.ID())
	}

	params := url.Values{
		"query.bibliographic": {text},
		"rows":                {strconv.Itoa(c.Client.limit())},
	}
	if len(q.Authors) > 0 {
		params.Set("query.author", q.Authors[0])
	}
	if c.Client != nil && c.Client.Email != "" {
		params.Set("mailto", c.Client.Email)
	}

	doc, err := c.Client.getJSON(ctx, c.ID(), crossrefAPIBase+"?"+params.Encode(), http.Header{"Accept": {"application/json"}})
	if err != nil {
		return nil, err
	}
	return splitHits(c.ID(), engine.SchemaCrossref, doc, "message.items", c.Client.limit())
}
