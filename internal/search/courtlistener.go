// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// courtListenerAPIBase is the CourtListener search endpoint. Declared as a
// var so tests can substitute an httptest server.
var courtListenerAPIBase = "https://www.courtlistener.com/api/rest/v4/search/"

// CourtListener searches case law opinions.
type CourtListener struct {
	Client *Client
	Token  string
}

// ID returns the adapter identifier.
func (b *CourtListener) ID() string { return "courtlistener" }

// Search matches the reporter citation when the query has one and falls
// back to the case name.
func (b *CourtListener) Search(ctx context.Context, q types.Query) ([]engine.RawHit, error) {
	expr := buildCourtListenerQuery(q)
	if expr == "" {
		return nil, engine.Unsupported(b.ID())
	}
	params := url.Values{
		"type":     {"o"},
		"q":        {expr},
		"order_by": {"score desc"},
	}
	header := http.Header{}
	if b.Token != "" {
		header.Set("Authorization", "Token "+b.Token)
	}

	doc, err := b.Client.getJSON(ctx, b.ID(), courtListenerAPIBase+"?"+params.Encode(), header)
	if err != nil {
		return nil, err
	}
	return splitHits(b.ID(), engine.SchemaCourtListener, doc, "results", b.Client.limit())
}

func buildCourtListenerQuery(q types.Query) string {
	switch {
	case q.CaseCitation != "":
		return `citation:("` + q.CaseCitation + `")`
	case q.Title != "":
		return `caseName:("` + strings.ReplaceAll(q.Title, `"`, "") + `")`
	default:
		return strings.Join(strings.Fields(q.Text), " ")
	}
}
