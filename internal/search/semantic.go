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

// semanticAPIBase is the Semantic Scholar paper endpoint. Declared as a
// var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper"

const semanticFields = "title,authors,externalIds,year,publicationDate,journal,venue,publicationTypes,url"

// SemanticScholar queries the Semantic Scholar graph API.
type SemanticScholar struct {
	Client *Client
	APIKey string
}

// ID returns the adapter identifier.
func (b *SemanticScholar) ID() string { return "semantic_scholar" }

// Search looks a paper up by DOI or arXiv ID when the query has one, and
// otherwise runs a keyword search.
func (b *SemanticScholar) Search(ctx context.Context, q types.Query) ([]engine.RawHit, error) {
	header := http.Header{}
	if b.APIKey != "" {
		header.Set("x-api-key", b.APIKey)
	}

	var paperID string
	switch {
	case q.DOI != "":
		paperID = "DOI:" + q.DOI
	case q.ArXivID != "":
		paperID = "ARXIV:" + q.ArXivID
	}
	if paperID != "" {
		reqURL := semanticAPIBase + "/" + url.PathEscape(paperID) + "?" + url.Values{"fields": {semanticFields}}.Encode()
		doc, err := b.Client.getJSON(ctx, b.ID(), reqURL, header)
		if err != nil {
			return nil, err
		}
		if !doc.Get("title").Exists() {
			return nil, engine.NotFound(b.ID())
		}
		return []engine.RawHit{hit(b.ID(), engine.SchemaSemantic, doc.Raw)}, nil
	}

	text := titleAuthor(q)
	if text == "" {
		return nil, engine.Unsupported(b.ID())
	}
	params := url.Values{
		"query":  {text},
		"limit":  {strconv.Itoa(b.Client.limit())},
		"fields": {semanticFields},
	}
	if q.Year > 0 {
		// One year either side of the cited year.
		params.Set("year", buildYearRange(q.Year-1, q.Year+1))
	}

	doc, err := b.Client.getJSON(ctx, b.ID(), semanticAPIBase+"/search?"+params.Encode(), header)
	if err != nil {
		return nil, err
	}
	return splitHits(b.ID(), engine.SchemaSemantic, doc, "data", b.Client.limit())
}

// buildYearRange returns a Semantic Scholar year filter string (e.g. "2020-2023").
func buildYearRange(from, to int) string {
	switch {
	case from > 0 && to > 0:
		return strconv.Itoa(from) + "-" + strconv.Itoa(to)
	case from > 0:
		return strconv.Itoa(from) + "-"
	case to > 0:
		return "-" + strconv.Itoa(to)
	default:
		return ""
	}
}
