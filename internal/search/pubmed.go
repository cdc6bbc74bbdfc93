// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// pubmedAPIBase is the NCBI E-utilities root. Declared as a var so tests
// can substitute an httptest server.
var pubmedAPIBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// PubMed searches biomedical literature through E-utilities: esearch for
// matching IDs, then esummary for their records.
type PubMed struct {
	Client *Client
	APIKey string
}

// ID returns the adapter identifier.
func (b *PubMed) ID() string { return "pubmed" }

// Search runs esearch then esummary.
func (b *PubMed) Search(ctx context.Context, q types.Query) ([]engine.RawHit, error) {
	term := buildPubMedTerm(q)
	if term == "" {
		return nil, engine.Unsupported(b.ID())
	}

	params := b.params()
	params.Set("term", term)
	params.Set("retmax", strconv.Itoa(b.Client.limit()))
	doc, err := b.Client.getJSON(ctx, b.ID(), pubmedAPIBase+"/esearch.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, id := range doc.Get("esearchresult.idlist").Array() {
		ids = append(ids, id.String())
	}
	if len(ids) == 0 {
		return nil, engine.NotFound(b.ID())
	}

	params = b.params()
	params.Set("id", strings.Join(ids, ","))
	doc, err = b.Client.getJSON(ctx, b.ID(), pubmedAPIBase+"/esummary.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var hits []engine.RawHit
	for _, id := range ids {
		rec := doc.Get("result." + id)
		if !rec.IsObject() || rec.Get("error").Exists() {
			continue
		}
		hits = append(hits, hit(b.ID(), engine.SchemaPubMed, rec.Raw))
	}
	if len(hits) == 0 {
		return nil, engine.NotFound(b.ID())
	}
	return hits, nil
}

func (b *PubMed) params() url.Values {
	params := url.Values{
		"db":      {"pubmed"},
		"retmode": {"json"},
		"tool":    {"cite-resolver"},
	}
	if b.Client != nil && b.Client.Email != "" {
		params.Set("email", b.Client.Email)
	}
	if b.APIKey != "" {
		params.Set("api_key", b.APIKey)
	}
	return params
}

// buildPubMedTerm builds an esearch term with field tags: "10.1/x[doi]",
// or title words, first author and year.
func buildPubMedTerm(q types.Query) string {
	if q.DOI != "" {
		return q.DOI + "[doi]"
	}
	if q.Title == "" {
		return strings.Join(strings.Fields(q.Text), " ")
	}
	parts := []string{q.Title + "[title]"}
	if len(q.Authors) > 0 {
		parts = append(parts, q.Authors[0]+"[author]")
	}
	if q.Year > 0 {
		parts = append(parts, strconv.Itoa(q.Year)+"[pdat]")
	}
	return strings.Join(parts, " AND ")
}
