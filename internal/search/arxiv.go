// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv queries the arXiv Atom API and converts entries to JSON records.
type Arxiv struct {
	Client *Client
}

// ID returns the adapter identifier.
func (b *Arxiv) ID() string { return "arxiv" }

// Search fetches an entry by arXiv ID, or searches title and author fields.
func (b *Arxiv) Search(ctx context.Context, q types.Query) ([]engine.RawHit, error) {
	params := url.Values{
		"start":       {"0"},
		"max_results": {strconv.Itoa(b.Client.limit())},
	}
	if q.ArXivID != "" {
		params.Set("id_list", q.ArXivID)
	} else {
		sq := buildArxivQuery(q)
		if sq == "" {
			return nil, engine.Unsupported(b.ID())
		}
		params.Set("search_query", sq)
		params.Set("sortBy", "relevance")
		params.Set("sortOrder", "descending")
	}

	body, err := b.Client.get(ctx, b.ID(), arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, engine.Malformed(b.ID(), fmt.Errorf("parsing arXiv response: %w", err))
	}

	var hits []engine.RawHit
	for _, entry := range feed.Entries {
		rec := entry.record()
		// The API reports a missing id_list entry as an entry with an
		// error id and no title.
		if rec.ArxivID == "" || rec.Title == "" {
			continue
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			return nil, engine.Malformed(b.ID(), err)
		}
		hits = append(hits, engine.RawHit{Engine: b.ID(), Schema: engine.SchemaArxiv, Payload: payload})
	}
	if len(hits) == 0 {
		return nil, engine.NotFound(b.ID())
	}
	return hits, nil
}

// buildArxivQuery constructs the search_query parameter from the title
// guess and first author, or from the raw text.
func buildArxivQuery(q types.Query) string {
	var parts []string
	if q.Title != "" {
		parts = append(parts, "ti:"+quoteTerms(q.Title))
		if len(q.Authors) > 0 {
			parts = append(parts, "au:"+quoteTerms(q.Authors[0]))
		}
	} else if text := strings.TrimSpace(q.Text); text != "" {
		parts = append(parts, "all:"+quoteTerms(text))
	}
	return strings.Join(parts, " AND ")
}

func quoteTerms(s string) string {
	terms := strings.Fields(strings.NewReplacer(`"`, " ", "(", " ", ")", " ").Replace(s))
	if len(terms) == 1 {
		return terms[0]
	}
	return `"` + strings.Join(terms, " ") + `"`
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string        `xml:"id"`
	Title      string        `xml:"title"`
	Published  string        `xml:"published"`
	Authors    []arxivAuthor `xml:"author"`
	DOI        string        `xml:"http://arxiv.org/schemas/atom doi"`
	JournalRef string        `xml:"http://arxiv.org/schemas/atom journal_ref"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// arxivRecord is the JSON shape handed to the normalizer.
type arxivRecord struct {
	ArxivID    string   `json:"arxiv_id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors,omitempty"`
	Published  string   `json:"published,omitempty"`
	JournalRef string   `json:"journal_ref,omitempty"`
	DOI        string   `json:"doi,omitempty"`
	URL        string   `json:"url,omitempty"`
}

func (e arxivEntry) record() arxivRecord {
	rec := arxivRecord{
		ArxivID:    extractArxivID(e.ID),
		Title:      strings.Join(strings.Fields(e.Title), " "),
		Published:  strings.TrimSpace(e.Published),
		JournalRef: strings.TrimSpace(e.JournalRef),
		DOI:        strings.TrimSpace(e.DOI),
	}
	for _, a := range e.Authors {
		if n := strings.TrimSpace(a.Name); n != "" {
			rec.Authors = append(rec.Authors, n)
		}
	}
	if rec.ArxivID != "" {
		rec.URL = "https://arxiv.org/abs/" + rec.ArxivID
	}
	return rec
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
