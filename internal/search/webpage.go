// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// WebPage fetches the cited URL and reads its title, byline, date and
// site name from the page's meta tags (Highwire citation_*, Open Graph,
// Dublin Core) and <title>.
type WebPage struct {
	Client *Client
}

// ID returns the adapter identifier.
func (b *WebPage) ID() string { return "webpage" }

// Search fetches q.URL. Queries without a URL are unsupported.
func (b *WebPage) Search(ctx context.Context, q types.Query) ([]engine.RawHit, error) {
	target := strings.TrimSpace(q.URL)
	if target == "" {
		return nil, engine.Unsupported(b.ID())
	}
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	if u, err := url.Parse(target); err != nil || u.Host == "" {
		return nil, engine.Unsupported(b.ID())
	}

	body, err := b.Client.get(ctx, b.ID(), target, http.Header{"Accept": {"text/html,application/xhtml+xml"}})
	if err != nil {
		return nil, err
	}

	page, err := parsePage(body)
	if err != nil {
		return nil, engine.Malformed(b.ID(), err)
	}
	if page.URL == "" {
		page.URL = target
	}
	if page.Title == "" {
		return nil, engine.NotFound(b.ID())
	}

	payload, err := json.Marshal(page)
	if err != nil {
		return nil, engine.Malformed(b.ID(), err)
	}
	return []engine.RawHit{{Engine: b.ID(), Schema: engine.SchemaWebPage, Payload: payload}}, nil
}

// pageRecord is the JSON shape handed to the normalizer.
type pageRecord struct {
	URL       string   `json:"url"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	Published string   `json:"published,omitempty"`
	SiteName  string   `json:"site_name,omitempty"`
	DOI       string   `json:"doi,omitempty"`
}

// parsePage walks the document once and collects meta tags. Earlier keys
// in each preference list win.
func parsePage(body []byte) (pageRecord, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return pageRecord{}, fmt.Errorf("parsing HTML: %w", err)
	}

	meta := make(map[string][]string)
	var titleTag, canonical string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				key := strings.ToLower(attr(n, "property"))
				if key == "" {
					key = strings.ToLower(attr(n, "name"))
				}
				if v := strings.TrimSpace(attr(n, "content")); key != "" && v != "" {
					meta[key] = append(meta[key], v)
				}
			case "title":
				if titleTag == "" && n.FirstChild != nil {
					titleTag = strings.Join(strings.Fields(n.FirstChild.Data), " ")
				}
			case "link":
				if strings.EqualFold(attr(n, "rel"), "canonical") {
					canonical = attr(n, "href")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	first := func(keys ...string) string {
		for _, k := range keys {
			if vs := meta[k]; len(vs) > 0 {
				return vs[0]
			}
		}
		return ""
	}

	rec := pageRecord{
		URL:       first("og:url"),
		Title:     first("citation_title", "og:title", "dc.title", "twitter:title"),
		Published: first("citation_publication_date", "article:published_time", "dc.date", "date", "pubdate"),
		SiteName:  first("og:site_name", "citation_journal_title", "application-name"),
		DOI:       first("citation_doi", "dc.identifier"),
	}
	if rec.URL == "" {
		rec.URL = canonical
	}
	if rec.Title == "" {
		rec.Title = titleTag
	}
	for _, k := range []string{"citation_author", "author", "article:author", "dc.creator"} {
		if vs := meta[k]; len(vs) > 0 {
			for _, v := range vs {
				// article:author is often a profile URL.
				if !strings.HasPrefix(v, "http") {
					rec.Authors = append(rec.Authors, v)
				}
			}
			if len(rec.Authors) > 0 {
				break
			}
		}
	}
	return rec, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
