// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// wikipediaAPIBase is the MediaWiki action API, formatted with the
// language edition. Declared as a var so tests can substitute an
// httptest server.
var wikipediaAPIBase = "https://%s.wikipedia.org/w/api.php"

var wikipediaHost = regexp.MustCompile(`^([a-z]{2,3}(?:-[a-z]+)?)\.(?:m\.)?wikipedia\.org$`)

// Wikipedia reads article metadata from the MediaWiki API. Articles are
// found from a wikipedia.org URL, or from the title when the citation
// names Wikipedia.
type Wikipedia struct {
	Client *Client
}

// ID returns the adapter identifier.
func (b *Wikipedia) ID() string { return "wikipedia" }

// Search looks up the article named by q.
func (b *Wikipedia) Search(ctx context.Context, q types.Query) ([]engine.RawHit, error) {
	lang, title := wikipediaArticle(q)
	if title == "" {
		return nil, engine.Unsupported(b.ID())
	}
	params := url.Values{
		"action":        {"query"},
		"titles":        {title},
		"prop":          {"info|revisions"},
		"rvprop":        {"timestamp"},
		"inprop":        {"url"},
		"redirects":     {"1"},
		"format":        {"json"},
		"formatversion": {"2"},
	}

	doc, err := b.Client.getJSON(ctx, b.ID(), fmt.Sprintf(wikipediaAPIBase, lang)+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	page := doc.Get("query.pages.0")
	if !page.Exists() || page.Get("missing").Bool() || page.Get("invalid").Bool() {
		return nil, engine.NotFound(b.ID())
	}

	rec := pageRecord{
		URL:       page.Get("fullurl").String(),
		Title:     page.Get("title").String(),
		Published: page.Get("revisions.0.timestamp").String(),
		SiteName:  "Wikipedia",
	}
	if rec.Title == "" {
		return nil, engine.NotFound(b.ID())
	}
	if rec.URL == "" {
		rec.URL = fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", lang, url.PathEscape(strings.ReplaceAll(rec.Title, " ", "_")))
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, engine.Malformed(b.ID(), err)
	}
	return []engine.RawHit{{Engine: b.ID(), Schema: engine.SchemaWebPage, Payload: payload}}, nil
}

// wikipediaArticle returns the language edition and article title for q,
// or an empty title when q does not cite Wikipedia.
func wikipediaArticle(q types.Query) (lang, title string) {
	if raw := strings.TrimSpace(q.URL); raw != "" {
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return "", ""
		}
		m := wikipediaHost.FindStringSubmatch(strings.ToLower(u.Hostname()))
		if m == nil {
			return "", ""
		}
		_, rest, ok := strings.Cut(u.EscapedPath(), "/wiki/")
		if !ok {
			return "", ""
		}
		t, err := url.PathUnescape(rest)
		if err != nil {
			return "", ""
		}
		return m[1], cleanArticleTitle(t)
	}
	if strings.Contains(strings.ToLower(q.Text), "wikipedia") {
		return "en", cleanArticleTitle(q.Title)
	}
	return "", ""
}

func cleanArticleTitle(t string) string {
	t, _, _ = strings.Cut(t, "#")
	return strings.TrimSpace(strings.ReplaceAll(t, "_", " "))
}
