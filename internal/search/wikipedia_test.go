// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

const sampleWikipediaPage = `{"batchcomplete":true,"query":{"pages":[{
	"pageid": 736,
	"ns": 0,
	"title": "Albert Einstein",
	"fullurl": "https://en.wikipedia.org/wiki/Albert_Einstein",
	"revisions": [{"timestamp": "2025-11-02T08:15:00Z"}]
}]}}`

func TestWikipediaSearch(t *testing.T) {
	var req *http.Request
	ts := jsonServer(t, http.StatusOK, sampleWikipediaPage, &req)
	swapBase(t, &wikipediaAPIBase, ts.URL+"/%s/w/api.php")

	hits, err := (&Wikipedia{Client: testClient(ts)}).Search(context.Background(),
		types.Query{URL: "https://de.m.wikipedia.org/wiki/Albert_Einstein#Leben"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "wikipedia", hits[0].Engine)
	assert.Equal(t, engine.SchemaWebPage, hits[0].Schema)
	assert.JSONEq(t, `{
		"url": "https://en.wikipedia.org/wiki/Albert_Einstein",
		"title": "Albert Einstein",
		"published": "2025-11-02T08:15:00Z",
		"site_name": "Wikipedia"
	}`, string(hits[0].Payload))

	require.NotNil(t, req)
	assert.Equal(t, "/de/w/api.php", req.URL.Path)
	assert.Equal(t, "Albert Einstein", req.URL.Query().Get("titles"))
	assert.Equal(t, "1", req.URL.Query().Get("redirects"))
}

func TestWikipediaMissingArticle(t *testing.T) {
	ts := jsonServer(t, http.StatusOK, `{"query":{"pages":[{"ns":0,"title":"Nope","missing":true}]}}`, nil)
	swapBase(t, &wikipediaAPIBase, ts.URL+"/%s/w/api.php")

	_, err := (&Wikipedia{Client: testClient(ts)}).Search(context.Background(),
		types.Query{Text: "Nope. Wikipedia.", Title: "Nope"})
	assert.True(t, engine.IsNotFound(err))
}

func TestWikipediaArticle(t *testing.T) {
	tests := []struct {
		name      string
		q         types.Query
		wantLang  string
		wantTitle string
	}{
		{"english url", types.Query{URL: "https://en.wikipedia.org/wiki/Go_(programming_language)"}, "en", "Go (programming language)"},
		{"escaped url", types.Query{URL: "fr.wikipedia.org/wiki/%C3%89mile_Zola"}, "fr", "Émile Zola"},
		{"fragment", types.Query{URL: "https://en.wikipedia.org/wiki/Rome#History"}, "en", "Rome"},
		{"titled citation", types.Query{Text: `"Rome." Wikipedia, 2024.`, Title: "Rome"}, "en", "Rome"},
		{"other site", types.Query{URL: "https://go.dev/doc"}, "", ""},
		{"not an article", types.Query{URL: "https://en.wikipedia.org/w/index.php?title=Rome"}, "", ""},
		{"no mention", types.Query{Text: "Rome. Britannica.", Title: "Rome"}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, title := wikipediaArticle(tt.q)
			assert.Equal(t, tt.wantLang, lang)
			assert.Equal(t, tt.wantTitle, title)
		})
	}
}

func TestWikipediaUnsupported(t *testing.T) {
	_, err := (&Wikipedia{}).Search(context.Background(), types.Query{Text: "Smith (2020). Title."})
	assert.ErrorIs(t, err, engine.ErrUnsupportedQuery)
}
