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

func TestOpenLibrarySearch(t *testing.T) {
	tests := []struct {
		name   string
		q      types.Query
		params map[string]string
	}{
		{"isbn", types.Query{ISBN: "9780262033848", Title: "Intro"}, map[string]string{"isbn": "9780262033848"}},
		{"title and author", types.Query{Title: "A Theory of Justice", Authors: []string{"Rawls"}}, map[string]string{"title": "A Theory of Justice", "author": "Rawls"}},
		{"raw text", types.Query{Text: "Rawls justice 1971"}, map[string]string{"q": "Rawls justice 1971"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			ts := jsonServer(t, http.StatusOK, `{"numFound":1,"docs":[{"key":"/works/OL1W","title":"A Theory of Justice"}]}`, &req)
			swapBase(t, &openLibraryAPIBase, ts.URL)

			hits, err := (&OpenLibrary{Client: testClient(ts)}).Search(context.Background(), tt.q)
			require.NoError(t, err)
			require.Len(t, hits, 1)
			assert.Equal(t, engine.SchemaOpenLibrary, hits[0].Schema)
			for k, v := range tt.params {
				assert.Equal(t, v, req.URL.Query().Get(k), k)
			}
			assert.Equal(t, openLibraryFields, req.URL.Query().Get("fields"))
		})
	}
}

func TestOpenLibraryUnsupported(t *testing.T) {
	_, err := (&OpenLibrary{}).Search(context.Background(), types.Query{Text: "  "})
	assert.ErrorIs(t, err, engine.ErrUnsupportedQuery)
}

func TestGoogleBooksSearch(t *testing.T) {
	var req *http.Request
	ts := jsonServer(t, http.StatusOK, `{"totalItems":1,"items":[{"id":"v1","volumeInfo":{"title":"Book"}}]}`, &req)
	swapBase(t, &googleBooksAPIBase, ts.URL)

	hits, err := (&GoogleBooks{Client: testClient(ts), APIKey: "gk"}).Search(context.Background(), types.Query{ISBN: "0262033844"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "isbn:0262033844", req.URL.Query().Get("q"))
	assert.Equal(t, "gk", req.URL.Query().Get("key"))
}

func TestGoogleBooksNoItems(t *testing.T) {
	ts := jsonServer(t, http.StatusOK, `{"kind":"books#volumes","totalItems":0}`, nil)
	swapBase(t, &googleBooksAPIBase, ts.URL)

	_, err := (&GoogleBooks{Client: testClient(ts)}).Search(context.Background(), types.Query{Title: "Nothing"})
	assert.True(t, engine.IsNotFound(err))
}

func TestBuildGoogleBooksQuery(t *testing.T) {
	assert.Equal(t, "intitle:Justice inauthor:Rawls", buildGoogleBooksQuery(types.Query{Title: "Justice", Authors: []string{"Rawls"}}))
	assert.Equal(t, "intitle:Justice", buildGoogleBooksQuery(types.Query{Title: "Justice"}))
	assert.Equal(t, "raw text", buildGoogleBooksQuery(types.Query{Text: "raw  text"}))
}

func TestCourtListenerSearch(t *testing.T) {
	var req *http.Request
	ts := jsonServer(t, http.StatusOK, `{"count":1,"results":[{"caseName":"Roe v. Wade","citation":["410 U.S. 113"]}]}`, &req)
	swapBase(t, &courtListenerAPIBase, ts.URL)

	a := &CourtListener{Client: testClient(ts), Token: "tok"}
	hits, err := a.Search(context.Background(), types.Query{CaseCitation: "410 U.S. 113", Title: "Roe v. Wade"})
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, `citation:("410 U.S. 113")`, req.URL.Query().Get("q"))
	assert.Equal(t, "o", req.URL.Query().Get("type"))
	assert.Equal(t, "Token tok", req.Header.Get("Authorization"))
	assert.Equal(t, engine.SchemaCourtListener, hits[0].Schema)
}

func TestBuildCourtListenerQuery(t *testing.T) {
	assert.Equal(t, `caseName:("Donoghue v Stevenson")`, buildCourtListenerQuery(types.Query{Title: `"Donoghue v Stevenson"`}))
	assert.Equal(t, "", buildCourtListenerQuery(types.Query{}))
}
