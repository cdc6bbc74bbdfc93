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

// Book endpoints. Declared as vars so tests can substitute an httptest
// server.
var (
	openLibraryAPIBase = "https://openlibrary.org/search.json"
	googleBooksAPIBase = "https://www.googleapis.com/books/v1/volumes"
)

const openLibraryFields = "key,title,subtitle,author_name,first_publish_year,publish_year,publisher,publish_place,isbn"

// OpenLibrary searches the Open Library catalogue.
type OpenLibrary struct {
	Client *Client
}

// ID returns the adapter identifier.
func (b *OpenLibrary) ID() string { return "openlibrary" }

// Search looks a book up by ISBN, or by title and author.
func (b *OpenLibrary) Search(ctx context.Context, q types.Query) ([]engine.RawHit, error) {
	params := url.Values{
		"fields": {openLibraryFields},
		"limit":  {strconv.Itoa(b.Client.limit())},
	}
	switch {
	case q.ISBN != "":
		params.Set("isbn", q.ISBN)
	case q.Title != "":
		params.Set("title", q.Title)
		if len(q.Authors) > 0 {
			params.Set("author", q.Authors[0])
		}
	case strings.TrimSpace(q.Text) != "":
		params.Set("q", strings.TrimSpace(q.Text))
	default:
		return nil, engine.Unsupported(b.ID())
	}

	doc, err := b.Client.getJSON(ctx, b.ID(), openLibraryAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return splitHits(b.ID(), engine.SchemaOpenLibrary, doc, "docs", b.Client.limit())
}

// GoogleBooks searches the Google Books volumes API.
type GoogleBooks struct {
	Client *Client
	APIKey string
}

// ID returns the adapter identifier.
func (b *GoogleBooks) ID() string { return "google_books" }

// Search looks a volume up by ISBN, or by intitle/inauthor terms.
func (b *GoogleBooks) Search(ctx context.Context, q types.Query) ([]engine.RawHit, error) {
	expr := buildGoogleBooksQuery(q)
	if expr == "" {
		return nil, engine.Unsupported(b.ID())
	}
	params := url.Values{
		"q":          {expr},
		"maxResults": {strconv.Itoa(b.Client.limit())},
		"printType":  {"books"},
	}
	if b.APIKey != "" {
		params.Set("key", b.APIKey)
	}

	doc, err := b.Client.getJSON(ctx, b.ID(), googleBooksAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return splitHits(b.ID(), engine.SchemaGoogleBooks, doc, "items", b.Client.limit())
}

func buildGoogleBooksQuery(q types.Query) string {
	if q.ISBN != "" {
		return "isbn:" + q.ISBN
	}
	if q.Title == "" {
		return strings.Join(strings.Fields(q.Text), " ")
	}
	expr := "intitle:" + q.Title
	if len(q.Authors) > 0 {
		expr += " inauthor:" + q.Authors[0]
	}
	return expr
}
