// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/cite-resolver/internal/detect"
	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// field extracts one string value from a source record.
type field func(r gjson.Result) string

// mapping translates one source schema into canonical fields. Nil fields
// are absent from the source.
type mapping struct {
	typ       func(r gjson.Result) types.ReferenceType
	title     field
	subtitle  field
	authors   func(r gjson.Result) []types.Author
	year      func(r gjson.Result) int
	container field
	volume    field
	issue     field
	pages     field
	publisher field
	place     field
	edition   field
	court     field
	url       field
	doi       field
	isbn      field
	arxiv     field
	pmid      field
	caseCite  field
}

// path returns the first non-empty string among gjson paths.
func path(paths ...string) field {
	return func(r gjson.Result) string {
		for _, p := range paths {
			v := r.Get(p)
			if v.IsArray() {
				v = v.Get("0")
			}
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
		return ""
	}
}

// years returns the first positive year among gjson paths.
func years(paths ...string) func(r gjson.Result) int {
	return func(r gjson.Result) int {
		for _, p := range paths {
			if y := yearOf(r.Get(p)); y > 0 {
				return y
			}
		}
		return 0
	}
}

// displayNames parses an array of "First Last" (or "Last, First") strings.
func displayNames(p string) func(r gjson.Result) []types.Author {
	return func(r gjson.Result) []types.Author {
		var raw []string
		for _, v := range r.Get(p).Array() {
			raw = append(raw, v.String())
		}
		return ParseNames(raw)
	}
}

// structuredNames reads CSL-style name objects ({given, family} or {name}).
func structuredNames(p string) func(r gjson.Result) []types.Author {
	return func(r gjson.Result) []types.Author {
		var out []types.Author
		for _, v := range r.Get(p).Array() {
			family := strings.TrimSpace(v.Get("family").String())
			given := strings.TrimSpace(v.Get("given").String())
			switch {
			case family != "":
				out = append(out, types.Author{Given: given, Family: family})
			case v.Get("name").String() != "":
				out = append(out, ParseName(v.Get("name").String()))
			case v.Get("literal").String() != "":
				out = append(out, types.Author{Literal: v.Get("literal").String()})
			}
		}
		return out
	}
}

func constType(t types.ReferenceType) func(gjson.Result) types.ReferenceType {
	return func(gjson.Result) types.ReferenceType { return t }
}

// crossrefTypes maps Crossref and OpenAlex work types.
var crossrefTypes = map[string]types.ReferenceType{
	"journal-article":     types.TypeJournal,
	"article":             types.TypeJournal,
	"proceedings-article": types.TypeJournal,
	"review":              types.TypeJournal,
	"preprint":            types.TypeJournal,
	"posted-content":      types.TypeJournal,
	"book":                types.TypeBook,
	"monograph":           types.TypeBook,
	"edited-book":         types.TypeBook,
	"book-chapter":        types.TypeBook,
	"reference-book":      types.TypeBook,
	"newspaper-article":   types.TypeNewspaper,
	"webpage":             types.TypeWebPage,
}

func typeFrom(p string, table map[string]types.ReferenceType, fallback types.ReferenceType) func(gjson.Result) types.ReferenceType {
	return func(r gjson.Result) types.ReferenceType {
		if t, ok := table[strings.ToLower(r.Get(p).String())]; ok {
			return t
		}
		return fallback
	}
}

// mappings holds the per-source translation tables.
var mappings = map[engine.Schema]mapping{
	engine.SchemaCrossref: {
		typ:       typeFrom("type", crossrefTypes, types.TypeJournal),
		title:     path("title"),
		subtitle:  path("subtitle"),
		authors:   structuredNames("author"),
		year:      years("issued", "published-print", "published-online", "published", "created"),
		container: path("container-title"),
		volume:    path("volume"),
		issue:     path("issue"),
		pages:     path("page"),
		publisher: path("publisher"),
		place:     path("publisher-location"),
		edition:   path("edition-number"),
		url:       path("URL"),
		doi:       path("DOI"),
		isbn:      path("ISBN"),
	},
	engine.SchemaOpenAlex: {
		typ:       typeFrom("type", crossrefTypes, types.TypeJournal),
		title:     path("title", "display_name"),
		authors:   displayNames("authorships.#.author.display_name"),
		year:      years("publication_year", "publication_date"),
		container: path("primary_location.source.display_name", "host_venue.display_name"),
		volume:    path("biblio.volume"),
		issue:     path("biblio.issue"),
		pages:     pageRange("biblio.first_page", "biblio.last_page"),
		publisher: path("primary_location.source.host_organization_name"),
		url:       path("primary_location.landing_page_url", "id"),
		doi:       path("doi", "ids.doi"),
		pmid:      path("ids.pmid"),
	},
	engine.SchemaSemantic: {
		typ:       semanticType,
		title:     path("title"),
		authors:   displayNames("authors.#.name"),
		year:      years("year", "publicationDate"),
		container: path("journal.name", "venue"),
		volume:    path("journal.volume"),
		pages:     path("journal.pages"),
		url:       path("url"),
		doi:       path("externalIds.DOI"),
		arxiv:     path("externalIds.ArXiv"),
		pmid:      path("externalIds.PubMed"),
	},
	engine.SchemaArxiv: {
		typ:       constType(types.TypeJournal),
		title:     path("title"),
		authors:   displayNames("authors"),
		year:      years("published"),
		container: path("journal_ref"),
		url:       path("url"),
		doi:       path("doi"),
		arxiv:     path("arxiv_id"),
	},
	engine.SchemaPubMed: {
		typ:       constType(types.TypeJournal),
		title:     path("title"),
		authors:   displayNames(`authors.#(authtype=="Author")#.name`),
		year:      years("pubdate", "epubdate", "sortpubdate"),
		container: path("fulljournalname", "source"),
		volume:    path("volume"),
		issue:     path("issue"),
		pages:     path("pages"),
		doi:       path(`articleids.#(idtype=="doi").value`, "elocationid"),
		pmid:      path("uid"),
	},
	engine.SchemaOpenLibrary: {
		typ:       constType(types.TypeBook),
		title:     path("title"),
		subtitle:  path("subtitle"),
		authors:   displayNames("author_name"),
		year:      years("first_publish_year", "publish_year", "publish_date"),
		publisher: path("publisher"),
		place:     path("publish_place"),
		url:       openLibraryURL,
		isbn:      path("isbn"),
	},
	engine.SchemaGoogleBooks: {
		typ:       constType(types.TypeBook),
		title:     path("volumeInfo.title"),
		subtitle:  path("volumeInfo.subtitle"),
		authors:   displayNames("volumeInfo.authors"),
		year:      years("volumeInfo.publishedDate"),
		publisher: path("volumeInfo.publisher"),
		url:       path("volumeInfo.infoLink", "volumeInfo.canonicalVolumeLink"),
		isbn: path(
			`volumeInfo.industryIdentifiers.#(type=="ISBN_13").identifier`,
			`volumeInfo.industryIdentifiers.#(type=="ISBN_10").identifier`,
		),
	},
	engine.SchemaCourtListener: {
		typ:      constType(types.TypeLegalCase),
		title:    path("caseName", "caseNameFull"),
		year:     years("dateFiled", "dateArgued"),
		court:    path("court", "court_citation_string"),
		url:      courtListenerURL,
		caseCite: path("citation"),
	},
	engine.SchemaWebPage: {
		typ:       webType,
		title:     path("title"),
		authors:   displayNames("authors"),
		year:      years("published"),
		container: path("site_name"),
		url:       path("url"),
		doi:       path("doi"),
	},
	engine.SchemaAI: {
		typ:       aiType,
		title:     path("title"),
		authors:   displayNames("authors"),
		year:      years("year"),
		container: path("journal", "container", "newspaper", "website"),
		volume:    path("volume"),
		issue:     path("issue"),
		pages:     path("pages"),
		publisher: path("publisher"),
		place:     path("place"),
		edition:   path("edition"),
		court:     path("court"),
		url:       path("url"),
		doi:       path("doi"),
		isbn:      path("isbn"),
		caseCite:  path("case_citation", "citation"),
	},
}

func pageRange(firstPath, lastPath string) field {
	return func(r gjson.Result) string {
		first := strings.TrimSpace(r.Get(firstPath).String())
		last := strings.TrimSpace(r.Get(lastPath).String())
		switch {
		case first == "":
			return ""
		case last == "" || last == first:
			return first
		default:
			return first + "-" + last
		}
	}
}

func semanticType(r gjson.Result) types.ReferenceType {
	for _, t := range r.Get("publicationTypes").Array() {
		if strings.EqualFold(t.String(), "Book") {
			return types.TypeBook
		}
	}
	return types.TypeJournal
}

func webType(r gjson.Result) types.ReferenceType {
	if t, err := types.ParseReferenceType(r.Get("type").String()); err == nil {
		return t
	}
	if _, ok := detect.NewspaperName(r.Get("url").String()); ok {
		return types.TypeNewspaper
	}
	return types.TypeWebPage
}

func aiType(r gjson.Result) types.ReferenceType {
	t, err := types.ParseReferenceType(r.Get("citation_type").String())
	if err != nil {
		return types.TypeUnknown
	}
	return t
}

func openLibraryURL(r gjson.Result) string {
	if key := r.Get("key").String(); key != "" {
		return "https://openlibrary.org" + key
	}
	return ""
}

func courtListenerURL(r gjson.Result) string {
	if p := r.Get("absolute_url").String(); p != "" {
		if strings.HasPrefix(p, "http") {
			return p
		}
		return "https://www.courtlistener.com" + p
	}
	return ""
}
