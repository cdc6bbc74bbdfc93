// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize translates raw hits from every source into the single
// canonical metadata record. Each source schema has a mapping table; the
// translation is total, so malformed input is dropped, never propagated.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/cite-resolver/internal/detect"
	"github.com/pdiddy/cite-resolver/internal/engine"
	"github.com/pdiddy/cite-resolver/internal/logger"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// Degradation notes recorded when a source omits a field the record's
// type normally carries.
const (
	MissingAuthors   = "authors"
	MissingYear      = "year"
	MissingContainer = "container"
	MissingPublisher = "publisher"
	MissingCourt     = "court"
	MissingCaseCite  = "case_citation"
	MissingURL       = "url"
)

// required lists the fields each type is expected to carry.
var required = map[types.ReferenceType][]string{
	types.TypeJournal:   {MissingAuthors, MissingYear, MissingContainer},
	types.TypeBook:      {MissingAuthors, MissingYear, MissingPublisher},
	types.TypeLegalCase: {MissingYear, MissingCourt, MissingCaseCite},
	types.TypeNewspaper: {MissingYear, MissingContainer},
	types.TypeWebPage:   {MissingURL},
	types.TypeUnknown:   {MissingAuthors, MissingYear},
}

// Normalizer maps raw hits to canonical records.
type Normalizer struct {
	Log logger.Logger
}

// New returns a Normalizer that logs dropped hits to log.
func New(log logger.Logger) *Normalizer {
	if log == nil {
		log = logger.Discard()
	}
	return &Normalizer{Log: log}
}

// Normalize translates hit into canonical metadata. The boolean is false
// when the hit is dropped: unknown schema, invalid JSON, empty title, or
// nothing that identifies the work. Confidence is left at zero for the
// scorer to fill in.
func (n *Normalizer) Normalize(hit engine.RawHit) (types.CanonicalMetadata, bool) {
	log := n.Log
	if log == nil {
		log = logger.Discard()
	}

	if !gjson.ValidBytes(hit.Payload) {
		log.Debug("dropping hit with invalid JSON", "engine", hit.Engine, "schema", hit.Schema)
		return types.CanonicalMetadata{}, false
	}

	var meta types.CanonicalMetadata
	if hit.Schema == engine.SchemaCanonical {
		if err := json.Unmarshal(hit.Payload, &meta); err != nil {
			log.Debug("dropping canonical hit", "engine", hit.Engine, "error", err)
			return types.CanonicalMetadata{}, false
		}
		meta.Confidence = 0
		meta.Degraded = nil
	} else {
		m, ok := mappings[hit.Schema]
		if !ok {
			log.Debug("dropping hit with unknown schema", "engine", hit.Engine, "schema", hit.Schema)
			return types.CanonicalMetadata{}, false
		}
		meta = apply(m, gjson.ParseBytes(hit.Payload))
	}

	meta.Source = hit.Engine
	meta.Title = CleanTitle(meta.Title)
	meta.Identifiers = cleanIdentifiers(meta.Identifiers)
	if meta.Type == "" || !meta.Type.Valid() {
		meta.Type = types.TypeUnknown
	}
	if meta.Container == "" && meta.Type == types.TypeNewspaper {
		meta.Container, _ = detect.NewspaperName(meta.URL)
	}

	if meta.Title == "" {
		log.Debug("dropping hit with empty title", "engine", hit.Engine)
		return types.CanonicalMetadata{}, false
	}
	if !meta.Identifiable() {
		log.Debug("dropping unidentifiable hit", "engine", hit.Engine, "title", meta.Title)
		return types.CanonicalMetadata{}, false
	}

	meta.Degraded = degraded(meta)
	return meta, true
}

// NormalizeAll normalizes hits in order, skipping dropped ones.
func (n *Normalizer) NormalizeAll(hits []engine.RawHit) []types.CanonicalMetadata {
	out := make([]types.CanonicalMetadata, 0, len(hits))
	for _, h := range hits {
		if m, ok := n.Normalize(h); ok {
			out = append(out, m)
		}
	}
	return out
}

func apply(m mapping, r gjson.Result) types.CanonicalMetadata {
	get := func(f field) string {
		if f == nil {
			return ""
		}
		return f(r)
	}
	meta := types.CanonicalMetadata{
		Title:     joinTitle(get(m.title), get(m.subtitle)),
		Container: CleanTitle(get(m.container)),
		Volume:    get(m.volume),
		Issue:     get(m.issue),
		Pages:     get(m.pages),
		Publisher: get(m.publisher),
		Place:     get(m.place),
		Edition:   get(m.edition),
		Court:     get(m.court),
		URL:       get(m.url),
		Identifiers: types.Identifiers{
			DOI:          get(m.doi),
			ISBN:         get(m.isbn),
			ArXivID:      get(m.arxiv),
			PMID:         get(m.pmid),
			CaseCitation: get(m.caseCite),
		},
	}
	if m.typ != nil {
		meta.Type = m.typ(r)
	}
	if m.authors != nil {
		meta.Authors = m.authors(r)
	}
	if m.year != nil {
		meta.Year = m.year(r)
	}
	return meta
}

func cleanIdentifiers(id types.Identifiers) types.Identifiers {
	id.DOI = CleanDOI(id.DOI)
	if id.ISBN != "" {
		id.ISBN = detect.CleanISBN(id.ISBN)
	}
	id.ArXivID = strings.TrimPrefix(strings.TrimSpace(id.ArXivID), "arXiv:")
	id.PMID = lastSegment(id.PMID)
	if id.CaseCitation != "" {
		id.CaseCitation = detect.NormalizeCaseCitation(id.CaseCitation)
	}
	return id
}

// CleanDOI strips resolver and "doi:" prefixes and returns "" for values
// that are not DOIs.
func CleanDOI(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, p := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	if !strings.HasPrefix(s, "10.") || !strings.Contains(s, "/") {
		return ""
	}
	return strings.TrimRight(s, ".,;")
}

func lastSegment(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func degraded(m types.CanonicalMetadata) []string {
	var notes []string
	for _, f := range required[m.Type] {
		var missing bool
		switch f {
		case MissingAuthors:
			missing = len(m.Authors) == 0
		case MissingYear:
			missing = m.Year == 0
		case MissingContainer:
			missing = m.Container == ""
		case MissingPublisher:
			missing = m.Publisher == ""
		case MissingCourt:
			missing = m.Court == ""
		case MissingCaseCite:
			missing = m.Identifiers.CaseCitation == ""
		case MissingURL:
			missing = m.URL == ""
		}
		if missing {
			notes = append(notes, f)
		}
	}
	return notes
}
