// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// mla renders MLA 9th edition works-cited entries. Containers are built
// as a comma-separated run of elements closed by a period.
type mla struct{ mk Markup }

func (s mla) Render(m types.CanonicalMetadata) string {
	var head, container string
	var elems []string

	switch m.Type {
	case types.TypeBook:
		head = period(s.mk.italic(m.Title))
		elems = []string{edition(m.Edition, "ed."), m.Publisher, yearOr(m.Year, "")}
	case types.TypeLegalCase:
		head = period(s.mk.italic(m.Title))
		elems = []string{m.Identifiers.CaseCitation, m.Court, yearOr(m.Year, "")}
	default:
		head = quoted(m.Title, ".")
		container = s.mk.italic(m.Container)
		elems = []string{container}
		if m.Volume != "" {
			elems = append(elems, "vol. "+m.Volume)
		}
		if m.Issue != "" {
			elems = append(elems, "no. "+m.Issue)
		}
		elems = append(elems, yearOr(m.Year, ""))
		if m.Pages != "" {
			elems = append(elems, pagesPrefix(m.Pages)+enDash(m.Pages))
		}
	}

	src := list(", ", elems...)
	loc := link(m.Identifiers.DOI, m.URL)
	if m.Type == types.TypeLegalCase {
		loc = ""
	}
	return join(period(s.authors(m.Authors)), head, period(src), period(loc))
}

// authors writes one name inverted, two as "Family, Given, and Given
// Family", and three or more as the first followed by "et al."
func (s mla) authors(as []types.Author) string {
	switch len(as) {
	case 0:
		return ""
	case 1:
		return inverted(as[0])
	case 2:
		return inverted(as[0]) + ", and " + as[1].Display()
	default:
		return inverted(as[0]) + ", et al."
	}
}

func pagesPrefix(pages string) string {
	if firstPage(pages) != hyphen(pages) {
		return "pp. "
	}
	return "p. "
}
