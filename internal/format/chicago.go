// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"strings"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// chicago renders Chicago 17th edition author-date reference-list entries.
type chicago struct{ mk Markup }

func (s chicago) Render(m types.CanonicalMetadata) string {
	switch m.Type {
	case types.TypeLegalCase:
		return period(join(s.mk.italic(m.Title)+",", m.Identifiers.CaseCitation, paren(list(" ", court(m), yearOr(m.Year, "n.d.")))))
	case types.TypeBook:
		return s.book(m)
	case types.TypeNewspaper, types.TypeWebPage:
		return join(s.lead(m), quoted(m.Title, "."), period(s.mk.italic(m.Container)), period(m.URL))
	default:
		return s.article(m)
	}
}

// authors inverts the first name only. More than ten authors are cut to
// seven followed by "et al."
func (s chicago) authors(as []types.Author) string {
	if len(as) == 0 {
		return ""
	}
	names := []string{inverted(as[0])}
	names = append(names, direct(as[1:])...)
	if len(names) > 10 {
		return strings.Join(names[:7], ", ") + ", et al."
	}
	if len(names) == 2 {
		return names[0] + ", and " + names[1]
	}
	return serial(names, "and")
}

func (s chicago) lead(m types.CanonicalMetadata) string {
	return join(period(s.authors(m.Authors)), period(yearOr(m.Year, "n.d")))
}

func (s chicago) article(m types.CanonicalMetadata) string {
	src := s.mk.italic(m.Container)
	if m.Volume != "" {
		src = join(src, m.Volume)
		if m.Issue != "" {
			src += " (" + m.Issue + ")"
		}
	}
	if m.Pages != "" {
		if src != "" {
			src += ": "
		}
		src += enDash(m.Pages)
	}
	return join(s.lead(m), quoted(m.Title, "."), period(src), period(link(m.Identifiers.DOI, m.URL)))
}

func (s chicago) book(m types.CanonicalMetadata) string {
	return join(
		s.lead(m),
		period(s.mk.italic(m.Title)),
		period(edition(m.Edition, "ed")),
		period(list(": ", m.Place, m.Publisher)),
		period(link(m.Identifiers.DOI, m.URL)),
	)
}
