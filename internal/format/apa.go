// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"strings"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// apa renders APA 7th edition reference-list entries.
type apa struct{ mk Markup }

func (s apa) Render(m types.CanonicalMetadata) string {
	switch m.Type {
	case types.TypeLegalCase:
		return s.legal(m)
	case types.TypeBook:
		return s.book(m)
	case types.TypeNewspaper, types.TypeWebPage:
		return s.web(m)
	default:
		return s.article(m)
	}
}

// authors lists up to 20 names; longer lists keep the first 19 and the last.
func (s apa) authors(as []types.Author) string {
	var names []string
	for _, a := range as {
		if n := initialed(a); n != "" {
			names = append(names, n)
		}
	}
	switch n := len(names); {
	case n == 0:
		return ""
	case n == 1:
		return names[0]
	case n <= 20:
		return strings.Join(names[:n-1], ", ") + ", & " + names[n-1]
	default:
		return strings.Join(names[:19], ", ") + ", . . . " + names[n-1]
	}
}

// lead writes "Author. (Year). Title." or, without authors, moves the
// title into the author position.
func (s apa) lead(m types.CanonicalMetadata, title string) string {
	year := "(" + yearOr(m.Year, "n.d.") + ")."
	if a := s.authors(m.Authors); a != "" {
		return join(period(a), year, period(title))
	}
	return join(period(title), year)
}

func (s apa) article(m types.CanonicalMetadata) string {
	var src string
	if m.Container != "" {
		src = s.mk.italic(m.Container)
		if m.Volume != "" {
			vol := s.mk.italic(m.Volume)
			if m.Issue != "" {
				vol += "(" + m.Issue + ")"
			}
			src += ", " + vol
		}
		if m.Pages != "" {
			src += ", " + enDash(m.Pages)
		}
	}
	return join(s.lead(m, sentenceCase(m.Title)), period(src), link(m.Identifiers.DOI, m.URL))
}

func (s apa) book(m types.CanonicalMetadata) string {
	title := s.mk.italic(sentenceCase(m.Title))
	if ed := edition(m.Edition, "ed."); ed != "" {
		title += " (" + ed + ")"
	}
	return join(s.lead(m, title), period(m.Publisher), link(m.Identifiers.DOI, m.URL))
}

func (s apa) legal(m types.CanonicalMetadata) string {
	return period(join(s.mk.italic(m.Title)+",", m.Identifiers.CaseCitation, paren(list(" ", court(m), yearOr(m.Year, "")))))
}

func (s apa) web(m types.CanonicalMetadata) string {
	title := sentenceCase(m.Title)
	site := m.Container
	if m.Type == types.TypeWebPage {
		title = s.mk.italic(title)
	} else {
		site = s.mk.italic(site)
	}
	return join(s.lead(m, title), period(site), m.URL)
}
