// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"regexp"
	"strings"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// usReportsRe matches citations to the United States Reports, which carry
// no court in the parenthetical.
var usReportsRe = regexp.MustCompile(`\bU\.\s?S\.\s+\d`)

// bluebook renders Bluebook (21st ed.) full citations.
type bluebook struct{ mk Markup }

func (s bluebook) Render(m types.CanonicalMetadata) string {
	year := yearOr(m.Year, "")
	switch m.Type {
	case types.TypeLegalCase:
		cite := m.Identifiers.CaseCitation
		if strings.HasPrefix(cite, "[") {
			return period(join(s.mk.italic(m.Title), cite, paren(m.Court)))
		}
		return period(join(s.mk.italic(m.Title)+",", cite, paren(list(" ", court(m), year))))
	case types.TypeBook:
		return period(join(list(", ", s.authors(m.Authors), s.mk.italic(m.Title)), paren(list(" ", edition(m.Edition, "ed."), year))))
	case types.TypeNewspaper, types.TypeWebPage:
		return period(list(", ", s.authors(m.Authors), s.mk.italic(m.Title), join(m.Container, paren(year)), m.URL))
	default:
		src := join(m.Volume, m.Container, firstPage(m.Pages), paren(year))
		return period(list(", ", s.authors(m.Authors), s.mk.italic(m.Title), src, doiURL(m.Identifiers.DOI)))
	}
}

// authors writes "A & B" for two authors and "A et al." beyond that.
func (s bluebook) authors(as []types.Author) string {
	names := direct(as)
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " & " + names[1]
	default:
		return names[0] + " et al."
	}
}

// oscola renders OSCOLA (4th ed.) footnote citations. OSCOLA drops full
// stops from abbreviations, so "v." and "U.S." lose their periods.
type oscola struct{ mk Markup }

func (s oscola) Render(m types.CanonicalMetadata) string {
	year := yearOr(m.Year, "")
	switch m.Type {
	case types.TypeLegalCase:
		name := s.mk.italic(noStops(m.Title))
		cite := noStops(m.Identifiers.CaseCitation)
		if strings.HasPrefix(cite, "[") || year == "" {
			return period(join(name, cite))
		}
		return period(join(name, cite, paren(year)))
	case types.TypeBook:
		pub := list(", ", edition(m.Edition, "edn"), join(m.Publisher, year))
		return period(join(list(", ", s.authors(m.Authors), s.mk.italic(m.Title)), paren(pub)))
	case types.TypeNewspaper:
		return period(join(list(", ", s.authors(m.Authors), singleQuoted(m.Title)), s.mk.italic(m.Container), paren(year), s.mk.angled(m.URL)))
	case types.TypeWebPage:
		return period(join(list(", ", s.authors(m.Authors), singleQuoted(m.Title)), paren(list(", ", m.Container, year)), s.mk.angled(m.URL)))
	default:
		head := list(", ", s.authors(m.Authors), singleQuoted(m.Title))
		return period(join(head, paren(year), m.Volume, m.Container, firstPage(m.Pages)))
	}
}

// authors lists up to three names joined with "and"; more become
// "First and others".
func (s oscola) authors(as []types.Author) string {
	names := direct(as)
	if len(names) > 3 {
		return names[0] + " and others"
	}
	if len(names) == 3 {
		return names[0] + ", " + names[1] + " and " + names[2]
	}
	return strings.Join(names, " and ")
}

// noStops removes full stops after abbreviations: "Roe v. Wade" becomes
// "Roe v Wade" and "410 U.S. 113" becomes "410 US 113".
func noStops(s string) string {
	s = strings.ReplaceAll(s, " v. ", " v ")
	var b strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		if r == '.' && i > 0 && isAbbrevStop(rs, i) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// isAbbrevStop reports whether the period at i follows a one- or
// two-letter abbreviation such as "U." or "Ct.".
func isAbbrevStop(rs []rune, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && (rs[j] >= 'A' && rs[j] <= 'Z' || rs[j] >= 'a' && rs[j] <= 'z'); j-- {
		n++
	}
	return n >= 1 && n <= 3
}

// court returns the deciding court, or "" for the United States Reports
// where the reporter already names it.
func court(m types.CanonicalMetadata) string {
	if usReportsRe.MatchString(m.Identifiers.CaseCitation) {
		return ""
	}
	return m.Court
}

func paren(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return ""
	}
	return "(" + s + ")"
}
