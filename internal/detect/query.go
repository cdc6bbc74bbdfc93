// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

var (
	// parentheticalRe matches in-text author-date citations:
	// "(Smith, 2020)", "(Smith & Jones, 2019a)", "(Smith et al., 2020)".
	parentheticalRe = regexp.MustCompile(`\(([^()]*\p{L}[^()]*?),\s*(\d{4})[a-z]?\)`)

	// yearParenRe matches the APA-style year following the author list.
	yearParenRe = regexp.MustCompile(`\((\d{4})[a-z]?(?:,\s*[^)]*)?\)`)

	// yearRe matches a plausible publication year.
	yearRe = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)

	// surnameInitialsRe matches "Smith, J." and "van der Berg, A. B." in author lists.
	surnameInitialsRe = regexp.MustCompile(`((?:\p{Ll}+\s+){0,2}\p{Lu}[\p{L}'’\-]+),\s*(?:\p{Lu}\.\s*-?)+`)

	// quotedRe matches a quoted title.
	quotedRe = regexp.MustCompile(`["“]([^"”]{4,})["”]`)

	// authorSplitRe splits author lists on "&", "and" and commas.
	authorSplitRe = regexp.MustCompile(`\s*(?:,\s*&|,\s*and\s|&|\band\b|,)\s*`)

	// etAlRe strips "et al." from author lists.
	etAlRe = regexp.MustCompile(`(?i)\s*et\s+al\.?`)
)

// ExtractQuery shapes raw citation text into a search query: identifiers,
// a title guess, author surnames, and a year. Fields that cannot be found
// are left empty; adapters fall back to the raw text.
func ExtractQuery(raw types.RawCitation) types.Query {
	text := strings.TrimSpace(raw.Text)
	q := types.Query{Text: text, URL: strings.TrimSpace(raw.URLHint)}
	if text == "" {
		return q
	}

	rest := text
	if m := doiRe.FindStringSubmatchIndex(rest); m != nil {
		q.DOI = cleanDOI(rest[m[2]:m[3]])
		rest = cut(rest, m[0], m[1])
	}
	if m := arxivRe.FindStringSubmatchIndex(rest); m != nil {
		q.ArXivID = rest[m[2]:m[3]]
		rest = cut(rest, m[0], m[1])
	}
	if m := isbnRe.FindStringSubmatchIndex(rest); m != nil {
		if isbn := CleanISBN(rest[m[2]:m[3]]); isbn != "" {
			q.ISBN = isbn
		}
		rest = cut(rest, m[0], m[1])
	}
	if m := reporterRe.FindStringSubmatch(rest); m != nil {
		q.CaseCitation = NormalizeCaseCitation(m[0])
	} else if m := neutralRe.FindStringSubmatch(rest); m != nil {
		q.CaseCitation = NormalizeCaseCitation(m[0])
	} else if m := lawReportRe.FindStringSubmatch(rest); m != nil {
		q.CaseCitation = NormalizeCaseCitation(m[0])
	}
	if q.URL == "" {
		if u := urlRe.FindString(rest); u != "" && !identifierHosts[hostOf(u)] {
			q.URL = strings.TrimRight(u, ".,;)")
		}
	}
	if q.URL != "" {
		rest = strings.Replace(rest, q.URL, " ", 1)
	}

	switch {
	case q.CaseCitation != "":
		q.Title = caseName(rest)
		q.Year = firstYear(rest)
	case parentheticalRe.MatchString(rest) && isParentheticalOnly(rest):
		m := parentheticalRe.FindStringSubmatch(rest)
		q.Authors = splitAuthors(m[1])
		q.Year, _ = strconv.Atoi(m[2])
	default:
		shapeReference(&q, rest)
	}
	return q
}

// shapeReference fills authors, year and title from a full reference:
// "Smith, J., & Jones, K. (2020). Title. Container, 1, 2-3." (author-date)
// or "Smith, John. Title. Place: Publisher, 2010." (notes-bibliography).
func shapeReference(q *types.Query, text string) {
	text = strings.Join(strings.Fields(text), " ")
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		q.Title = trimTitle(m[1])
	}

	if loc := yearParenRe.FindStringSubmatchIndex(text); loc != nil {
		q.Year, _ = strconv.Atoi(text[loc[2]:loc[3]])
		q.Authors = surnames(text[:loc[0]])
		if q.Title == "" {
			after := strings.TrimLeft(text[loc[1]:], " .,:")
			q.Title = trimTitle(firstSentence(after))
		}
		return
	}

	q.Year = firstYear(text)
	head := firstSentence(text)
	if strings.Contains(head, ",") && len(head) <= 80 && len(head) < len(text) {
		q.Authors = initialedSurnames(head + ".")
		if len(q.Authors) == 0 {
			q.Authors = []string{strings.TrimSpace(strings.SplitN(head, ",", 2)[0])}
		}
		if q.Title == "" {
			after := strings.TrimLeft(text[len(head):], " .,:")
			q.Title = trimTitle(firstSentence(after))
		}
	}
}

// initialedSurnames extracts family names from "Surname, I." entries.
func initialedSurnames(segment string) []string {
	var out []string
	for _, m := range surnameInitialsRe.FindAllStringSubmatch(segment, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// surnames extracts family names from an author list segment, falling back
// to the last word of each listed name.
func surnames(segment string) []string {
	out := initialedSurnames(segment)
	if len(out) == 0 {
		segment = strings.TrimSpace(etAlRe.ReplaceAllString(segment, ""))
		segment = strings.TrimRight(segment, ". ")
		if segment != "" && len(segment) <= 60 && !strings.ContainsAny(segment, "0123456789") {
			for _, a := range splitAuthors(segment) {
				out = append(out, lastWord(a))
			}
		}
	}
	return out
}

// splitAuthors splits "Zimbardo, Johnson, & McCann" into surnames.
func splitAuthors(s string) []string {
	s = etAlRe.ReplaceAllString(s, "")
	var out []string
	for _, part := range authorSplitRe.Split(s, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// isParentheticalOnly reports whether text is just an in-text citation.
func isParentheticalOnly(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "(") && strings.HasSuffix(strings.TrimRight(t, ".;,"), ")")
}

// caseName returns the text before the first comma of a case citation,
// as in "Roe v. Wade, 410 U.S. 113 (1973)".
func caseName(text string) string {
	name := strings.TrimSpace(strings.SplitN(text, ",", 2)[0])
	if !versusRe.MatchString(name) {
		return ""
	}
	return strings.Trim(name, " *_")
}

// firstSentence returns s up to the first sentence end. A period after a
// single capital letter is an initial, not a sentence end.
func firstSentence(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r != '.' && r != '?' && r != '!' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if r == '.' && i >= 1 && unicode.IsUpper(runes[i-1]) && (i == 1 || !unicode.IsLetter(runes[i-2])) {
			continue
		}
		if r == '.' {
			return strings.TrimSpace(string(runes[:i]))
		}
		return strings.TrimSpace(string(runes[:i+1]))
	}
	return strings.TrimSpace(s)
}

func trimTitle(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"“”*_,. `)
}

func firstYear(s string) int {
	if m := yearRe.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		return y
	}
	return 0
}

func lastWord(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return strings.Trim(f[len(f)-1], ".,")
}

func cut(s string, start, end int) string {
	return s[:start] + " " + s[end:]
}

// cleanDOI strips trailing punctuation captured from prose.
func cleanDOI(doi string) string {
	return strings.TrimRight(doi, ".,;:)]}")
}

// CleanISBN returns the digits (and a trailing X) of a valid-length ISBN,
// or "" when the length is neither 10 nor 13.
func CleanISBN(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteRune('X')
		}
	}
	out := b.String()
	if len(out) != 10 && len(out) != 13 {
		return ""
	}
	return out
}

// NormalizeCaseCitation collapses spacing in a case citation so
// "410 U. S. 113" and "410 U.S. 113" compare equal.
func NormalizeCaseCitation(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, ". ", ".")
	// Restore the space before a trailing page number ("U.S.113").
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		b.WriteRune(r)
		if r == '.' && pageFollows(runes[i+1:]) {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// pageFollows reports whether rs starts with a digit run ending at a space
// or the end of input.
func pageFollows(rs []rune) bool {
	n := 0
	for n < len(rs) && unicode.IsDigit(rs[n]) {
		n++
	}
	return n > 0 && (n == len(rs) || unicode.IsSpace(rs[n]))
}
