// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tagRe matches inline markup some sources leave in titles (<i>, <sub>, <scp>).
var tagRe = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// Fold lowercases s and strips diacritics, so "Gödel" and "Godel" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Tokens returns the folded alphanumeric words of s.
func Tokens(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// CleanTitle strips markup, collapses whitespace and drops a trailing period.
func CleanTitle(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, ". ")
}

// joinTitle appends a subtitle unless the title already carries it.
func joinTitle(title, subtitle string) string {
	title = CleanTitle(title)
	subtitle = CleanTitle(subtitle)
	if subtitle == "" || strings.Contains(Fold(title), Fold(subtitle)) {
		return title
	}
	if title == "" {
		return subtitle
	}
	return title + ": " + subtitle
}
