// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"strings"
	"unicode"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// initials turns "John Ronald" into "J. R." and "Jean-Paul" into "J.-P.".
func initials(given string) string {
	parts := strings.FieldsFunc(given, func(r rune) bool { return r == ' ' || r == '.' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		var sub []string
		for _, h := range strings.Split(p, "-") {
			if r := firstLetter(h); r != 0 {
				sub = append(sub, string(unicode.ToUpper(r))+".")
			}
		}
		if len(sub) > 0 {
			out = append(out, strings.Join(sub, "-"))
		}
	}
	return strings.Join(out, " ")
}

func firstLetter(s string) rune {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return r
		}
	}
	return 0
}

// inverted writes "Family, Given".
func inverted(a types.Author) string {
	if a.Family == "" {
		return a.Literal
	}
	if a.Given == "" {
		return a.Family
	}
	return a.Family + ", " + a.Given
}

// initialed writes "Family, G. M.".
func initialed(a types.Author) string {
	if a.Family == "" {
		return a.Literal
	}
	if in := initials(a.Given); in != "" {
		return a.Family + ", " + in
	}
	return a.Family
}

// serial joins names with commas and a final conjunction, adding the
// serial comma when there are three or more: "A and B", "A, B, and C".
func serial(names []string, conj string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " " + conj + " " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", " + conj + " " + names[len(names)-1]
}

// direct writes every author as "Given Family".
func direct(authors []types.Author) []string {
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		if d := a.Display(); d != "" {
			out = append(out, d)
		}
	}
	return out
}
