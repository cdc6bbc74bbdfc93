// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// particles are lowercase name prefixes that belong to the family name.
var particles = map[string]bool{
	"van": true, "von": true, "der": true, "den": true, "de": true, "del": true,
	"della": true, "da": true, "di": true, "du": true, "la": true, "le": true,
	"dos": true, "das": true, "ter": true, "bin": true, "al": true,
}

// suffixes are generational suffixes kept with the given name.
var suffixes = map[string]bool{"jr": true, "jr.": true, "sr": true, "sr.": true, "ii": true, "iii": true, "iv": true}

// orgRe detects corporate authors that must not be split.
var orgRe = regexp.MustCompile(`(?i)\b(?:inc|ltd|llc|university|institute|association|society|committee|council|organization|organisation|agency|department|group|consortium|foundation|court|office|team|collaboration)\b`)

// ParseName turns a display name into a structured Author. It accepts
// "First Last", "Last, First", "Last FM" (MEDLINE) and corporate names.
func ParseName(raw string) types.Author {
	s := strings.Join(strings.Fields(strings.TrimSpace(raw)), " ")
	s = strings.Trim(s, ",;")
	if s == "" {
		return types.Author{}
	}
	if orgRe.MatchString(s) {
		return types.Author{Literal: s}
	}

	if i := strings.Index(s, ","); i > 0 {
		family := strings.TrimSpace(s[:i])
		given := strings.TrimSpace(s[i+1:])
		if suffixes[strings.ToLower(given)] {
			return ParseName(family + " " + given)
		}
		return types.Author{Given: given, Family: family}
	}

	words := strings.Fields(s)
	if len(words) == 1 {
		return types.Author{Family: words[0]}
	}

	// MEDLINE "Smith JA": trailing all-caps initials block of 1-3 letters.
	last := words[len(words)-1]
	if len(words) == 2 && isInitials(last) {
		return types.Author{Given: spaceInitials(last), Family: words[0]}
	}

	var suffix string
	if suffixes[strings.ToLower(last)] {
		suffix = last
		words = words[:len(words)-1]
	}

	// Family starts at the first particle before the last word, else the last word.
	start := len(words) - 1
	for start > 1 && particles[strings.ToLower(words[start-1])] {
		start--
	}
	given := strings.Join(words[:start], " ")
	if suffix != "" {
		given += " " + suffix
	}
	return types.Author{Given: strings.TrimSpace(given), Family: strings.Join(words[start:], " ")}
}

// ParseNames parses each name and drops empties.
func ParseNames(raw []string) []types.Author {
	var out []types.Author
	for _, r := range raw {
		if a := ParseName(r); a.Surname() != "" {
			out = append(out, a)
		}
	}
	return out
}

func isInitials(s string) bool {
	if len(s) == 0 || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func spaceInitials(s string) string {
	parts := make([]string, 0, len(s))
	for _, r := range s {
		parts = append(parts, string(r)+".")
	}
	return strings.Join(parts, " ")
}
