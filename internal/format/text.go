// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// join joins the non-empty parts with single spaces.
func join(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// list joins the non-empty items with sep.
func list(sep string, items ...string) string {
	var out []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return strings.Join(out, sep)
}

// closers are characters that may follow terminal punctuation.
const closers = `"'”’*`

// period ends s with a period unless it already ends with terminal
// punctuation, looking through closing quotes and markup.
func period(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	core := strings.TrimRight(strings.TrimSuffix(s, "</i>"), closers)
	if strings.HasSuffix(core, "<i>") {
		core = strings.TrimSuffix(core, "<i>")
	}
	if r, _ := utf8.DecodeLastRuneInString(core); r == '.' || r == '?' || r == '!' {
		return s
	}
	return s + "."
}

// quoted wraps a title in double quotes with the closing punctuation
// inside: "Title." or "Title?".
func quoted(title, punct string) string {
	if title == "" {
		return ""
	}
	if r, _ := utf8.DecodeLastRuneInString(title); r == '?' || r == '!' {
		return `"` + title + `"`
	}
	return `"` + title + punct + `"`
}

// singleQuoted is quoted with single quotes and no inner punctuation.
func singleQuoted(title string) string {
	if title == "" {
		return ""
	}
	return "‘" + title + "’"
}

var hyphenRangeRe = regexp.MustCompile(`(\w)\s*(?:-{1,2}|–)\s*(\w)`)

// enDash writes a page range with an en dash: "123-456" becomes "123–456".
func enDash(pages string) string {
	return hyphenRangeRe.ReplaceAllString(strings.TrimSpace(pages), "$1–$2")
}

// hyphen writes a page range with a plain hyphen.
func hyphen(pages string) string {
	return hyphenRangeRe.ReplaceAllString(strings.TrimSpace(pages), "$1-$2")
}

// firstPage returns the start of a page range.
func firstPage(pages string) string {
	p := hyphen(pages)
	if i := strings.IndexByte(p, '-'); i > 0 {
		return p[:i]
	}
	return p
}

func yearOr(y int, missing string) string {
	if y <= 0 {
		return missing
	}
	return strconv.Itoa(y)
}

func doiURL(doi string) string {
	if doi == "" {
		return ""
	}
	return "https://doi.org/" + doi
}

// link returns the DOI URL, falling back to the record URL.
func link(doi, url string) string {
	if d := doiURL(doi); d != "" {
		return d
	}
	return url
}

// sentenceCase lowercases title-cased words, keeping the first word of
// the title and of each subtitle capitalized. Acronyms and words with
// inner capitals ("McGraw", "iPhone") are left alone.
func sentenceCase(title string) string {
	words := strings.Fields(title)
	capNext := true
	for i, w := range words {
		switch {
		case capNext:
			words[i] = upperFirst(w)
		case isTitleCased(w):
			words[i] = strings.ToLower(w)
		}
		r, _ := utf8.DecodeLastRuneInString(w)
		capNext = r == ':' || r == '?' || r == '!' || r == '.' && !isInitial(w)
	}
	return strings.Join(words, " ")
}

// isTitleCased reports a capital first letter followed only by lowercase.
func isTitleCased(w string) bool {
	first := true
	letters := 0
	for _, r := range w {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if first {
			if !unicode.IsUpper(r) {
				return false
			}
			first = false
			continue
		}
		if unicode.IsUpper(r) {
			return false
		}
	}
	return letters > 1
}

func isInitial(w string) bool {
	return utf8.RuneCountInString(strings.TrimSuffix(w, ".")) == 1
}

func upperFirst(w string) string {
	r, n := utf8.DecodeRuneInString(w)
	if n == 0 {
		return w
	}
	return string(unicode.ToUpper(r)) + w[n:]
}

// ordinal renders 2 as "2nd".
func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// edition renders "2" as "2nd ed." and passes other text through.
func edition(e, abbrev string) string {
	e = strings.TrimSpace(e)
	if e == "" || e == "1" {
		return ""
	}
	if n, err := strconv.Atoi(e); err == nil {
		return ordinal(n) + " " + abbrev
	}
	return e
}
