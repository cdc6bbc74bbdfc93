// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strconv"

	"github.com/tidwall/gjson"
)

// yearRe finds a four-digit year in free-text dates ("2020 Mar 5",
// "c. 1998", "2017-06-12T00:00:00Z", "Spring 2004").
var yearRe = regexp.MustCompile(`\b(1[0-9]{3}|20[0-9]{2})\b`)

// ParseYear extracts the publication year from a free-text date, or 0.
func ParseYear(s string) int {
	m := yearRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return y
}

// yearOf reads a year from a JSON value that may be a number, a date
// string, or a CSL date-parts array ([[2017, 6, 12]]).
func yearOf(r gjson.Result) int {
	switch {
	case !r.Exists():
		return 0
	case r.Type == gjson.Number:
		y := int(r.Int())
		if y < 1000 || y > 2099 {
			return 0
		}
		return y
	case r.IsArray():
		if y := yearOf(r.Get("0.0")); y > 0 {
			return y
		}
		return yearOf(r.Get("0"))
	case r.IsObject():
		return yearOf(r.Get("date-parts"))
	default:
		return ParseYear(r.String())
	}
}
