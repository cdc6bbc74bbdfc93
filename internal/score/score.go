// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes how well a candidate record matches the citation
// the user typed. The same score ranks hits and drives tier escalation.
package score

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/cite-resolver/internal/normalize"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// Weights of the similarity components. Components the input does not
// carry are left out and the remaining weights rescaled.
const (
	titleWeight  = 0.60
	authorWeight = 0.25
	yearWeight   = 0.15
)

// degradedPenalty is taken per missing required field, down to degradedFloor.
const (
	degradedPenalty = 0.05
	degradedFloor   = 0.80
)

// journalYearPenalty applies to journal candidates whose year is more than
// one year from the cited year.
const journalYearPenalty = 0.85

// stopwords are ignored when comparing titles.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "and": true, "in": true,
	"on": true, "for": true, "to": true, "with": true, "at": true, "by": true,
	"from": true, "is": true, "&": true,
}

// Score returns the match quality of cand against q in [0,1]. An exact
// identifier match scores 1. It is deterministic and side-effect free.
func Score(q types.Query, cand types.CanonicalMetadata) float64 {
	if ExactMatch(q, cand) {
		return 1
	}
	if strings.TrimSpace(q.Text) == "" && q.Title == "" {
		return 0
	}

	var sum, weight float64
	add := func(v, w float64) {
		sum += v * w
		weight += w
	}

	add(titleSimilarity(q, cand.Title), titleWeight)
	if v, ok := authorOverlap(q, cand); ok {
		add(v, authorWeight)
	}
	if v, ok := yearProximity(q.Year, cand.Year); ok {
		add(v, yearWeight)
	}

	s := sum / weight
	if cand.Type == types.TypeJournal && q.Year > 0 && cand.Year > 0 && abs(q.Year-cand.Year) > 1 {
		s *= journalYearPenalty
	}
	if n := len(cand.Degraded); n > 0 {
		s *= math.Max(degradedFloor, 1-degradedPenalty*float64(n))
	}
	return round(clamp(s))
}

// ExactMatch reports whether q and cand share an exact identifier.
func ExactMatch(q types.Query, cand types.CanonicalMetadata) bool {
	id := cand.Identifiers
	switch {
	case q.DOI != "" && id.DOI != "" && strings.EqualFold(normalize.CleanDOI(q.DOI), id.DOI):
		return true
	case q.ISBN != "" && id.ISBN != "" && isbn13(q.ISBN) == isbn13(id.ISBN):
		return true
	case q.ArXivID != "" && id.ArXivID != "" && stripVersion(q.ArXivID) == stripVersion(id.ArXivID):
		return true
	case q.CaseCitation != "" && id.CaseCitation != "" && strings.EqualFold(q.CaseCitation, id.CaseCitation):
		return true
	}
	return false
}

// Rank scores every candidate, stores the score as its Confidence, and
// returns them sorted by descending score. Ties keep input order.
func Rank(q types.Query, cands []types.CanonicalMetadata) []types.CanonicalMetadata {
	out := make([]types.CanonicalMetadata, len(cands))
	for i, c := range cands {
		c.Confidence = Score(q, c)
		out[i] = c
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

// titleSimilarity is the better of token Dice against the title guess and
// containment of the candidate title inside the raw text.
func titleSimilarity(q types.Query, title string) float64 {
	cand := significant(normalize.Tokens(title))
	if len(cand) == 0 {
		return 0
	}
	var best float64
	if q.Title != "" {
		best = dice(significant(normalize.Tokens(q.Title)), cand)
	}
	if q.Text != "" {
		c := containment(cand, significant(normalize.Tokens(q.Text)))
		if len(cand) < 2 {
			c *= 0.5
		}
		best = math.Max(best, c)
	}
	return best
}

// authorOverlap compares surnames. With extracted surnames it is the share
// found among the candidate's authors; otherwise it is the share of the
// candidate's leading surnames that appear in the raw text.
func authorOverlap(q types.Query, cand types.CanonicalMetadata) (float64, bool) {
	candNames := make(map[string]bool)
	var ordered []string
	for _, a := range cand.Authors {
		for _, tok := range normalize.Tokens(a.Surname()) {
			if !candNames[tok] {
				ordered = append(ordered, tok)
			}
			candNames[tok] = true
		}
	}

	if len(q.Authors) > 0 {
		if len(candNames) == 0 {
			return 0, true
		}
		var hit int
		for _, name := range q.Authors {
			toks := normalize.Tokens(name)
			if len(toks) > 0 && candNames[toks[len(toks)-1]] {
				hit++
			}
		}
		return float64(hit) / float64(len(q.Authors)), true
	}

	if len(cand.Authors) == 0 || q.Text == "" {
		return 0, false
	}
	text := make(map[string]bool)
	for _, tok := range normalize.Tokens(q.Text) {
		text[tok] = true
	}
	n := len(cand.Authors)
	if n > 3 {
		n = 3
	}
	var hit int
	for _, a := range cand.Authors[:n] {
		toks := normalize.Tokens(a.Surname())
		if len(toks) > 0 && text[toks[len(toks)-1]] {
			hit++
		}
	}
	return float64(hit) / float64(n), true
}

// yearProximity is 1 for the same year, 0.5 one year apart, else 0.
func yearProximity(want, got int) (float64, bool) {
	if want == 0 {
		return 0, false
	}
	switch d := abs(want - got); {
	case got == 0:
		return 0, true
	case d == 0:
		return 1, true
	case d == 1:
		return 0.5, true
	default:
		return 0, true
	}
}

func significant(toks []string) []string {
	var out []string
	for _, t := range toks {
		if !stopwords[t] {
			out = append(out, t)
		}
	}
	return out
}

func dice(a, b []string) float64 {
	as, bs := set(a), set(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	var inter int
	for t := range as {
		if bs[t] {
			inter++
		}
	}
	return 2 * float64(inter) / float64(len(as)+len(bs))
}

// containment is the share of needle tokens present in haystack.
func containment(needle, haystack []string) float64 {
	ns, hs := set(needle), set(haystack)
	if len(ns) == 0 {
		return 0
	}
	var inter int
	for t := range ns {
		if hs[t] {
			inter++
		}
	}
	return float64(inter) / float64(len(ns))
}

func set(toks []string) map[string]bool {
	s := make(map[string]bool, len(toks))
	for _, t := range toks {
		s[t] = true
	}
	return s
}

// isbn13 converts an ISBN-10 to ISBN-13 so both forms compare equal.
func isbn13(isbn string) string {
	if len(isbn) != 10 {
		return isbn
	}
	core := "978" + isbn[:9]
	sum := 0
	for i, r := range core {
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	return core + string(rune('0'+check))
}

func stripVersion(id string) string {
	if i := strings.LastIndex(id, "v"); i > 0 {
		return id[:i]
	}
	return id
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(f float64) float64 {
	return math.Min(1, math.Max(0, f))
}

func round(f float64) float64 {
	return math.Round(f*10000) / 10000
}
