// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package detect classifies raw citation text into candidate reference
// types and shapes the text into a search query. Detection is pure and
// makes no network calls.
package detect

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// Identifier and lexical patterns.
var (
	// doiRe matches DOIs with optional "doi:" or resolver prefix.
	doiRe = regexp.MustCompile(`(?i)(?:doi[:\s]*|https?://(?:dx\.)?doi\.org/)?\b(10\.\d{4,9}/[^\s"<>]+)`)

	// arxivRe matches "arXiv:2301.07041", "arXiv 2301.07041v2" and arxiv.org URLs.
	arxivRe = regexp.MustCompile(`(?i)(?:arxiv[:\s]*|arxiv\.org/(?:abs|pdf)/)(\d{4}\.\d{4,5}(?:v\d+)?)`)

	// isbnRe matches "ISBN 978-0-19-953556-9", "ISBN-10: 0262033844".
	isbnRe = regexp.MustCompile(`(?i)\bISBN(?:-1[03])?[:\s]*([0-9][0-9\- ]{8,16}[0-9Xx])\b`)

	// reporterRe matches US reporter citations: "410 U.S. 113",
	// "93 S. Ct. 705", "35 L. Ed. 2d 147", "999 F.2d 123", "123 F. Supp. 3d 45".
	reporterRe = regexp.MustCompile(`\b(\d{1,4})\s+(U\.\s?S\.|S\.\s?Ct\.|L\.\s?Ed\.(?:\s?2d)?|F\.\s?Supp\.(?:\s?[23]d)?|F\.(?:\s?(?:2d|3d|4th))?)\s+(\d{1,5})\b`)

	// neutralRe matches UK and Irish neutral citations: "[2024] UKSC 1",
	// "[2023] EWCA Civ 123", "[2022] EWHC 456 (Ch)".
	neutralRe = regexp.MustCompile(`\[(\d{4})\]\s+(UKSC|UKHL|UKPC|UKUT|UKFTT|EWCA\s+(?:Civ|Crim)|EWHC|EWFC|CSIH|CSOH|NICA|IESC|IEHC)\s+(\d+)(?:\s+\([A-Za-z]+\))?`)

	// lawReportRe matches English law report citations: "[1932] AC 562",
	// "[2001] 1 WLR 1234".
	lawReportRe = regexp.MustCompile(`\[(\d{4})\]\s+(?:\d\s+)?(AC|QB|KB|Ch|Fam|WLR|All\s?ER)\s+(\d+)`)

	// versusRe matches a case name separator: "Roe v. Wade", "Smith v Jones".
	versusRe = regexp.MustCompile(`\S\s+vs?\.?\s+[A-Z]`)

	// volumePagesRe matches "580, 123-456", "12(3), 45-67", "12(3): 45".
	volumePagesRe = regexp.MustCompile(`\b\d{1,4}\s*(?:\(\d{1,4}\))?\s*[,:]\s*(?:pp?\.\s*)?\d+\s*[-–]\s*\d+\b|\b\d{1,4}\s*\(\d{1,4}\)\s*:\s*\d+`)

	// volumeRe matches "vol. 12" and "Volume 3".
	volumeRe = regexp.MustCompile(`(?i)\bvol(?:ume)?\.?\s*\d+`)

	// journalWordRe matches words that name periodicals.
	journalWordRe = regexp.MustCompile(`(?i)\b(?:journal|proceedings|quarterly|review|annals|transactions|bulletin)\b`)

	// publisherRe matches publisher words, as in "(Oxford University Press, 2010)".
	publisherRe = regexp.MustCompile(`(?i)\b(?:press|publishers?|publishing|verlag)\b`)

	// editionRe matches "2nd ed.", "3rd edition".
	editionRe = regexp.MustCompile(`(?i)\b\d+(?:st|nd|rd|th)\s+ed(?:ition|\.)`)

	// bookReviewRe matches reviews of books.
	bookReviewRe = regexp.MustCompile(`(?i)\b(?:book\s+review|review\s+of|reviewed\s+by)\b`)

	// urlRe matches http(s) and www URLs anywhere in the text.
	urlRe = regexp.MustCompile(`(?i)\bhttps?://[^\s<>"]+|\bwww\.[^\s<>"]+`)

	// newsDateRe matches "March 3, 2021" style dates common in news citations.
	newsDateRe = regexp.MustCompile(`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+\d{1,2},\s+\d{4}\b`)

	// authorYearRe matches "(2020)", "(2020a)" and "Smith, 2020)".
	authorYearRe = regexp.MustCompile(`\(\d{4}[a-z]?\)|,\s*\d{4}[a-z]?\)`)

	// newspaperNameRe matches print newspaper names.
	newspaperNameRe = regexp.MustCompile(`(?i)\b(?:new york times|washington post|wall street journal|the guardian|financial times|the times|los angeles times|the economist|associated press|reuters)\b`)
)

// identifierHosts are URL hosts that point at a scholarly record rather
// than a web page.
var identifierHosts = map[string]bool{
	"doi.org":    true,
	"dx.doi.org": true,
	"arxiv.org":  true,
}

// boost is one signal's contribution to one type.
type boost struct {
	t types.ReferenceType
	s float64
}

// signal is a lexical feature of the input that raises one or more types.
type signal struct {
	name   string
	fire   func(text string) bool
	boosts []boost
}

func matches(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

var signals = []signal{
	{"doi", matches(doiRe), []boost{{types.TypeJournal, 0.9}}},
	{"arxiv", matches(arxivRe), []boost{{types.TypeJournal, 0.85}}},
	{"isbn", matches(isbnRe), []boost{{types.TypeBook, 0.9}}},
	{"reporter", matches(reporterRe), []boost{{types.TypeLegalCase, 0.9}}},
	{"neutral", matches(neutralRe), []boost{{types.TypeLegalCase, 0.9}}},
	{"law_report", matches(lawReportRe), []boost{{types.TypeLegalCase, 0.85}}},
	{"versus", matches(versusRe), []boost{{types.TypeLegalCase, 0.5}}},
	{"volume_pages", matches(volumePagesRe), []boost{{types.TypeJournal, 0.5}}},
	{"volume", matches(volumeRe), []boost{{types.TypeJournal, 0.3}}},
	{"journal_word", matches(journalWordRe), []boost{{types.TypeJournal, 0.4}}},
	{"publisher", matches(publisherRe), []boost{{types.TypeBook, 0.55}}},
	{"edition", matches(editionRe), []boost{{types.TypeBook, 0.4}}},
	{"book_review", matches(bookReviewRe), []boost{{types.TypeBook, 0.5}, {types.TypeJournal, 0.3}}},
	{"url", webURL, []boost{{types.TypeWebPage, 0.8}}},
	{"news_url", newsURL, []boost{{types.TypeNewspaper, 0.9}}},
	{"news_name", matches(newspaperNameRe), []boost{{types.TypeNewspaper, 0.6}}},
	{"news_date", matches(newsDateRe), []boost{{types.TypeNewspaper, 0.3}, {types.TypeWebPage, 0.1}}},
	{"author_year", matches(authorYearRe), []boost{{types.TypeJournal, 0.3}, {types.TypeBook, 0.25}}},
}

// webURL fires for URLs that are neither scholarly resolvers nor news sites.
func webURL(text string) bool {
	for _, u := range urlRe.FindAllString(text, -1) {
		if identifierHosts[hostOf(u)] {
			continue
		}
		if _, ok := NewspaperName(u); ok {
			continue
		}
		return true
	}
	return false
}

func newsURL(text string) bool {
	for _, u := range urlRe.FindAllString(text, -1) {
		if _, ok := NewspaperName(u); ok {
			return true
		}
	}
	return false
}

// Detect returns candidate reference types for text, sorted by descending
// score with ties broken by type order. Each signal that fires contributes
// its boost; boosts to the same type combine as 1-Π(1-s), so scores stay in
// [0,1] and agreeing signals reinforce each other. Text with no signal,
// blank text included, yields {Unknown: 1.0}.
func Detect(text string) []types.TypeScore {
	text = strings.TrimSpace(text)

	miss := make(map[types.ReferenceType]float64)
	for _, sig := range signals {
		if !sig.fire(text) {
			continue
		}
		for _, b := range sig.boosts {
			m, ok := miss[b.t]
			if !ok {
				m = 1
			}
			miss[b.t] = m * (1 - b.s)
		}
	}

	if len(miss) == 0 {
		return []types.TypeScore{{Type: types.TypeUnknown, Score: 1.0}}
	}

	out := make([]types.TypeScore, 0, len(miss))
	for t, m := range miss {
		out = append(out, types.TypeScore{Type: t, Score: round(1 - m)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Type.Rank() < out[j].Type.Rank()
	})
	return out
}

// Signals returns the names of the signals that fire for text, in table
// order. Used by the CLI to explain a detection.
func Signals(text string) []string {
	var names []string
	for _, sig := range signals {
		if sig.fire(text) {
			names = append(names, sig.name)
		}
	}
	return names
}

// Candidates picks the types to search. With a hint, only the hint is
// searched. Otherwise the top type is used alone when its score reaches
// ambiguity, and the top fanOut types are used when it does not.
func Candidates(detected []types.TypeScore, hint types.ReferenceType, ambiguity float64, fanOut int) []types.ReferenceType {
	if hint != "" {
		return []types.ReferenceType{hint}
	}
	if len(detected) == 0 {
		return nil
	}
	n := 1
	if detected[0].Score < ambiguity {
		n = fanOut
	}
	if n > len(detected) {
		n = len(detected)
	}
	out := make([]types.ReferenceType, 0, n)
	for _, ts := range detected[:n] {
		out = append(out, ts.Type)
	}
	return out
}

// round keeps four decimals so scores print and compare stably.
func round(f float64) float64 {
	return float64(int64(f*10000+0.5)) / 10000
}
