// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the cite-resolver pipeline:
// raw citation input, detected reference types, the search query shaped from
// the input, canonical bibliographic metadata, and resolution results.
//
// See docs/ARCHITECTURE.md § Data Model.
package types

import (
	"fmt"
	"strings"
)

// ReferenceType classifies what a citation refers to. The set is closed.
type ReferenceType string

const (
	TypeJournal   ReferenceType = "journal"
	TypeBook      ReferenceType = "book"
	TypeLegalCase ReferenceType = "legal_case"
	TypeNewspaper ReferenceType = "newspaper"
	TypeWebPage   ReferenceType = "web_page"
	TypeUnknown   ReferenceType = "unknown"
)

// AllReferenceTypes lists every ReferenceType in canonical order. Ties in
// detection scores are broken by this order.
var AllReferenceTypes = []ReferenceType{
	TypeJournal,
	TypeBook,
	TypeLegalCase,
	TypeNewspaper,
	TypeWebPage,
	TypeUnknown,
}

// Rank returns the position of t in AllReferenceTypes, or len(AllReferenceTypes)
// for values outside the closed set.
func (t ReferenceType) Rank() int {
	for i, rt := range AllReferenceTypes {
		if rt == t {
			return i
		}
	}
	return len(AllReferenceTypes)
}

// Valid reports whether t belongs to the closed set.
func (t ReferenceType) Valid() bool {
	return t.Rank() < len(AllReferenceTypes)
}

// ParseReferenceType converts user input ("book", "legal-case", "Journal")
// into a ReferenceType.
func ParseReferenceType(s string) (ReferenceType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "journal", "article", "journal_article":
		return TypeJournal, nil
	case "book":
		return TypeBook, nil
	case "legal_case", "legal", "case":
		return TypeLegalCase, nil
	case "newspaper", "news":
		return TypeNewspaper, nil
	case "web_page", "webpage", "web", "url":
		return TypeWebPage, nil
	case "unknown":
		return TypeUnknown, nil
	}
	return "", fmt.Errorf("unknown reference type %q", s)
}

// TypeScore pairs a candidate ReferenceType with a detection score in [0,1].
type TypeScore struct {
	Type  ReferenceType `json:"type" yaml:"type"`
	Score float64       `json:"score" yaml:"score"`
}

// RawCitation is the immutable input to a resolution request.
type RawCitation struct {
	// Text is the citation as the author typed it.
	Text string `json:"text" yaml:"text"`

	// TypeHint, when set, skips detection and commits to that type.
	TypeHint ReferenceType `json:"type_hint,omitempty" yaml:"type_hint,omitempty"`

	// URLHint is a known URL for the cited work.
	URLHint string `json:"url_hint,omitempty" yaml:"url_hint,omitempty"`
}

// Query is the search request shaped from a RawCitation. Adapters read the
// fields they understand and ignore the rest.
type Query struct {
	Text         string          `json:"text" yaml:"text"`
	Title        string          `json:"title,omitempty" yaml:"title,omitempty"`
	Authors      []string        `json:"authors,omitempty" yaml:"authors,omitempty"` // surnames
	Year         int             `json:"year,omitempty" yaml:"year,omitempty"`
	DOI          string          `json:"doi,omitempty" yaml:"doi,omitempty"`
	ISBN         string          `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	ArXivID      string          `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	CaseCitation string          `json:"case_citation,omitempty" yaml:"case_citation,omitempty"`
	URL          string          `json:"url,omitempty" yaml:"url,omitempty"`
	Types        []ReferenceType `json:"types,omitempty" yaml:"types,omitempty"`
}

// SearchText returns the best free-text search string for the query: the
// title guess plus the first author surname, or the raw text.
func (q Query) SearchText() string {
	if q.Title == "" {
		return strings.TrimSpace(q.Text)
	}
	if len(q.Authors) > 0 {
		return q.Title + " " + q.Authors[0]
	}
	return q.Title
}

// HasIdentifier reports whether the query carries an exact identifier.
func (q Query) HasIdentifier() bool {
	return q.DOI != "" || q.ISBN != "" || q.ArXivID != "" || q.CaseCitation != ""
}

// Author is a structured person name. Literal holds organisation names or
// names that could not be split.
type Author struct {
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// Surname returns the family name, or the literal name when unsplit.
func (a Author) Surname() string {
	if a.Family != "" {
		return a.Family
	}
	return a.Literal
}

// Display returns "Given Family" or the literal name.
func (a Author) Display() string {
	if a.Family == "" {
		return a.Literal
	}
	return strings.TrimSpace(a.Given + " " + a.Family)
}

// Identifiers holds the optional exact identifiers of a work.
type Identifiers struct {
	DOI          string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ISBN         string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	ArXivID      string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	PMID         string `json:"pmid,omitempty" yaml:"pmid,omitempty"`
	CaseCitation string `json:"case_citation,omitempty" yaml:"case_citation,omitempty"`
}

// Any reports whether at least one identifier is present.
func (id Identifiers) Any() bool {
	return id.DOI != "" || id.ISBN != "" || id.ArXivID != "" || id.PMID != "" || id.CaseCitation != ""
}

// CanonicalMetadata is the normalized bibliographic record every source is
// translated into.
type CanonicalMetadata struct {
	Type        ReferenceType `json:"type" yaml:"type"`
	Title       string        `json:"title" yaml:"title"`
	Authors     []Author      `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year        int           `json:"year,omitempty" yaml:"year,omitempty"`
	Container   string        `json:"container,omitempty" yaml:"container,omitempty"` // journal, book series, court, newspaper, site
	Volume      string        `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue       string        `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages       string        `json:"pages,omitempty" yaml:"pages,omitempty"`
	Publisher   string        `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Place       string        `json:"place,omitempty" yaml:"place,omitempty"`
	Edition     string        `json:"edition,omitempty" yaml:"edition,omitempty"`
	Court       string        `json:"court,omitempty" yaml:"court,omitempty"`
	URL         string        `json:"url,omitempty" yaml:"url,omitempty"`
	Identifiers Identifiers   `json:"identifiers" yaml:"identifiers"`

	// Source is the id of the engine the record came from.
	Source string `json:"source" yaml:"source"`

	// Confidence is the match score against the original input, in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Degraded lists required fields the source did not supply.
	Degraded []string `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// Identifiable reports whether the record carries an identifier or the full
// title+author+year triple. For web pages and news articles the URL counts
// as an identifier.
func (m CanonicalMetadata) Identifiable() bool {
	if m.Identifiers.Any() {
		return true
	}
	if m.URL != "" && (m.Type == TypeWebPage || m.Type == TypeNewspaper) {
		return true
	}
	return m.Title != "" && len(m.Authors) > 0 && m.Year > 0
}

// Valid checks the record invariant: a positive confidence requires a
// non-empty title and at least one identifying field.
func (m CanonicalMetadata) Valid() error {
	if m.Confidence < 0 || m.Confidence > 1 {
		return fmt.Errorf("confidence %f out of range [0,1]", m.Confidence)
	}
	if m.Confidence == 0 {
		return nil
	}
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("record with confidence %.2f has empty title", m.Confidence)
	}
	if !m.Identifiable() {
		return fmt.Errorf("record %q has no identifier and no title+author+year triple", m.Title)
	}
	return nil
}
