// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cite-resolver/internal/normalize"
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML, the schema Pandoc and
// reference managers read.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	PublisherPlace string    `yaml:"publisher-place,omitempty"`
	Edition        string    `yaml:"edition,omitempty"`
	Authority      string    `yaml:"authority,omitempty"`
	Number         string    `yaml:"number,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	ISBN           string    `yaml:"ISBN,omitempty"`
	PMID           string    `yaml:"PMID,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL date-parts form.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

var cslTypes = map[types.ReferenceType]string{
	types.TypeJournal:   "article-journal",
	types.TypeBook:      "book",
	types.TypeLegalCase: "legal_case",
	types.TypeNewspaper: "article-newspaper",
	types.TypeWebPage:   "webpage",
}

// WriteCSL writes records as a CSL-YAML list to w. Citation keys are
// surname+year+first title word, with a letter suffix on collisions.
func WriteCSL(w io.Writer, records []types.CanonicalMetadata) error {
	items := make([]CSLItem, len(records))
	seen := make(map[string]int, len(records))
	for i, m := range records {
		items[i] = toCSLItem(m)
		key := items[i].ID
		if n := seen[key]; n > 0 {
			items[i].ID = key + string(rune('a'+n-1))
		}
		seen[key]++
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(m types.CanonicalMetadata) CSLItem {
	typ, ok := cslTypes[m.Type]
	if !ok {
		typ = "article"
	}
	item := CSLItem{
		ID:             citeKey(m),
		Type:           typ,
		Title:          m.Title,
		ContainerTitle: m.Container,
		Volume:         m.Volume,
		Issue:          m.Issue,
		Page:           m.Pages,
		Publisher:      m.Publisher,
		PublisherPlace: m.Place,
		Edition:        m.Edition,
		Authority:      m.Court,
		Number:         m.Identifiers.CaseCitation,
		DOI:            m.Identifiers.DOI,
		ISBN:           m.Identifiers.ISBN,
		PMID:           m.Identifiers.PMID,
		URL:            m.URL,
	}
	for _, a := range m.Authors {
		item.Author = append(item.Author, CSLName{Family: a.Family, Given: a.Given, Literal: a.Literal})
	}
	if m.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{m.Year}}}
	}
	return item
}

// citeKey builds "smith2020deep" style keys from folded tokens.
func citeKey(m types.CanonicalMetadata) string {
	var b strings.Builder
	if len(m.Authors) > 0 {
		if toks := normalize.Tokens(m.Authors[0].Surname()); len(toks) > 0 {
			b.WriteString(toks[len(toks)-1])
		}
	}
	if m.Year > 0 {
		b.WriteString(strconv.Itoa(m.Year))
	}
	for _, t := range normalize.Tokens(m.Title) {
		if !skipWords[t] {
			b.WriteString(t)
			break
		}
	}
	if b.Len() == 0 {
		return "ref"
	}
	return b.String()
}

var skipWords = map[string]bool{"a": true, "an": true, "the": true, "on": true, "of": true}
