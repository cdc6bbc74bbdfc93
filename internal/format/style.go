// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders canonical metadata in the supported citation
// styles and exports records as CSL-YAML. Rendering is a pure function of
// the record and the style; an unsupported style is a configuration error
// and produces no output.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

// Style names a citation style.
type Style string

const (
	Chicago  Style = "chicago"
	APA      Style = "apa"
	MLA      Style = "mla"
	Bluebook Style = "bluebook"
	OSCOLA   Style = "oscola"
)

// Styles lists the supported styles.
var Styles = []Style{Chicago, APA, MLA, Bluebook, OSCOLA}

// ErrUnsupportedStyle is wrapped in the ConfigError returned for a style
// outside the supported set.
var ErrUnsupportedStyle = errors.New("unsupported citation style")

// ParseStyle converts user input ("APA", " chicago ") into a Style.
func ParseStyle(s string) (Style, error) {
	norm := Style(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range Styles {
		if st == norm {
			return st, nil
		}
	}
	return "", unsupported(s)
}

func unsupported(s string) error {
	return &types.ConfigError{Field: "style", Err: fmt.Errorf("%w: %q", ErrUnsupportedStyle, s)}
}

// Markup controls how italics are written.
type Markup string

const (
	MarkupPlain    Markup = "plain"
	MarkupHTML     Markup = "html"
	MarkupMarkdown Markup = "markdown"
)

// ParseMarkup converts user input into a Markup. Empty input selects HTML.
func ParseMarkup(s string) (Markup, error) {
	switch Markup(strings.ToLower(strings.TrimSpace(s))) {
	case "", MarkupHTML:
		return MarkupHTML, nil
	case MarkupPlain:
		return MarkupPlain, nil
	case MarkupMarkdown, "md":
		return MarkupMarkdown, nil
	}
	return "", &types.ConfigError{Field: "markup", Err: fmt.Errorf("unknown markup %q", s)}
}

func (m Markup) italic(s string) string {
	if s == "" {
		return ""
	}
	switch m {
	case MarkupHTML:
		return "<i>" + s + "</i>"
	case MarkupMarkdown:
		return "*" + s + "*"
	default:
		return s
	}
}

// angled wraps a URL in angle brackets, escaped for HTML.
func (m Markup) angled(url string) string {
	if url == "" {
		return ""
	}
	if m == MarkupHTML {
		return "&lt;" + url + "&gt;"
	}
	return "<" + url + ">"
}
