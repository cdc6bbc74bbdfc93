// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"github.com/pdiddy/cite-resolver/pkg/types"
)

// Renderer writes one record in one style.
type Renderer interface {
	Render(m types.CanonicalMetadata) string
}

// Dispatcher selects the renderer for a style.
type Dispatcher struct {
	renderers map[Style]Renderer
}

// NewDispatcher returns a Dispatcher with a renderer for every supported
// style, writing italics with mk.
func NewDispatcher(mk Markup) *Dispatcher {
	if mk == "" {
		mk = MarkupHTML
	}
	return &Dispatcher{renderers: map[Style]Renderer{
		Chicago:  chicago{mk},
		APA:      apa{mk},
		MLA:      mla{mk},
		Bluebook: bluebook{mk},
		OSCOLA:   oscola{mk},
	}}
}

// Format renders m in style. An unsupported style returns a ConfigError
// wrapping ErrUnsupportedStyle and an empty string.
func (d *Dispatcher) Format(m types.CanonicalMetadata, style Style) (string, error) {
	r, ok := d.renderers[style]
	if !ok {
		return "", unsupported(string(style))
	}
	return r.Render(m), nil
}

// Format renders m in style with HTML italics.
func Format(m types.CanonicalMetadata, style Style) (string, error) {
	return NewDispatcher(MarkupHTML).Format(m, style)
}
