// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want types.Author
	}{
		{"Ashish Vaswani", types.Author{Given: "Ashish", Family: "Vaswani"}},
		{"Vaswani, Ashish", types.Author{Given: "Ashish", Family: "Vaswani"}},
		{"Smith JA", types.Author{Given: "J. A.", Family: "Smith"}},
		{"Ludwig van Beethoven", types.Author{Given: "Ludwig", Family: "van Beethoven"}},
		{"Martin Luther King Jr.", types.Author{Given: "Martin Luther Jr.", Family: "King"}},
		{"Plato", types.Author{Family: "Plato"}},
		{"World Health Organization", types.Author{Literal: "World Health Organization"}},
		{"  Jane   Q.  Public ", types.Author{Given: "Jane Q.", Family: "Public"}},
		{"", types.Author{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseName(tt.in))
		})
	}
}

func TestParseNames_DropsEmpty(t *testing.T) {
	got := ParseNames([]string{"", "Alan Turing", " "})
	assert.Equal(t, []types.Author{{Given: "Alan", Family: "Turing"}}, got)
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2017-06-12", 2017},
		{"2020 Mar 5", 2020},
		{"c. 1998", 1998},
		{"Spring 2004", 2004},
		{"n.d.", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseYear(tt.in), tt.in)
	}
}

func TestFoldAndTokens(t *testing.T) {
	assert.Equal(t, "godel, escher, bach", Fold("Gödel, Escher, Bach"))
	assert.Equal(t, []string{"godel", "escher", "bach"}, Tokens("Gödel, Escher, Bach!"))
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Deep learning", CleanTitle("Deep <i>learning</i>. "))
	assert.Equal(t, "A B", CleanTitle("  A \n B "))
}
