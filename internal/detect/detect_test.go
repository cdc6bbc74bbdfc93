// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

func TestDetect_TopType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.ReferenceType
	}{
		{"doi", "Vaswani, A. (2017). Attention is all you need. doi:10.5555/3295222.3295349", types.TypeJournal},
		{"arxiv", "Attention Is All You Need, arXiv:1706.03762", types.TypeJournal},
		{"apa journal", "Smith, J. (2020). Deep learning. Nature, 580, 123-456.", types.TypeJournal},
		{"isbn", "Knuth, D. The Art of Computer Programming. ISBN 978-0-201-89683-1", types.TypeBook},
		{"press", "Rawls, John. A Theory of Justice. Cambridge: Harvard University Press, 1971.", types.TypeBook},
		{"us reports", "Roe v. Wade, 410 U.S. 113 (1973)", types.TypeLegalCase},
		{"federal reporter", "United States v. Microsoft Corp., 253 F.3d 34 (D.C. Cir. 2001)", types.TypeLegalCase},
		{"uk neutral", "R (Miller) v Secretary of State for Exiting the European Union [2017] UKSC 5", types.TypeLegalCase},
		{"law report", "Donoghue v Stevenson [1932] AC 562", types.TypeLegalCase},
		{"news url", "https://www.nytimes.com/2021/03/03/science/mars.html", types.TypeNewspaper},
		{"web url", "https://go.dev/doc/effective_go", types.TypeWebPage},
		{"doi url is not a web page", "https://doi.org/10.1038/nature14539", types.TypeJournal},
		{"gibberish", "some random unparseable gibberish xyz123", types.TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.text)
			require.NotEmpty(t, got)
			assert.Equal(t, tt.want, got[0].Type, "detected %v", got)
		})
	}
}

func TestDetect_Properties(t *testing.T) {
	inputs := []string{
		"x",
		"Smith, J. (2020). Deep learning. Nature, 580, 123-456.",
		"Book review of A Theory of Justice, Harvard University Press. Journal of Philosophy 12(3): 45-67",
		"Roe v. Wade, 410 U.S. 113 (1973) https://supreme.justia.com/cases/federal/us/410/113/",
		"The Guardian, March 3, 2021, https://www.theguardian.com/world/2021/mar/03/story",
		"ISBN 0262033844 doi:10.1000/xyz arXiv:2301.07041",
	}
	for _, in := range inputs {
		got := Detect(in)
		require.NotEmpty(t, got, in)
		assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Score > got[j].Score }), in)
		seen := map[types.ReferenceType]bool{}
		for _, ts := range got {
			assert.GreaterOrEqual(t, ts.Score, 0.0)
			assert.LessOrEqual(t, ts.Score, 1.0)
			assert.False(t, seen[ts.Type], "type %s listed twice", ts.Type)
			seen[ts.Type] = true
		}
	}
}

func TestDetect_BookReviewIsAmbiguous(t *testing.T) {
	got := Detect("Review of The Structure of Scientific Revolutions")
	require.Len(t, got, 2)
	assert.ElementsMatch(t,
		[]types.ReferenceType{types.TypeBook, types.TypeJournal},
		[]types.ReferenceType{got[0].Type, got[1].Type})
}

func TestDetect_SignalsReinforce(t *testing.T) {
	single := Detect("Nature, 580, 123-456")
	both := Detect("Smith (2020). Nature, 580, 123-456")
	require.NotEmpty(t, single)
	require.NotEmpty(t, both)
	assert.Equal(t, 0.5, single[0].Score)
	assert.Equal(t, 0.65, both[0].Score)
}

func TestDetect_Empty(t *testing.T) {
	unknown := []types.TypeScore{{Type: types.TypeUnknown, Score: 1.0}}
	assert.Equal(t, unknown, Detect(""))
	assert.Equal(t, unknown, Detect("   \n\t"))
}

func TestDetect_Deterministic(t *testing.T) {
	in := "Smith v. Jones, Harvard University Press, 2010, https://example.org/page"
	first := Detect(in)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Detect(in))
	}
}

func TestSignals(t *testing.T) {
	assert.Equal(t, []string{"doi"}, Signals("10.1038/nature14539"))
	assert.Empty(t, Signals("hello world"))
}

func TestCandidates(t *testing.T) {
	detected := []types.TypeScore{
		{Type: types.TypeBook, Score: 0.55},
		{Type: types.TypeJournal, Score: 0.5},
		{Type: types.TypeWebPage, Score: 0.1},
	}
	assert.Equal(t, []types.ReferenceType{types.TypeBook, types.TypeJournal}, Candidates(detected, "", 0.7, 2))
	assert.Equal(t, []types.ReferenceType{types.TypeBook}, Candidates(detected, "", 0.5, 2))
	assert.Equal(t, []types.ReferenceType{types.TypeLegalCase}, Candidates(detected, types.TypeLegalCase, 0.7, 2))
	assert.Len(t, Candidates(detected, "", 0.9, 5), 3)
	assert.Nil(t, Candidates(nil, "", 0.7, 2))
}

func TestNewspaperName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://www.nytimes.com/2021/03/03/science/mars.html", "The New York Times", true},
		{"abcnews.go.com/Politics", "ABC News", true},
		{"https://edition.cnn.com/2020/story", "CNN", true},
		{"https://notnytimes.com/x", "", false},
		{"https://go.dev", "", false},
	}
	for _, tt := range tests {
		got, ok := NewspaperName(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
