// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

var (
	article = types.CanonicalMetadata{
		Type:  types.TypeJournal,
		Title: "Deep Learning for Protein Folding: A Review",
		Authors: []types.Author{
			{Given: "Jane", Family: "Smith"},
			{Given: "Kai Li", Family: "Jones"},
		},
		Year:        2020,
		Container:   "Nature",
		Volume:      "580",
		Issue:       "7802",
		Pages:       "123-456",
		Identifiers: types.Identifiers{DOI: "10.1038/s41586-020-2000-0"},
	}
	book = types.CanonicalMetadata{
		Type:      types.TypeBook,
		Title:     "A Theory of Justice",
		Authors:   []types.Author{{Given: "John", Family: "Rawls"}},
		Year:      1999,
		Publisher: "Harvard University Press",
		Place:     "Cambridge, MA",
		Edition:   "2",
	}
	usCase = types.CanonicalMetadata{
		Type:        types.TypeLegalCase,
		Title:       "Roe v. Wade",
		Year:        1973,
		Court:       "Supreme Court of the United States",
		Identifiers: types.Identifiers{CaseCitation: "410 U.S. 113"},
	}
	ukCase = types.CanonicalMetadata{
		Type:        types.TypeLegalCase,
		Title:       "Donoghue v Stevenson",
		Year:        1932,
		Court:       "House of Lords",
		Identifiers: types.Identifiers{CaseCitation: "[1932] AC 562"},
	}
	webPage = types.CanonicalMetadata{
		Type:      types.TypeWebPage,
		Title:     "How to Cite Sources",
		Authors:   []types.Author{{Given: "Ann", Family: "Lee"}},
		Year:      2021,
		Container: "Example Blog",
		URL:       "https://example.com/cite",
	}
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		meta  types.CanonicalMetadata
		style Style
		want  string
	}{
		{"apa article", article, APA, "Smith, J., & Jones, K. L. (2020). Deep learning for protein folding: A review. <i>Nature</i>, <i>580</i>(7802), 123–456. https://doi.org/10.1038/s41586-020-2000-0"},
		{"chicago article", article, Chicago, `Smith, Jane, and Kai Li Jones. 2020. "Deep Learning for Protein Folding: A Review." <i>Nature</i> 580 (7802): 123–456. https://doi.org/10.1038/s41586-020-2000-0.`},
		{"mla article", article, MLA, `Smith, Jane, and Kai Li Jones. "Deep Learning for Protein Folding: A Review." <i>Nature</i>, vol. 580, no. 7802, 2020, pp. 123–456. https://doi.org/10.1038/s41586-020-2000-0.`},
		{"bluebook article", article, Bluebook, "Jane Smith & Kai Li Jones, <i>Deep Learning for Protein Folding: A Review</i>, 580 Nature 123 (2020), https://doi.org/10.1038/s41586-020-2000-0."},
		{"oscola article", article, OSCOLA, "Jane Smith and Kai Li Jones, ‘Deep Learning for Protein Folding: A Review’ (2020) 580 Nature 123."},

		{"apa book", book, APA, "Rawls, J. (1999). <i>A theory of justice</i> (2nd ed.). Harvard University Press."},
		{"chicago book", book, Chicago, "Rawls, John. 1999. <i>A Theory of Justice</i>. 2nd ed. Cambridge, MA: Harvard University Press."},
		{"mla book", book, MLA, "Rawls, John. <i>A Theory of Justice</i>. 2nd ed., Harvard University Press, 1999."},
		{"bluebook book", book, Bluebook, "John Rawls, <i>A Theory of Justice</i> (2nd ed. 1999)."},
		{"oscola book", book, OSCOLA, "John Rawls, <i>A Theory of Justice</i> (2nd edn, Harvard University Press 1999)."},

		{"apa case", usCase, APA, "<i>Roe v. Wade</i>, 410 U.S. 113 (1973)."},
		{"chicago case", usCase, Chicago, "<i>Roe v. Wade</i>, 410 U.S. 113 (1973)."},
		{"mla case", usCase, MLA, "<i>Roe v. Wade</i>. 410 U.S. 113, Supreme Court of the United States, 1973."},
		{"bluebook case", usCase, Bluebook, "<i>Roe v. Wade</i>, 410 U.S. 113 (1973)."},
		{"oscola case", usCase, OSCOLA, "<i>Roe v Wade</i> 410 US 113 (1973)."},
		{"oscola uk case", ukCase, OSCOLA, "<i>Donoghue v Stevenson</i> [1932] AC 562."},
		{"bluebook uk case", ukCase, Bluebook, "<i>Donoghue v Stevenson</i> [1932] AC 562 (House of Lords)."},

		{"apa web page", webPage, APA, "Lee, A. (2021). <i>How to cite sources</i>. Example Blog. https://example.com/cite"},
		{"oscola web page", webPage, OSCOLA, "Ann Lee, ‘How to Cite Sources’ (Example Blog, 2021) &lt;https://example.com/cite&gt;."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.meta, tt.style)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatIsPure(t *testing.T) {
	d := NewDispatcher(MarkupHTML)
	for _, st := range Styles {
		first, err := d.Format(article, st)
		require.NoError(t, err)
		second, err := d.Format(article, st)
		require.NoError(t, err)
		assert.Equal(t, first, second, st)
		assert.NotEmpty(t, first, st)
	}
}

func TestFormatUnsupportedStyle(t *testing.T) {
	got, err := Format(article, Style("harvard"))
	assert.Empty(t, got)
	require.ErrorIs(t, err, ErrUnsupportedStyle)
	var ce *types.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "style", ce.Field)
}

func TestMarkup(t *testing.T) {
	plain, err := NewDispatcher(MarkupPlain).Format(article, APA)
	require.NoError(t, err)
	assert.Equal(t, "Smith, J., & Jones, K. L. (2020). Deep learning for protein folding: A review. Nature, 580(7802), 123–456. https://doi.org/10.1038/s41586-020-2000-0", plain)

	md, err := NewDispatcher(MarkupMarkdown).Format(book, Chicago)
	require.NoError(t, err)
	assert.Contains(t, md, "*A Theory of Justice*.")

	oscola, err := NewDispatcher(MarkupPlain).Format(webPage, OSCOLA)
	require.NoError(t, err)
	assert.Contains(t, oscola, "<https://example.com/cite>")
}

func TestAPAWithoutAuthors(t *testing.T) {
	m := article
	m.Authors = nil
	m.Year = 0
	got, err := Format(m, APA)
	require.NoError(t, err)
	assert.Equal(t, "Deep learning for protein folding: A review. (n.d.). <i>Nature</i>, <i>580</i>(7802), 123–456. https://doi.org/10.1038/s41586-020-2000-0", got)
}

func TestParseStyle(t *testing.T) {
	for _, in := range []string{"chicago", "APA", " mla ", "Bluebook", "OSCOLA"} {
		_, err := ParseStyle(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseStyle("vancouver")
	assert.ErrorIs(t, err, ErrUnsupportedStyle)
}

func TestParseMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want Markup
	}{
		{"", MarkupHTML},
		{"html", MarkupHTML},
		{"Plain", MarkupPlain},
		{"md", MarkupMarkdown},
	}
	for _, tt := range tests {
		got, err := ParseMarkup(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := ParseMarkup("rtf")
	assert.Error(t, err)
}

func TestSentenceCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"The Role of Information: A Framework", "The role of information: A framework"},
		{"Using iPhone Data from NASA", "Using iPhone data from NASA"},
		{"already lower case", "Already lower case"},
		{"What Is Science? A Primer", "What is science? A primer"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sentenceCase(tt.in))
	}
}

func TestInitials(t *testing.T) {
	tests := []struct{ in, want string }{
		{"John Ronald", "J. R."},
		{"Jean-Paul", "J.-P."},
		{"J.R.", "J. R."},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, initials(tt.in))
	}
}

func TestAPAAuthorLimits(t *testing.T) {
	var as []types.Author
	for i := 0; i < 22; i++ {
		as = append(as, types.Author{Given: "A", Family: string(rune('A' + i))})
	}
	got := apa{}.authors(as)
	assert.Contains(t, got, "S, A., . . . V, A.")
	assert.NotContains(t, got, "T, A.")
}

func TestPeriod(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Title", "Title."},
		{"Title?", "Title?"},
		{`"Title."`, `"Title."`},
		{"<i>Nature</i>", "<i>Nature</i>."},
		{"(2nd ed.)", "(2nd ed.)."},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, period(tt.in))
	}
}
