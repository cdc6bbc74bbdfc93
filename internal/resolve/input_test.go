// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cite-resolver/pkg/types"
)

func TestReadCitationLines(t *testing.T) {
	in := `# references
Smith, J. (2020). Deep learning for citation parsing. Nature, 580, 123-130.

  Roe v. Wade, 410 U.S. 113 (1973)
`
	got, err := ReadCitationLines(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Roe v. Wade, 410 U.S. 113 (1973)", got[1].Text)
	assert.Empty(t, got[1].TypeHint)
}

func TestReadCitationsYAML(t *testing.T) {
	in := `
- text: Roe v. Wade, 410 U.S. 113 (1973)
  type_hint: case
- text: "  "
- text: Example page
  url_hint: https://example.com/page
`
	got, err := ReadCitationsYAML(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, types.TypeLegalCase, got[0].TypeHint)
	assert.Equal(t, "https://example.com/page", got[1].URLHint)
}

func TestReadCitationsYAMLBadHint(t *testing.T) {
	_, err := ReadCitationsYAML(strings.NewReader("- text: x\n  type_hint: pamphlet\n"))
	var cerr *types.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "citations[0].type_hint", cerr.Field)
}

func TestReadInputFile(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "refs.txt")
	yml := filepath.Join(dir, "refs.yaml")
	require.NoError(t, os.WriteFile(txt, []byte("one\ntwo\n"), 0o644))
	require.NoError(t, os.WriteFile(yml, []byte("- text: one\n"), 0o644))

	got, err := ReadInputFile(txt)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = ReadInputFile(yml)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = ReadInputFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
