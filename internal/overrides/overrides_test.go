package overrides

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	symerrors "github.com/standardbeagle/scriptsym/internal/errors"
	"github.com/standardbeagle/scriptsym/internal/symbols"
)

func TestParse(t *testing.T) {
	hash := symbols.CanonicalHash("App.Widget.Size")
	data := []byte(`
[[override]]
symbol = "App.Widget.Render()"
inline_code = "{this}.draw()"

[[override]]
hash = "` + hash + `"
`)
	table, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, table, 2)

	render, ok := table[symbols.CanonicalHash("App.Widget.Render()")]
	require.True(t, ok)
	require.NotNil(t, render.InlineCode)
	assert.Equal(t, "{this}.draw()", *render.InlineCode)

	size, ok := table[hash]
	require.True(t, ok)
	assert.Nil(t, size.InlineCode)
}

func TestParse_EmptyInlineCodeIsKept(t *testing.T) {
	table, err := Parse([]byte("[[override]]\nsymbol = \"App.Widget.Render()\"\ninline_code = \"\"\n"))
	require.NoError(t, err)
	ov := table[symbols.CanonicalHash("App.Widget.Render()")]
	require.NotNil(t, ov.InlineCode)
	assert.Equal(t, "", *ov.InlineCode)
}

func TestParse_InvalidEntries(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want error
	}{
		{"no target", "[[override]]\ninline_code = \"x\"\n", errNoTarget},
		{"two targets", "[[override]]\nsymbol = \"A.B\"\nhash = \"0123456789abcdef\"\n", errTwoTargets},
		{"bad hash", "[[override]]\nhash = \"XYZ\"\n", errBadHash},
		{"duplicate", "[[override]]\nsymbol = \"A.B\"\n[[override]]\nsymbol = \"A.B\"\n", errDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var cerr *symerrors.ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Contains(t, cerr.Field, "override[")
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("[[override]\nsymbol = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse override file")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	table, err := Load(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Empty(t, table)

	path := filepath.Join(dir, "overrides.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[override]]\nsymbol = \"A.B\"\ninline_code = \"c\"\n"), 0644))
	table, err = Load(path)
	require.NoError(t, err)
	assert.Len(t, table, 1)
}
