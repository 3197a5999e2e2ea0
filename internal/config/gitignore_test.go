package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitignoreParser_Patterns(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		path     string
		isDir    bool
		expected bool
	}{
		{"simple file match", "README.md", "README.md", false, true},
		{"simple file nested", "README.md", "docs/README.md", false, true},
		{"simple file no match", "README.md", "main.cs", false, false},
		{"directory pattern matches directory", "obj/", "obj", true, true},
		{"directory pattern matches nested directory", "obj/", "src/App/obj", true, true},
		{"directory pattern matches files inside", "obj/", "src/App/obj/Debug/App.g.cs", false, true},
		{"directory pattern skips same-named file", "obj/", "obj", false, false},
		{"anchored pattern matches at root", "/build", "build", true, true},
		{"anchored pattern ignores nested", "/build", "src/build", true, false},
		{"inner slash anchors", "src/Generated", "src/Generated/A.cs", false, true},
		{"inner slash anchors no nested", "src/Generated", "lib/src/Generated/A.cs", false, false},
		{"wildcard suffix", "*.g.cs", "src/Views/Main.g.cs", false, true},
		{"wildcard prefix", "Temp*", "src/TempFile.cs", false, true},
		{"double star", "**/Migrations/*.cs", "src/Data/Migrations/001.cs", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gp := NewGitignoreParser()
			gp.AddPattern(tt.pattern)
			assert.Equal(t, tt.expected, gp.ShouldIgnore(tt.path, tt.isDir))
		})
	}
}

func TestGitignoreParser_NegationPriority(t *testing.T) {
	gp := NewGitignoreParser()
	require.NoError(t, gp.Parse(strings.NewReader(`
# generated code
*.g.cs
!Keep.g.cs
`)))

	assert.True(t, gp.ShouldIgnore("src/View.g.cs", false))
	assert.False(t, gp.ShouldIgnore("src/Keep.g.cs", false), "later negation wins")
}

func TestGitignoreParser_LoadGitignore(t *testing.T) {
	dir := t.TempDir()
	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir), "missing file is fine")
	assert.False(t, gp.ShouldIgnore("bin", true))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("bin/\n\n# c\n*.user\n"), 0644))
	require.NoError(t, gp.LoadGitignore(dir))
	assert.True(t, gp.ShouldIgnore("bin", true))
	assert.True(t, gp.ShouldIgnore("App.csproj.user", false))
}

func TestGitignoreParser_GetExclusionPatterns(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("obj/")
	gp.AddPattern("/out")
	gp.AddPattern("!keep")

	assert.Equal(t, []string{"**/obj/**", "out", "out/**"}, gp.GetExclusionPatterns())
}
