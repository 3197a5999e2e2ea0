package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestConfig_SourceFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/Widget.cs":               "class Widget {}",
		"src/Views/Main.cs":           "class Main {}",
		"src/Views/Main.g.cs":         "partial class Main {}",
		"src/obj/Debug/Temp.cs":       "",
		"ignored/Secret.cs":           "",
		"lib/controls/Button.cs":      "",
		"README.md":                   "",
		".gitignore":                  "ignored/\n",
		"src/Views/Main.Designer.cs":  "",
		".git/objects/pack/x.cs":      "",
		"tools/scripts/Generate.cs":   "",
		"tools/scripts/readme.txt":    "",
		"tools/scripts/Ignored.cs.bk": "",
	})
	cfg := Default(root)
	cfg.Libraries = []Library{{Name: "Controls", Patterns: []string{"lib/controls/**/*.cs"}}}

	files, err := cfg.SourceFiles(context.Background())
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{
		"src/Views/Main.cs",
		"src/Widget.cs",
		"tools/scripts/Generate.cs",
	}, rel)

	cfg.RespectGitignore = false
	files, err = cfg.SourceFiles(context.Background())
	require.NoError(t, err)
	assert.Contains(t, files, filepath.Join(root, "ignored", "Secret.cs"))
}

func TestConfig_SourceFilesCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"A.cs": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Default(root).SourceFiles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfig_LibraryFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"lib/corlib/System/String.cs": "",
		"lib/corlib/System/Object.cs": "",
		"lib/corlib/obj/Generated.cs": "",
		"lib/corlib/System/notes.txt": "",
	})
	cfg := Default(root)

	files, err := cfg.LibraryFiles(Library{Name: "mscorlib", Patterns: []string{"lib/corlib/**/*.cs", "lib/corlib/System/*.cs"}})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "lib", "corlib", "System", "Object.cs"),
		filepath.Join(root, "lib", "corlib", "System", "String.cs"),
		filepath.Join(root, "lib", "corlib", "obj", "Generated.cs"),
	}, files)
}

func TestConfig_Matches(t *testing.T) {
	cfg := Default("/p")
	assert.True(t, cfg.Matches("src/A.cs"))
	assert.False(t, cfg.Matches("src/bin/A.cs"))
	assert.False(t, cfg.Matches("src/A.txt"))
}
