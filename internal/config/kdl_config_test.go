package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "lower_camel_case", cfg.Naming.EnumRule)
	assert.Equal(t, "lower_camel_case", cfg.Naming.FieldRule)
	assert.Equal(t, "direct", cfg.Discovery.Mode)
	assert.Equal(t, "mscorlib", cfg.Discovery.StandardLibrary)
	assert.Equal(t, []string{"**/*.cs"}, cfg.Include)
	assert.Contains(t, cfg.Exclude, "**/obj/**")
	assert.True(t, cfg.RespectGitignore)
	assert.Empty(t, cfg.Project.Root)
}

func TestParseKDL_FullConfig(t *testing.T) {
	kdlContent := `
project {
    root "."
    name "app"
}
naming {
    enum_rule "match_original_name"
    field_rule "dollar_prefix_on_duplicate_only"
}
discovery { mode "all"; standard_library "corlib"; }
performance {
    parallelism 4
    timeout_sec 30
}
sources {
    include "src/**/*.cs"
    include "shared/**/*.cs"
    exclude "**/obj/**" "**/Generated/**"
    respect_gitignore false
}
libraries {
    library "corlib" "lib/corlib/**/*.cs"
    library "Controls" "lib/controls/**/*.cs" "lib/extra/*.cs"
}
overrides "overrides.toml"
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Project.Root)
	assert.Equal(t, "app", cfg.Project.Name)
	assert.Equal(t, "match_original_name", cfg.Naming.EnumRule)
	assert.Equal(t, "dollar_prefix_on_duplicate_only", cfg.Naming.FieldRule)
	assert.Equal(t, "all", cfg.Discovery.Mode)
	assert.Equal(t, "corlib", cfg.Discovery.StandardLibrary)
	assert.Equal(t, 4, cfg.Performance.Parallelism)
	assert.Equal(t, 30, cfg.Performance.TimeoutSec)
	assert.Equal(t, []string{"src/**/*.cs", "shared/**/*.cs"}, cfg.Include)
	assert.Equal(t, []string{"**/obj/**", "**/Generated/**"}, cfg.Exclude)
	assert.False(t, cfg.RespectGitignore)
	require.Len(t, cfg.Libraries, 2)
	assert.Equal(t, Library{Name: "corlib", Patterns: []string{"lib/corlib/**/*.cs"}}, cfg.Libraries[0])
	assert.Equal(t, []string{"lib/controls/**/*.cs", "lib/extra/*.cs"}, cfg.Libraries[1].Patterns)
	assert.Equal(t, "overrides.toml", cfg.Overrides)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, "match_original_name", rules.Enum.String())
	mode, err := cfg.Mode()
	require.NoError(t, err)
	assert.Equal(t, "all", mode.String())
}

func TestParseKDL_BlockLayouts(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"multiline", "project {\n    root \"src\"\n    name \"app\"\n}\n"},
		{"one line terminated", `project { root "src"; name "app"; }`},
		{"mixed", "project { root \"src\"\n    name \"app\"\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseKDL(tt.content)
			require.NoError(t, err)
			assert.Equal(t, "src", cfg.Project.Root)
			assert.Equal(t, "app", cfg.Project.Name)
		})
	}
}

func TestParseKDL_BlockExclusions(t *testing.T) {
	cfg, err := parseKDL(`
exclude {
    "**/bin/**"
    "**/Migrations/**"
}
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/bin/**", "**/Migrations/**"}, cfg.Exclude)
}

func TestParseKDL_Errors(t *testing.T) {
	_, err := parseKDL(`project {`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse KDL config")

	_, err = parseKDL(`libraries { library }`)
	require.Error(t, err)
}

func TestLoadKDL(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	assert.Nil(t, cfg, "no file means no config")

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("project {\n    root \"src\"\n}\n"), 0644))
	cfg, err = LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.Project.Root)
	assert.Equal(t, "src", cfg.Project.Name)
}
