package config

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	symerrors "github.com/standardbeagle/scriptsym/internal/errors"
)

func TestValidateAndSetDefaults(t *testing.T) {
	cfg := Default("/test/root")
	cfg.Include = nil

	require.NoError(t, NewValidator().ValidateAndSetDefaults(cfg))
	assert.Equal(t, runtime.NumCPU(), cfg.Performance.Parallelism)
	assert.Equal(t, []string{"**/*.cs"}, cfg.Include)
	assert.Equal(t, 120, cfg.Performance.TimeoutSec)
}

func TestValidateAndSetDefaults_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty root", func(c *Config) { c.Project.Root = "" }, "project.root"},
		{"enum rule", func(c *Config) { c.Naming.EnumRule = "snake" }, "naming.enum_rule"},
		{"field rule", func(c *Config) { c.Naming.FieldRule = "upper" }, "naming.field_rule"},
		{"mode", func(c *Config) { c.Discovery.Mode = "everything" }, "discovery.mode"},
		{"standard library", func(c *Config) { c.Discovery.StandardLibrary = "" }, "discovery.standard_library"},
		{"parallelism", func(c *Config) { c.Performance.Parallelism = -1 }, "performance.parallelism"},
		{"timeout", func(c *Config) { c.Performance.TimeoutSec = -5 }, "performance.timeout_sec"},
		{"include glob", func(c *Config) { c.Include = []string{"src/[a-"} }, "sources.include"},
		{"exclude glob", func(c *Config) { c.Exclude = []string{"{a,b"} }, "sources.exclude"},
		{"library name", func(c *Config) { c.Libraries = []Library{{Patterns: []string{"x"}}} }, "libraries.library"},
		{"library patterns", func(c *Config) { c.Libraries = []Library{{Name: "L"}} }, "libraries.library"},
		{"library twice", func(c *Config) {
			c.Libraries = []Library{{Name: "L", Patterns: []string{"a"}}, {Name: "L", Patterns: []string{"b"}}}
		}, "libraries.library"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("/test/root")
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)
			var cerr *symerrors.ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestValidator_RuleSpellings(t *testing.T) {
	cfg := Default("/test/root")
	cfg.Naming.FieldRule = "Dollar-Prefix-Private"
	require.NoError(t, ValidateConfig(cfg))

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, "dollar_prefix_private", rules.Field.String())
}
