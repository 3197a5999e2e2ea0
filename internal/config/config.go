package config

import (
	"os"
	"path/filepath"

	"github.com/standardbeagle/scriptsym/internal/discovery"
	"github.com/standardbeagle/scriptsym/internal/naming"
)

// FileName is the name of the project and global configuration file
const FileName = ".scriptsym.kdl"

type Config struct {
	Version     int
	Project     Project
	Naming      Naming
	Discovery   Discovery
	Performance Performance
	Include     []string
	Exclude     []string
	// RespectGitignore adds the project's .gitignore patterns to Exclude
	RespectGitignore bool
	Libraries        []Library
	// Overrides is the path of the TOML override table, relative to the
	// project root unless absolute. Empty means no overrides.
	Overrides string
}

type Project struct {
	Root string
	Name string
}

type Naming struct {
	EnumRule  string // "lower_camel_case" or "match_original_name"
	FieldRule string // "lower_camel_case", "dollar_prefix_private", "dollar_prefix_on_duplicate_only"
}

type Discovery struct {
	Mode            string // "document", "direct", "all"
	StandardLibrary string
}

type Performance struct {
	Parallelism int // 0 = auto-detect (NumCPU)
	TimeoutSec  int // Timeout for a whole run in seconds
}

// Library is an external assembly whose declarations come from source files
// matched by Patterns.
type Library struct {
	Name     string
	Patterns []string
}

// Default returns the configuration used when no file is found
func Default(root string) *Config {
	return &Config{
		Version: 1,
		Project: Project{
			Root: root,
			Name: filepath.Base(root),
		},
		Naming: Naming{
			EnumRule:  naming.EnumLowerCamelCase.String(),
			FieldRule: naming.FieldLowerCamelCase.String(),
		},
		Discovery: Discovery{
			Mode:            discovery.ModeDirect.String(),
			StandardLibrary: naming.DefaultStandardLibrary,
		},
		Performance: Performance{
			Parallelism: 0,
			TimeoutSec:  120,
		},
		Include:          []string{"**/*.cs"},
		Exclude:          defaultExclusions(),
		RespectGitignore: true,
	}
}

func defaultExclusions() []string {
	return []string{
		"**/.git/**",
		"**/.vs/**",
		"**/bin/**",
		"**/obj/**",
		"**/packages/**",
		"**/TestResults/**",
		"**/*.g.cs",
		"**/*.Designer.cs",
		"**/AssemblyInfo.cs",
	}
}

func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

// LoadWithRoot loads configuration for the project in rootDir. When path is
// non-empty it names the project config file directly. The global
// ~/.scriptsym.kdl, if any, is merged underneath the project config.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}
	if abs, err := filepath.Abs(searchDir); err == nil {
		searchDir = abs
	}

	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil && filepath.Clean(homeDir) != searchDir {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	var projectConfig *Config
	var err error
	if path != "" {
		projectConfig, err = LoadKDLFile(path, searchDir)
	} else {
		projectConfig, err = LoadKDL(searchDir)
	}
	if err != nil {
		return nil, err
	}

	var cfg *Config
	switch {
	case baseConfig != nil && projectConfig != nil:
		cfg = mergeConfigs(baseConfig, projectConfig)
	case projectConfig != nil:
		cfg = projectConfig
	case baseConfig != nil:
		baseConfig.Project.Root = searchDir
		baseConfig.Project.Name = filepath.Base(searchDir)
		cfg = baseConfig
	default:
		cfg = Default(searchDir)
	}

	cfg.EnrichExclusionsWithBuildArtifacts()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfigs merges a base config with a project config.
// Project config takes precedence, but base exclusions and libraries are
// preserved.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	merged.Exclude = DeduplicatePatterns(append(append([]string{}, base.Exclude...), project.Exclude...))

	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}

	seen := make(map[string]bool, len(project.Libraries))
	for _, lib := range project.Libraries {
		seen[lib.Name] = true
	}
	merged.Libraries = append([]Library{}, project.Libraries...)
	for _, lib := range base.Libraries {
		if !seen[lib.Name] {
			merged.Libraries = append(merged.Libraries, lib)
		}
	}

	if merged.Overrides == "" {
		merged.Overrides = base.Overrides
	}
	return &merged
}

// Rules returns the parsed rename rules
func (c *Config) Rules() (naming.Rules, error) {
	enum, err := naming.ParseEnumRule(c.Naming.EnumRule)
	if err != nil {
		return naming.Rules{}, err
	}
	field, err := naming.ParseFieldRule(c.Naming.FieldRule)
	if err != nil {
		return naming.Rules{}, err
	}
	return naming.Rules{Enum: enum, Field: field}, nil
}

// Mode returns the parsed discovery mode
func (c *Config) Mode() (discovery.Mode, error) {
	return discovery.ParseMode(c.Discovery.Mode)
}

// OverridesPath returns the absolute path of the override table, or "" when
// none is configured
func (c *Config) OverridesPath() string {
	return c.resolve(c.Overrides)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Project.Root, p)
}

// Library returns the library with the given name
func (c *Config) Library(name string) (Library, bool) {
	for _, lib := range c.Libraries {
		if lib.Name == name {
			return lib, true
		}
	}
	return Library{}, false
}
