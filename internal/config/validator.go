package config

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/scriptsym/internal/discovery"
	symerrors "github.com/standardbeagle/scriptsym/internal/errors"
	"github.com/standardbeagle/scriptsym/internal/naming"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// Failures are *errors.ConfigError values naming the offending field.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if cfg.Project.Root == "" {
		return symerrors.NewConfigError("project.root", "", errors.New("project root cannot be empty"))
	}
	if _, err := naming.ParseEnumRule(cfg.Naming.EnumRule); err != nil {
		return symerrors.NewConfigError("naming.enum_rule", cfg.Naming.EnumRule, err)
	}
	if _, err := naming.ParseFieldRule(cfg.Naming.FieldRule); err != nil {
		return symerrors.NewConfigError("naming.field_rule", cfg.Naming.FieldRule, err)
	}
	if _, err := discovery.ParseMode(cfg.Discovery.Mode); err != nil {
		return symerrors.NewConfigError("discovery.mode", cfg.Discovery.Mode, err)
	}
	if cfg.Discovery.StandardLibrary == "" {
		return symerrors.NewConfigError("discovery.standard_library", "", errors.New("standard library name cannot be empty"))
	}
	if err := v.validatePerformanceConfig(&cfg.Performance); err != nil {
		return err
	}
	if err := v.validatePatterns("sources.include", cfg.Include); err != nil {
		return err
	}
	if err := v.validatePatterns("sources.exclude", cfg.Exclude); err != nil {
		return err
	}
	if err := v.validateLibraries(cfg.Libraries); err != nil {
		return err
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validatePerformanceConfig(perf *Performance) error {
	// Parallelism: 0 means auto-detect (will be set by smart defaults)
	if perf.Parallelism < 0 {
		return symerrors.NewConfigError("performance.parallelism", strconv.Itoa(perf.Parallelism),
			fmt.Errorf("parallelism cannot be negative, got %d", perf.Parallelism))
	}
	if perf.TimeoutSec < 0 {
		return symerrors.NewConfigError("performance.timeout_sec", strconv.Itoa(perf.TimeoutSec),
			fmt.Errorf("timeout cannot be negative, got %d", perf.TimeoutSec))
	}
	return nil
}

func (v *Validator) validatePatterns(field string, patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return symerrors.NewConfigError(field, p, errors.New("invalid glob pattern"))
		}
	}
	return nil
}

func (v *Validator) validateLibraries(libs []Library) error {
	seen := make(map[string]bool, len(libs))
	for _, lib := range libs {
		if lib.Name == "" {
			return symerrors.NewConfigError("libraries.library", "", errors.New("library name cannot be empty"))
		}
		if seen[lib.Name] {
			return symerrors.NewConfigError("libraries.library", lib.Name, errors.New("library declared twice"))
		}
		seen[lib.Name] = true
		if len(lib.Patterns) == 0 {
			return symerrors.NewConfigError("libraries.library", lib.Name, errors.New("library needs at least one source pattern"))
		}
		if err := v.validatePatterns("libraries.library", lib.Patterns); err != nil {
			return err
		}
	}
	return nil
}

// setSmartDefaults applies defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Performance.Parallelism == 0 {
		cfg.Performance.Parallelism = runtime.NumCPU()
	}
	if cfg.Performance.TimeoutSec == 0 {
		cfg.Performance.TimeoutSec = 120
	}
	if len(cfg.Include) == 0 {
		cfg.Include = []string{"**/*.cs"}
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
