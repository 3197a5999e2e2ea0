package symboltable

import (
	"runtime"

	"github.com/standardbeagle/scriptsym/internal/naming"
)

type options struct {
	rules       naming.Rules
	parallelism int
	stdlib      string
}

func defaultOptions() options {
	return options{
		rules:       naming.DefaultRules(),
		parallelism: runtime.GOMAXPROCS(0),
		stdlib:      naming.DefaultStandardLibrary,
	}
}

// Option configures Create
type Option func(*options)

// WithRules sets the rename rules
func WithRules(r naming.Rules) Option {
	return func(o *options) { o.rules = r }
}

// WithParallelism bounds the number of units extracted at once. Values
// below one mean no limit.
func WithParallelism(n int) Option {
	return func(o *options) { o.parallelism = n }
}

// WithStandardLibrary names the standard library assembly
func WithStandardLibrary(name string) Option {
	return func(o *options) {
		if name != "" {
			o.stdlib = name
		}
	}
}
