// Package diagnostics carries non-fatal construction findings alongside the
// values produced by construction functions.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/scriptsym/internal/symbols"
)

// Severity of a diagnostic
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Code identifies the kind of finding
type Code string

const (
	CodeNoImplementingMethod        Code = "alternate-signature.no-implementing-method"
	CodeAmbiguousImplementingMethod Code = "alternate-signature.ambiguous-implementing-method"
	CodeInvalidDirective            Code = "metadata.invalid-directive"
	CodeUnresolvedReference         Code = "discovery.unresolved-reference"
	CodeParse                       Code = "source.parse"
	CodeExtractionFailed            Code = "unit.extraction-failed"
)

// Diagnostic is one construction finding
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	// Symbol is the display string of the symbol the finding is about.
	Symbol   string
	Location symbols.Location
}

func (d Diagnostic) String() string {
	var b strings.Builder
	if loc := d.Location.String(); loc != "" {
		b.WriteString(loc)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s [%s] %s", d.Severity, d.Code, d.Message)
	return b.String()
}

// New creates a diagnostic about sym
func New(sev Severity, code Code, sym *symbols.Symbol, format string, args ...any) Diagnostic {
	d := Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	}
	if sym != nil {
		d.Symbol = sym.DisplayString()
		d.Location = sym.Location
	}
	return d
}

// Outcome is a value plus the diagnostics accumulated while producing it
type Outcome[T any] struct {
	Value       T
	Diagnostics []Diagnostic
}

// Of wraps a value with diagnostics
func Of[T any](v T, diags ...Diagnostic) Outcome[T] {
	return Outcome[T]{Value: v, Diagnostics: diags}
}

// HasErrors reports whether any diagnostic is error-level
func (o Outcome[T]) HasErrors() bool {
	return HasErrors(o.Diagnostics)
}

// HasErrors reports whether any diagnostic in the list is error-level
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by location, then code, then symbol, so output is
// deterministic regardless of how parallel work was scheduled.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Location.Path != b.Location.Path {
			return a.Location.Path < b.Location.Path
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Symbol < b.Symbol
	})
}

// Filter returns the diagnostics with the given code
func Filter(diags []Diagnostic, code Code) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}
