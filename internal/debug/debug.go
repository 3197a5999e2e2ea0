// Package debug writes component-tagged trace output for the engine. Output
// is off unless enabled by build flag, by the DEBUG environment variable or
// by Enable, and goes nowhere until a writer or log file is attached.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// EnableDebug turns tracing on for a build:
// go build -ldflags "-X github.com/standardbeagle/scriptsym/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// Component tags used across the engine
const (
	ComponentTable     = "TABLE"
	ComponentNaming    = "NAMING"
	ComponentDiscovery = "DISCOVERY"
	ComponentAltSig    = "ALTSIG"
	ComponentCSharp    = "CSHARP"
)

var enabled atomic.Bool

// sink serializes writes from parallel workers
type sink struct {
	mu   sync.Mutex
	w    io.Writer
	file *os.File
}

var out sink

// Enable turns tracing on or off at runtime
func Enable(on bool) {
	enabled.Store(on)
}

// IsDebugEnabled reports whether tracing is on
func IsDebugEnabled() bool {
	if enabled.Load() || EnableDebug == "true" {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

// SetDebugOutput attaches w as the trace destination; nil detaches it
func SetDebugOutput(w io.Writer) {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.w = w
}

// InitDebugLogFile opens a timestamped log file under the temp directory,
// attaches it and enables tracing. It returns the file's path.
func InitDebugLogFile() (string, error) {
	dir := filepath.Join(os.TempDir(), "scriptsym-debug-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}
	name := fmt.Sprintf("debug-%s-%d.log", time.Now().Format("2006-01-02T150405"), os.Getpid())
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	out.mu.Lock()
	out.file, out.w = f, f
	out.mu.Unlock()
	Enable(true)
	return path, nil
}

// CloseDebugLog closes the log file opened by InitDebugLogFile, if any
func CloseDebugLog() error {
	out.mu.Lock()
	defer out.mu.Unlock()
	if out.file == nil {
		return nil
	}
	err := out.file.Close()
	out.file, out.w = nil, nil
	return err
}

// Printf writes an untagged trace line
func Printf(format string, args ...interface{}) {
	if IsDebugEnabled() {
		emit("[DEBUG] ", format, args)
	}
}

// Log writes a trace line tagged with component
func Log(component, format string, args ...interface{}) {
	if IsDebugEnabled() {
		emit("[DEBUG:"+component+"] ", format, args)
	}
}

func emit(prefix, format string, args []interface{}) {
	out.mu.Lock()
	defer out.mu.Unlock()
	if out.w == nil {
		return
	}
	fmt.Fprintf(out.w, prefix+format, args...)
}

// LogTable logs symbol table construction and lookups
func LogTable(format string, args ...interface{}) {
	Log(ComponentTable, format, args...)
}

// LogNaming logs script name computation
func LogNaming(format string, args ...interface{}) {
	Log(ComponentNaming, format, args...)
}

// LogDiscovery logs symbol discovery and library enumeration
func LogDiscovery(format string, args ...interface{}) {
	Log(ComponentDiscovery, format, args...)
}

// LogAltSig logs alternate signature grouping
func LogAltSig(format string, args ...interface{}) {
	Log(ComponentAltSig, format, args...)
}

// LogCSharp logs C# source parsing
func LogCSharp(format string, args ...interface{}) {
	Log(ComponentCSharp, format, args...)
}
