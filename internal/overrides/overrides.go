// Package overrides loads override tables from TOML.
//
//	[[override]]
//	symbol = "App.Widget.Render()"
//	inline_code = "{this}.draw()"
//
//	[[override]]
//	hash = "9f2c0d6e1b7a4c33"
//	inline_code = "ss.noop()"
//
// An entry names its symbol either by display string or by canonical hash.
package overrides

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	symerrors "github.com/standardbeagle/scriptsym/internal/errors"
	"github.com/standardbeagle/scriptsym/internal/symbols"
	"github.com/standardbeagle/scriptsym/internal/symboltable"
)

// Entry is one [[override]] table
type Entry struct {
	Symbol     string  `toml:"symbol"`
	Hash       string  `toml:"hash"`
	InlineCode *string `toml:"inline_code"`
}

// File is the decoded override file
type File struct {
	Overrides []Entry `toml:"override"`
}

var (
	hashPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

	errNoTarget   = errors.New("override needs either symbol or hash")
	errTwoTargets = errors.New("override sets both symbol and hash")
	errBadHash    = errors.New("hash must be 16 lower-case hex digits")
	errDuplicate  = errors.New("symbol is overridden more than once")
)

// Key returns the canonical hash the entry applies to
func (e Entry) Key() (string, error) {
	switch {
	case e.Symbol == "" && e.Hash == "":
		return "", errNoTarget
	case e.Symbol != "" && e.Hash != "":
		return "", errTwoTargets
	case e.Symbol != "":
		return symbols.CanonicalHash(e.Symbol), nil
	}
	if !hashPattern.MatchString(e.Hash) {
		return "", errBadHash
	}
	return e.Hash, nil
}

// Parse decodes an override file. Every invalid entry is reported; the
// returned error is a *errors.MultiError of *errors.ConfigError values.
func Parse(data []byte) (map[string]symboltable.Override, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse override file: %w", err)
	}
	return f.Table()
}

// Table converts the decoded entries into an override table
func (f *File) Table() (map[string]symboltable.Override, error) {
	table := make(map[string]symboltable.Override, len(f.Overrides))
	var errs []error
	for i, e := range f.Overrides {
		field := fmt.Sprintf("override[%d]", i)
		key, err := e.Key()
		if err != nil {
			errs = append(errs, symerrors.NewConfigError(field, e.Symbol+e.Hash, err))
			continue
		}
		if _, dup := table[key]; dup {
			errs = append(errs, symerrors.NewConfigError(field, e.Symbol+e.Hash, errDuplicate))
			continue
		}
		table[key] = symboltable.Override{InlineCode: e.InlineCode}
	}
	if err := symerrors.NewMultiError(errs).ErrorOrNil(); err != nil {
		return nil, err
	}
	return table, nil
}

// Load reads an override file. A missing file yields an empty table.
func Load(path string) (map[string]symboltable.Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]symboltable.Override{}, nil
		}
		return nil, fmt.Errorf("failed to read override file: %w", err)
	}
	return Parse(data)
}
