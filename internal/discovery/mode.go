package discovery

import (
	"fmt"
	"strings"
)

// Mode controls how much of the referenced libraries is made available
type Mode int

const (
	// ModeDocumentOnly discovers only the symbols declared in the units.
	ModeDocumentOnly Mode = iota
	// ModeDirect adds the external symbols referenced from the units.
	ModeDirect
	// ModeAllLibraryTypes adds every scriptable type of every referenced
	// library and of the standard library.
	ModeAllLibraryTypes
)

var modeNames = map[Mode]string{
	ModeDocumentOnly:    "document",
	ModeDirect:          "direct",
	ModeAllLibraryTypes: "all",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMode parses "document", "direct" or "all"
func ParseMode(s string) (Mode, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == want {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown discovery mode %q (want document, direct or all)", s)
}
