package naming

import (
	"fmt"
	"strings"
	"unicode"
)

// EnumRule selects the default name of enum fields
type EnumRule int

const (
	EnumMatchOriginalName EnumRule = iota
	EnumLowerCamelCase
)

// FieldRule selects the default name of fields
type FieldRule int

const (
	FieldLowerCamelCase FieldRule = iota
	FieldDollarPrefixPrivate
	FieldDollarPrefixOnDuplicateOnly
)

// Rules is the rename-rule configuration
type Rules struct {
	Enum  EnumRule
	Field FieldRule
}

// DefaultRules returns lower-camel-case names for enum fields and fields
func DefaultRules() Rules {
	return Rules{Enum: EnumLowerCamelCase, Field: FieldLowerCamelCase}
}

var enumRuleNames = map[string]EnumRule{
	"match_original_name": EnumMatchOriginalName,
	"lower_camel_case":    EnumLowerCamelCase,
}

var fieldRuleNames = map[string]FieldRule{
	"lower_camel_case":                FieldLowerCamelCase,
	"dollar_prefix_private":           FieldDollarPrefixPrivate,
	"dollar_prefix_on_duplicate_only": FieldDollarPrefixOnDuplicateOnly,
}

// ParseEnumRule parses a configuration value such as "lower_camel_case"
func ParseEnumRule(s string) (EnumRule, error) {
	if r, ok := enumRuleNames[normalizeRule(s)]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("unknown enum rule %q", s)
}

// ParseFieldRule parses a configuration value such as "dollar_prefix_private"
func ParseFieldRule(s string) (FieldRule, error) {
	if r, ok := fieldRuleNames[normalizeRule(s)]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("unknown field rule %q", s)
}

func normalizeRule(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

func (r EnumRule) String() string {
	for name, v := range enumRuleNames {
		if v == r {
			return name
		}
	}
	return "unknown"
}

func (r FieldRule) String() string {
	for name, v := range fieldRuleNames {
		if v == r {
			return name
		}
	}
	return "unknown"
}

// LowerCamel lower-cases the leading run of upper-case letters. When the
// run is followed by a lower-case letter its last letter starts the next
// word and is kept: "URLPath" becomes "urlPath", "ID" becomes "id".
func LowerCamel(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n == 0 {
		return s
	}
	if n > 1 && n < len(runes) && unicode.IsLower(runes[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// identifier returns the source identifier used to derive names.
// Constructor names drop their leading dot.
func identifier(name string) string {
	return strings.TrimLeft(name, ".")
}
