package csharp

import (
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// literalValue normalizes an attribute argument expression to string, bool,
// int64, float64 or nil. Expressions that are not constants (enum members,
// typeof, names) keep their normalized source text.
func literalValue(node *sitter.Node, content []byte) any {
	if node == nil {
		return nil
	}
	text := nodeText(node, content)

	switch node.Kind() {
	case "null_literal":
		return nil
	case "boolean_literal":
		return text == "true"
	case "string_literal":
		return decodeString(text)
	case "verbatim_string_literal":
		return decodeVerbatim(text)
	case "raw_string_literal":
		return decodeRaw(text)
	case "character_literal":
		return decodeString(`"` + strings.Trim(text, "'") + `"`)
	case "integer_literal":
		if v, ok := parseInteger(text); ok {
			return v
		}
		return text
	case "real_literal":
		if v, ok := parseReal(text); ok {
			return v
		}
		return text
	case "parenthesized_expression":
		if node.NamedChildCount() == 1 {
			return literalValue(node.NamedChild(0), content)
		}
	case "prefix_unary_expression":
		if node.NamedChildCount() == 1 && strings.HasPrefix(text, "-") {
			switch v := literalValue(node.NamedChild(0), content).(type) {
			case int64:
				return -v
			case float64:
				return -v
			}
		}
	case "typeof_expression":
		if t := typeNode(node); t != nil {
			return typeText(t, content)
		}
		if node.NamedChildCount() > 0 {
			return typeText(node.NamedChild(0), content)
		}
	}
	return strings.Join(strings.Fields(text), " ")
}

func parseInteger(text string) (int64, bool) {
	s := strings.TrimRight(text, "uUlL")
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return v, true
	}
	if v, err := strconv.ParseUint(s, 0, 64); err == nil {
		return int64(v), true
	}
	return 0, false
}

func parseReal(text string) (float64, bool) {
	s := strings.ReplaceAll(text, "_", "")
	s = strings.TrimRight(s, "fFdDmM")
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// decodeString unescapes a regular "..." literal
func decodeString(text string) string {
	text = strings.TrimSuffix(text, "u8")
	if len(text) < 2 {
		return text
	}
	body := text[1 : len(text)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case 'u', 'U', 'x':
			n := 4
			if body[i] == 'U' {
				n = 8
			}
			j := i + 1
			for j < len(body) && j < i+1+n && isHex(body[j]) {
				j++
			}
			r, err := strconv.ParseUint(body[i+1:j], 16, 32)
			if err != nil || !utf8.ValidRune(rune(r)) {
				b.WriteByte('\\')
				b.WriteByte(body[i])
				continue
			}
			b.WriteRune(rune(r))
			i = j - 1
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// decodeVerbatim unescapes an @"..." literal
func decodeVerbatim(text string) string {
	text = strings.TrimPrefix(text, "@")
	if len(text) < 2 {
		return text
	}
	return strings.ReplaceAll(text[1:len(text)-1], `""`, `"`)
}

// decodeRaw strips the quote fences of a """...""" literal
func decodeRaw(text string) string {
	text = strings.TrimSuffix(text, "u8")
	n := 0
	for n < len(text) && text[n] == '"' {
		n++
	}
	if len(text) < 2*n {
		return text
	}
	body := text[n : len(text)-n]
	if !strings.Contains(body, "\n") {
		return body
	}

	lines := strings.Split(body, "\n")
	lines = lines[1 : len(lines)-1]
	indent := strings.TrimRight(body[strings.LastIndex(body, "\n")+1:], "\r")
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(strings.TrimRight(l, "\r"), indent)
	}
	return strings.Join(lines, "\n")
}
