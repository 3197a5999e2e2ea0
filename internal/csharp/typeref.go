package csharp

import "strings"

// typeRef is a parsed type spelling such as "Dictionary<string, List<int>>[]"
type typeRef struct {
	// Name is the dotted name without type arguments: "List",
	// "System.Collections.Generic.List", or a keyword such as "int".
	Name string
	Args []*typeRef
	// Rank counts array suffixes, sized (`int[4]`) or not; the element
	// type is the typeRef itself with Rank zero.
	Rank   int
	Global bool
}

// Arity is the number of type arguments
func (r *typeRef) Arity() int {
	return len(r.Args)
}

// Simple reports whether the name has a single segment
func (r *typeRef) Simple() bool {
	return !strings.Contains(r.Name, ".")
}

// String renders the reference in the normalized display form
func (r *typeRef) String() string {
	var b strings.Builder
	r.write(&b)
	return b.String()
}

func (r *typeRef) write(b *strings.Builder) {
	b.WriteString(r.Name)
	if len(r.Args) > 0 {
		b.WriteByte('<')
		for i, a := range r.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.write(b)
		}
		b.WriteByte('>')
	}
	for i := 0; i < r.Rank; i++ {
		b.WriteString("[]")
	}
}

// parseTypeRef parses a type spelling. Tuples, pointers and function
// pointers have no nominal type and yield nil.
func parseTypeRef(text string) *typeRef {
	fields := strings.Fields(text)
	for len(fields) > 1 && typeModifiers[fields[0]] {
		fields = fields[1:]
	}
	p := &typeParser{s: strings.Join(fields, "")}
	r := p.parse()
	if r == nil || p.pos != len(p.s) {
		return nil
	}
	return r
}

type typeParser struct {
	s   string
	pos int
}

func (p *typeParser) peek() byte {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return 0
}

func (p *typeParser) parse() *typeRef {
	if p.peek() == '(' {
		return nil
	}

	r := &typeRef{}
	if strings.HasPrefix(p.s[p.pos:], "global::") {
		r.Global = true
		p.pos += len("global::")
	}

	var segments []string
	for {
		start := p.pos
		if p.peek() == '@' {
			p.pos++
			start = p.pos
		}
		for p.pos < len(p.s) && isIdentByte(p.s[p.pos]) {
			p.pos++
		}
		if p.pos == start {
			return nil
		}
		segments = append(segments, p.s[start:p.pos])

		r.Args = nil
		if p.peek() == '<' {
			p.pos++
			for {
				if p.peek() == ',' || p.peek() == '>' {
					// unbound generic: typeof(List<>)
					r.Args = append(r.Args, &typeRef{})
				} else {
					arg := p.parse()
					if arg == nil {
						return nil
					}
					r.Args = append(r.Args, arg)
				}
				if p.peek() == ',' {
					p.pos++
					continue
				}
				if p.peek() != '>' {
					return nil
				}
				p.pos++
				break
			}
		}

		switch {
		case p.peek() == '.':
			p.pos++
			continue
		case strings.HasPrefix(p.s[p.pos:], "::"):
			// alias::Name
			p.pos += 2
			continue
		}
		break
	}
	r.Name = strings.Join(segments, ".")

	for p.pos < len(p.s) {
		switch p.peek() {
		case '?':
			p.pos++
		case '*':
			return nil
		case '[':
			end := strings.IndexByte(p.s[p.pos:], ']')
			if end < 0 {
				return nil
			}
			p.pos += end + 1
			r.Rank++
		default:
			return r
		}
	}
	return r
}

func isIdentByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || c >= 0x80
}

// predefinedTypes maps C# keywords to their System type names
var predefinedTypes = map[string]string{
	"object":  "System.Object",
	"string":  "System.String",
	"bool":    "System.Boolean",
	"byte":    "System.Byte",
	"sbyte":   "System.SByte",
	"char":    "System.Char",
	"short":   "System.Int16",
	"ushort":  "System.UInt16",
	"int":     "System.Int32",
	"uint":    "System.UInt32",
	"long":    "System.Int64",
	"ulong":   "System.UInt64",
	"float":   "System.Single",
	"double":  "System.Double",
	"decimal": "System.Decimal",
	"nint":    "System.IntPtr",
	"nuint":   "System.UIntPtr",
}

var typeModifiers = map[string]bool{
	"ref":      true,
	"out":      true,
	"in":       true,
	"scoped":   true,
	"readonly": true,
	"params":   true,
	"this":     true,
}

// untypedNames never name a declared type
var untypedNames = map[string]bool{
	"var":     true,
	"void":    true,
	"dynamic": true,
}
