package components

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidProps is returned when component attributes cannot be parsed.
var ErrInvalidProps = errors.New("invalid component attributes")

// Props are the attributes passed to a component. Values are strings,
// bools, numbers, nil, []any or map[string]any.
type Props map[string]any

// String returns a string prop, or def when absent or of another type.
func (p Props) String(key, def string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return def
}

// Bool returns a boolean prop. Bare attributes are true.
func (p Props) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Strings returns a list prop whose elements are all scalars.
func (p Props) Strings(key string) ([]string, bool) {
	return toStrings(p[key])
}

func toStrings(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch s := item.(type) {
		case []any, map[string]any, nil:
			return nil, false
		default:
			out = append(out, fmt.Sprint(s))
		}
	}
	return out, true
}

// ParseAttrs parses JSX-like attribute source:
//
//	name="text" name='text' name={expr} name
//
// Expressions are YAML flow values, which covers the string, number, bool,
// array and object literals used in documentation pages.
func ParseAttrs(src string) (Props, error) {
	props := Props{}
	i := 0
	for {
		i = skipSpace(src, i)
		if i >= len(src) {
			return props, nil
		}

		start := i
		for i < len(src) && isNameByte(src[i]) {
			i++
		}
		if start == i {
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrInvalidProps, src[i], i)
		}
		name := src[start:i]

		i = skipSpace(src, i)
		if i >= len(src) || src[i] != '=' {
			props[name] = true
			continue
		}
		i = skipSpace(src, i+1)
		if i >= len(src) {
			return nil, fmt.Errorf("%w: missing value for %s", ErrInvalidProps, name)
		}

		switch src[i] {
		case '"', '\'':
			end := strings.IndexByte(src[i+1:], src[i])
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated string for %s", ErrInvalidProps, name)
			}
			props[name] = src[i+1 : i+1+end]
			i += end + 2
		case '{':
			end, err := matchBrace(src, i)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidProps, name, err)
			}
			v, err := parseExpr(src[i+1 : end])
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidProps, name, err)
			}
			props[name] = v
			i = end + 1
		default:
			return nil, fmt.Errorf("%w: value of %s must be quoted or wrapped in braces", ErrInvalidProps, name)
		}
	}
}

func parseExpr(expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("empty expression")
	}
	if strings.HasPrefix(expr, "`") && strings.HasSuffix(expr, "`") && len(expr) >= 2 {
		inner := expr[1 : len(expr)-1]
		if strings.Contains(inner, "${") {
			return nil, errors.New("template literal interpolation is not supported")
		}
		return inner, nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(expr), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// matchBrace returns the index of the brace closing the one at open,
// ignoring braces inside quoted strings.
func matchBrace(src string, open int) (int, error) {
	depth := 0
	var quote byte
	for i := open; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errors.New("unbalanced braces")
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func isNameByte(c byte) bool {
	return c == '_' || c == '-' || c == ':' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
