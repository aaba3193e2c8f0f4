package markdown

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// PlaceholderTag is the element emitted for every component usage. Its
// data-name attribute carries the component name and data-attrs the raw
// attribute source; hydration replaces it with the component output.
const PlaceholderTag = "mdx-component"

const placeholderClose = "</" + PlaceholderTag + ">"

// ErrUnbalancedComponent is returned when component open and close tags do not pair up.
var ErrUnbalancedComponent = errors.New("unbalanced component tags")

var (
	componentName  = regexp.MustCompile(`^<([A-Z][A-Za-z0-9]*)(?:[\s/>]|$)`)
	componentClose = regexp.MustCompile(`^</([A-Z][A-Za-z0-9]*)\s*>`)
)

// componentTag is an opening or self-closing component tag.
type componentTag struct {
	name        string
	attrs       string
	selfClosing bool
	// end is the index of the closing '>'.
	end int
}

// parseTag reads the component tag starting at s[i].
func parseTag(s string, i int) (componentTag, bool) {
	m := componentName.FindStringSubmatch(s[i:])
	if m == nil {
		return componentTag{}, false
	}
	name := m[1]
	end := tagEnd(s, i+1+len(name))
	if end < 0 {
		return componentTag{}, false
	}
	attrs := strings.TrimSpace(s[i+1+len(name) : end])
	selfClosing := strings.HasSuffix(attrs, "/")
	if selfClosing {
		attrs = strings.TrimSpace(strings.TrimSuffix(attrs, "/"))
	}
	return componentTag{name: name, attrs: attrs, selfClosing: selfClosing, end: end}, true
}

// tagEnd returns the index of the '>' closing a tag whose attributes start
// at from, skipping quoted strings and JSX expressions. It returns -1 when
// the tag does not end in s.
func tagEnd(s string, from int) int {
	var quote byte
	depth := 0
	for i := from; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			if depth > 0 {
				depth--
			}
		case c == '>' && depth == 0:
			return i
		}
	}
	return -1
}

// extractComponents rewrites component usages into placeholder HTML. Tags
// standing on their own lines become blocks whose children stay Markdown;
// tags inside a line of text become inline placeholders.
func extractComponents(src []byte) ([]byte, error) {
	lines := splitLines(src)
	var out strings.Builder
	out.Grow(len(src))

	var (
		fence   fenceTracker
		open    []string
		pending []string
		indent  string
	)
	write := func(s string) {
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(s)
	}

	for _, line := range lines {
		if pending == nil && fence.inFence(line) {
			write(line)
			continue
		}

		current := line
		trimmed := strings.TrimSpace(line)
		switch {
		case pending != nil:
			pending = append(pending, trimmed)
			trimmed = strings.Join(pending, " ")
			if tagEnd(trimmed, 1) < 0 {
				continue
			}
			pending = nil
			current = indent + trimmed
		case componentName.MatchString(trimmed) && tagEnd(trimmed, 1) < 0:
			pending = []string{trimmed}
			indent = leadingIndent(line)
			continue
		default:
			indent = leadingIndent(line)
		}

		if m := componentClose.FindStringSubmatch(trimmed); m != nil && len(m[0]) == len(trimmed) {
			if len(open) == 0 || open[len(open)-1] != m[1] {
				return nil, fmt.Errorf("%w: unexpected </%s>", ErrUnbalancedComponent, m[1])
			}
			open = open[:len(open)-1]
			write("")
			write(indent + placeholderClose)
			write("")
			continue
		}

		tag, ok := parseTag(trimmed, 0)
		rest := ""
		if ok {
			rest = trimmed[tag.end+1:]
		}
		closing := "</" + tag.name + ">"
		switch {
		case ok && rest == "":
			write("")
			write(indent + placeholderOpen(tag.name, tag.attrs))
			if tag.selfClosing {
				write(indent + placeholderClose)
			} else {
				open = append(open, tag.name)
			}
			write("")
		case ok && !tag.selfClosing && strings.HasSuffix(rest, closing) &&
			!strings.Contains(strings.TrimSuffix(rest, closing), closing):
			write("")
			write(indent + placeholderOpen(tag.name, tag.attrs))
			write("")
			write(indent + strings.TrimSpace(strings.TrimSuffix(rest, closing)))
			write("")
			write(indent + placeholderClose)
			write("")
		default:
			rewritten, err := inlineComponents(current)
			if err != nil {
				return nil, err
			}
			write(rewritten)
		}
	}

	if pending != nil {
		return nil, fmt.Errorf("%w: unterminated tag %q", ErrUnbalancedComponent, pending[0])
	}
	if len(open) > 0 {
		return nil, fmt.Errorf("%w: <%s> is never closed", ErrUnbalancedComponent, open[len(open)-1])
	}
	return []byte(out.String()), nil
}

// inlineComponents rewrites component tags inside a line of text. A paired
// tag must close on the same line. Code spans and escaped brackets are
// copied unchanged.
func inlineComponents(s string) (string, error) {
	if !strings.Contains(s, "<") {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == '`':
			n := 1
			for i+n < len(s) && s[i+n] == '`' {
				n++
			}
			end := i + n
			if closeAt := strings.Index(s[end:], s[i:i+n]); closeAt >= 0 {
				end += closeAt + n
			}
			b.WriteString(s[i:end])
			i = end
		case c == '\\' && i+1 < len(s):
			b.WriteString(s[i : i+2])
			i += 2
		case c == '<':
			if m := componentClose.FindStringSubmatch(s[i:]); m != nil {
				return "", fmt.Errorf("%w: unexpected </%s>", ErrUnbalancedComponent, m[1])
			}
			tag, ok := parseTag(s, i)
			if !ok {
				b.WriteByte(c)
				i++
				continue
			}
			b.WriteString(placeholderOpen(tag.name, tag.attrs))
			i = tag.end + 1
			if !tag.selfClosing {
				closing := "</" + tag.name + ">"
				j := strings.Index(s[i:], closing)
				if j < 0 {
					return "", fmt.Errorf("%w: <%s> is never closed", ErrUnbalancedComponent, tag.name)
				}
				inner, err := inlineComponents(s[i : i+j])
				if err != nil {
					return "", err
				}
				b.WriteString(inner)
				i += j + len(closing)
			}
			b.WriteString(placeholderClose)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

func placeholderOpen(name, attrs string) string {
	return fmt.Sprintf(`<%s data-name="%s" data-attrs="%s">`,
		PlaceholderTag, html.EscapeString(name), html.EscapeString(attrs))
}
