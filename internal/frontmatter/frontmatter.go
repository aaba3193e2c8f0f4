// Package frontmatter separates the YAML metadata header of a content file from its body.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// ErrInvalidYAML wraps YAML decoding failures of the metadata block.
var ErrInvalidYAML = errors.New("front matter is not a valid YAML mapping")

// FrontMatter is the metadata of a page. It is never mutated after Parse.
type FrontMatter map[string]any

// String returns the value of key when it is a non-empty string.
func (fm FrontMatter) String(key string) string {
	if fm == nil {
		return ""
	}
	s, ok := fm[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Bool reports a boolean value, false when absent or of another type.
func (fm FrontMatter) Bool(key string) bool {
	b, _ := fm[key].(bool)
	return b
}

// Parse splits raw into metadata and body. A document without a leading
// `---` block yields an empty FrontMatter and the whole input as body.
func Parse(raw []byte) (FrontMatter, []byte, error) {
	header, body, had, err := Split(raw)
	if err != nil {
		return nil, nil, err
	}
	if !had {
		return FrontMatter{}, body, nil
	}
	fields, err := ParseYAML(header)
	if err != nil {
		return nil, nil, err
	}
	return fields, body, nil
}

// Split separates the `---` delimited header from the body. LF and CRLF
// documents are both accepted; the newline style of the first line wins.
//
// If the document does not start with a delimiter line, had is false and
// body is the full input.
func Split(content []byte) (header []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	// An empty block closes on the very next line.
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		// The closing delimiter may be the final line without a newline.
		trailer := []byte(nl + "---")
		if bytes.HasSuffix(content, trailer) {
			end := len(content) - len(trailer)
			return content[start : end+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	headerEnd := start + idx + len(nl)
	bodyStart := start + idx + len(closing)
	return content[start:headerEnd], content[bodyStart:], true, nil
}

// ParseYAML parses a header (without delimiters) into a FrontMatter.
func ParseYAML(header []byte) (FrontMatter, error) {
	if len(bytes.TrimSpace(header)) == 0 {
		return FrontMatter{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return FrontMatter(fields), nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
