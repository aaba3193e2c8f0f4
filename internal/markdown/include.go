package markdown

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/frontmatter"
)

var (
	// ErrIncludeCycle is returned when a partial includes itself, directly or transitively.
	ErrIncludeCycle = errors.New("include cycle")
	// ErrIncludeOutsidePartials is returned for include names that escape the partials directory.
	ErrIncludeOutsidePartials = errors.New("include path escapes partials directory")
	// ErrIncludeNotFound is returned when the named partial does not exist.
	ErrIncludeNotFound = errors.New("partial not found")
	// ErrIncludeUnconfigured is returned when a document uses @include but no partials directory is set.
	ErrIncludeUnconfigured = errors.New("partials directory not configured")
)

var includeDirective = regexp.MustCompile(`^@include\s+["']([^"']+)["']\s*$`)

// includer expands @include directives against a single partials directory.
// Names are never resolved relative to the including document. Markdown
// partials are spliced in; any other file becomes a fenced code block.
type includer struct {
	root string
}

func (in includer) expand(src []byte) ([]byte, error) {
	return in.expandWithStack(src, nil)
}

func (in includer) expandWithStack(src []byte, stack []string) ([]byte, error) {
	lines := splitLines(src)
	var out strings.Builder
	out.Grow(len(src))

	var fence fenceTracker
	for i, line := range lines {
		if i > 0 {
			out.WriteByte('\n')
		}
		if fence.inFence(line) {
			out.WriteString(line)
			continue
		}
		m := includeDirective.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			out.WriteString(line)
			continue
		}

		name, err := in.clean(m[1])
		if err != nil {
			return nil, err
		}
		if slices.Contains(stack, name) {
			return nil, fmt.Errorf("%w: %s", ErrIncludeCycle, strings.Join(append(stack, name), " -> "))
		}

		data, err := in.read(name)
		if err != nil {
			return nil, err
		}
		if lang, ok := codeLanguage(name); ok {
			out.WriteString(indentLines(codeBlock(lang, string(data)), leadingIndent(line)))
			continue
		}
		_, partial, err := frontmatter.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("partial %s: %w", name, err)
		}
		expanded, err := in.expandWithStack(partial, append(slices.Clone(stack), name))
		if err != nil {
			return nil, err
		}
		out.WriteString(indentLines(strings.TrimRight(string(expanded), "\r\n"), leadingIndent(line)))
	}
	return []byte(out.String()), nil
}

func (in includer) clean(name string) (string, error) {
	if in.root == "" {
		return "", fmt.Errorf("%w: @include %q", ErrIncludeUnconfigured, name)
	}
	name = filepath.ToSlash(name)
	if path.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrIncludeOutsidePartials, name)
	}
	cleaned := path.Clean(name)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %s", ErrIncludeOutsidePartials, name)
	}
	return cleaned, nil
}

func (in includer) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(in.root, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrIncludeNotFound, name)
		}
		return nil, fmt.Errorf("read partial %s: %w", name, err)
	}
	return data, nil
}

// codeLanguage reports whether name is included as a code listing rather
// than Markdown, and the fence language taken from its extension.
func codeLanguage(name string) (string, bool) {
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case ".md", ".mdx":
		return "", false
	case "":
		return "text", true
	default:
		return ext[1:], true
	}
}

// codeBlock fences body with a backtick run longer than any inside it.
func codeBlock(lang, body string) string {
	longest, run := 0, 0
	for _, c := range body {
		if c == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", max(3, longest+1))
	return fence + lang + "\n" + strings.TrimRight(body, "\r\n") + "\n" + fence
}

func indentLines(s, indent string) string {
	if indent == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = indent + l
		}
	}
	return strings.Join(lines, "\n")
}
