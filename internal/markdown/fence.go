package markdown

import "strings"

// fenceTracker follows fenced code blocks line by line so source-level
// preprocessing never touches code examples.
type fenceTracker struct {
	char  byte
	count int
}

// inFence reports whether line is inside (or delimits) a fenced code block
// and advances the tracker state.
func (f *fenceTracker) inFence(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if f.count == 0 {
		if ch, n := fenceRun(trimmed); n >= 3 {
			// Backtick fences may not carry backticks in the info string.
			if ch == '`' && strings.ContainsRune(trimmed[n:], '`') {
				return false
			}
			f.char, f.count = ch, n
			return true
		}
		return false
	}
	if ch, n := fenceRun(trimmed); ch == f.char && n >= f.count && strings.TrimSpace(trimmed[n:]) == "" {
		f.char, f.count = 0, 0
	}
	return true
}

func fenceRun(s string) (byte, int) {
	if s == "" || (s[0] != '`' && s[0] != '~') {
		return 0, 0
	}
	ch := s[0]
	n := 0
	for n < len(s) && s[n] == ch {
		n++
	}
	return ch, n
}

// splitLines splits on LF keeping a trailing CR on each line untouched.
func splitLines(src []byte) []string {
	return strings.Split(string(src), "\n")
}

func leadingIndent(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
