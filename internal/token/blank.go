package token

import "strings"

// BlankMode selects what Blank replaces.
type BlankMode uint8

const (
	BlankComments BlankMode = 1 << iota
	BlankStrings
)

// Blank returns a copy of lines where comment and string literal contents
// are replaced by spaces. Delimiters are kept and every line keeps its
// length, so positions computed on the result stay valid on the source.
func Blank(lines []string, tokens []Token, mode BlankMode) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	if mode == 0 {
		return out
	}
	for _, t := range tokens {
		switch {
		case t.Kind == CComment && mode&BlankComments != 0:
			blankToken(out, t, "/*", "*/")
		case t.Kind == CppComment && mode&BlankComments != 0:
			blankToken(out, t, "//", "")
		case t.Kind == StringLit && mode&BlankStrings != 0:
			blankToken(out, t, `"`, `"`)
		}
	}
	return out
}

func blankToken(lines []string, t Token, open, close string) {
	parts := strings.Split(t.Value, "\n")
	for off, part := range parts {
		idx := t.Line - 1 + off
		if idx < 0 || idx >= len(lines) {
			return
		}
		line := []byte(lines[idx])
		start := 0
		if off == 0 {
			start = t.Column
		}
		end := min(start+len(part), len(line))

		head, tail := 0, 0
		if off == 0 && strings.HasPrefix(part, open) {
			head = len(open)
		}
		if off == len(parts)-1 && close != "" && strings.HasSuffix(part, close) && len(part)-head >= len(close) {
			tail = len(close)
		}
		for i := start + head; i < end-tail; i++ {
			line[i] = ' '
		}
		if n := len(line); n > 0 && lines[idx][n-1] == '\\' {
			line[n-1] = '\\'
		}
		lines[idx] = string(line)
	}
}

// IsBlankLine reports a line holding only white space.
func IsBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}
