package rules

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"plum/internal/lint"
)

// trailingSpace reports every blank character that ends a line, so a line
// with three trailing spaces yields three findings.
type trailingSpace struct{}

func (trailingSpace) ID() string { return "C-G7" }

func (trailingSpace) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for i, line := range f.Lines() {
		line = strings.TrimRight(line, "\r\n")
		trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
		n := utf8.RuneCountInString(line) - utf8.RuneCountInString(trimmed)
		for range n {
			out = append(out, lint.Finding{Line: i + 1})
		}
	}
	return out
}
