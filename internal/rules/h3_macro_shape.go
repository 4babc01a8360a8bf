package rules

import (
	"strings"
	"unicode"

	"plum/internal/lint"
	"plum/internal/token"
)

// macroShape wants macros on a single line holding a single statement.
type macroShape struct{}

func (macroShape) ID() string { return "C-H3" }

func (macroShape) Check(f *lint.File) []lint.Finding {
	lines := f.Lines()
	var out []lint.Finding
	for _, t := range f.Tokens(token.All, token.PPDefine) {
		line := strings.TrimRightFunc(lines[t.Line-1], unicode.IsSpace)
		if strings.HasSuffix(line, `\`) || strings.Contains(line, ";") {
			out = append(out, lint.Finding{Line: t.Line})
		}
	}
	return out
}
