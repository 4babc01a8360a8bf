package rules

import (
	"plum/internal/lint"
	"plum/internal/token"
)

type gotoUse struct{}

func (gotoUse) ID() string { return "C-C3" }

func (gotoUse) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, t := range f.Tokens(token.All, token.Goto) {
		out = append(out, lint.Finding{Line: t.Line})
	}
	return out
}
