package rules

import (
	"plum/internal/lint"
	"plum/internal/token"
)

type inlineAssembly struct{}

func (inlineAssembly) ID() string { return "C-G10" }

func (inlineAssembly) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, t := range f.Tokens(token.All, token.Asm, token.Identifier) {
		if t.Kind == token.Asm || t.Value == "__asm__" {
			out = append(out, lint.Finding{Line: t.Line})
		}
	}
	return out
}
