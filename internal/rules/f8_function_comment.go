package rules

import (
	"plum/internal/lint"
	"plum/internal/token"
)

type functionComment struct{}

func (functionComment) ID() string { return "C-F8" }

func (functionComment) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, fn := range f.Functions() {
		endLine, endCol := fn.End()
		q := token.Query{
			LineStart: fn.Prototype.LineStart,
			ColStart:  fn.Prototype.ColumnStart,
			LineEnd:   endLine,
			ColEnd:    endCol,
		}
		for _, c := range f.Tokens(q, token.CComment, token.CppComment) {
			out = append(out, lint.Finding{Line: c.Line})
		}
	}
	return out
}
