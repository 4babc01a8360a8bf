package rules

import (
	"plum/internal/lint"
	"plum/internal/segment"
	"plum/internal/token"
)

// declarationZone wants variables declared at the top of a body, one per
// statement. The zone ends at the first statement that surely is not a
// declaration.
type declarationZone struct{}

func (declarationZone) ID() string { return "C-L5" }

func (declarationZone) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, fn := range f.Functions() {
		if fn.Body == nil {
			continue
		}
		inZone := true
		for _, st := range f.Statements(fn) {
			switch segment.IsVariableDeclaration(st) {
			case segment.Yes:
				if !inZone {
					out = append(out, lint.Finding{Line: st[0].Line, Message: "declaration after the first statement"})
				} else if declaresSeveral(st) {
					out = append(out, lint.Finding{Line: st[0].Line, Message: "several variables declared at once"})
				}
			case segment.No:
				inZone = false
			}
		}
	}
	return out
}

// declaresSeveral finds a comma before the initializer, outside
// parentheses.
func declaresSeveral(st segment.Statement) bool {
	for i := 0; i < len(st); i++ {
		switch st[i].Kind {
		case token.Assign:
			return false
		case token.LeftParen:
			i, _ = segment.SkipInterval(st, i, token.LeftParen, token.RightParen)
		case token.Comma:
			return true
		}
	}
	return false
}
