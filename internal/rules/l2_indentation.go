package rules

import (
	"plum/internal/braces"
	"plum/internal/lint"
	"plum/internal/token"
)

// indentation checks that lines are indented with groups of 4 spaces, and
// that global scope lines follow the bracket depth they start at.
type indentation struct{}

func (indentation) ID() string { return "C-L2" }

func (indentation) Check(f *lint.File) []lint.Finding {
	inBody := make(map[int]bool)
	for _, fn := range f.Functions() {
		if fn.Body == nil {
			continue
		}
		for n := fn.Body.LineStart + 1; n < fn.Body.LineEnd; n++ {
			inBody[n] = true
		}
	}

	var out []lint.Finding
	var scope braces.Scope
	for i, line := range f.Blanked(token.BlankComments | token.BlankStrings) {
		n := i + 1
		if !braces.IsIndented(line, inBody[n]) {
			out = append(out, lint.Finding{Line: n})
		}
		if !inBody[n] && !scope.Check(line) {
			out = append(out, lint.Finding{Line: n, Message: "indentation does not match the nesting depth"})
		}
	}
	return out
}
