package rules

import (
	"plum/internal/lint"
	"plum/internal/segment"
	"plum/internal/token"
)

// nestingDepth limits nested control structures. An `else if` weighs two
// levels, and so does the `else` that follows it.
type nestingDepth struct {
	maxDepth int
}

func (*nestingDepth) ID() string { return "C-C1" }

func (r *nestingDepth) DefaultSettings() map[string]any {
	return map[string]any{"max_depth": r.maxDepth}
}

func (r *nestingDepth) ApplySettings(settings map[string]any) error {
	return intSettings(settings, map[string]*int{"max_depth": &r.maxDepth})
}

type branching struct {
	depth     int
	isElseIf  bool
	hasBraces bool
}

func (r *nestingDepth) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, fn := range f.Functions() {
		if fn.Body == nil {
			continue
		}
		out = append(out, r.checkStatements(f.Statements(fn))...)
	}
	return out
}

func (r *nestingDepth) checkStatements(statements []segment.Statement) []lint.Finding {
	var out []lint.Finding
	var stack []branching
	justLeftElseIf := false

	for _, st := range statements {
		if len(st) == 0 {
			continue
		}
		if st[0].In(token.ControlStructures) {
			isElseIf := len(st) >= 2 && st[0].Kind == token.Else && st[1].Kind == token.If
			add := 1
			if isElseIf {
				add++
			}
			if st[0].Kind == token.Else && justLeftElseIf {
				add++
			}
			if current(stack)+add > r.maxDepth {
				out = append(out, lint.Finding{Line: st[0].Line})
			}
			if st.Last() != token.Semicolon {
				stack = append(stack, branching{depth: add, isElseIf: isElseIf, hasBraces: st.Last() == token.LeftBrace})
			}
			continue
		}
		if len(stack) == 0 {
			continue
		}

		justLeftElseIf = false
		if (len(st) == 1 && st[0].Kind == token.RightBrace) || !stack[len(stack)-1].hasBraces {
			left := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			justLeftElseIf = left.isElseIf
			for len(stack) > 0 && !stack[len(stack)-1].hasBraces {
				left = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				justLeftElseIf = left.isElseIf
			}
		}
	}
	return out
}

func current(stack []branching) int {
	sum := 0
	for _, b := range stack {
		sum += b.depth
	}
	return sum
}
