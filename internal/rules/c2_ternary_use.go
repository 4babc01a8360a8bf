package rules

import (
	"strings"

	"plum/internal/lint"
	"plum/internal/segment"
	"plum/internal/token"
)

// ternaryUse keeps conditional expressions simple: their value must be
// assigned or returned, they may not nest or modify variables, and both
// branches must differ.
type ternaryUse struct{}

func (ternaryUse) ID() string { return "C-C2" }

func (ternaryUse) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, fn := range f.Functions() {
		if fn.Body == nil {
			continue
		}
		for _, st := range f.Statements(fn) {
			if containsKind(st, token.QuestionMark) {
				out = append(out, checkTernary(st)...)
			}
		}
	}
	return out
}

func containsKind(st segment.Statement, k token.Kind) bool {
	for _, t := range st {
		if t.Kind == k {
			return true
		}
	}
	return false
}

func checkTernary(st segment.Statement) []lint.Finding {
	var out []lint.Finding
	report := func(t token.Token) { out = append(out, lint.Finding{Line: t.Line}) }

	seenTernary := false
	valueUsed := false
	ternaryIndex, colonIndex := -1, -1
	depth := 0
	possibleCall := false

	for i, t := range st {
		switch {
		case (t.Kind == token.Semicolon && i != len(st)-1) ||
			(t.In(token.IncrementDecrement) && valueUsed):
			report(t)
		case seenTernary:
			if t.Kind == token.QuestionMark || t.In(token.ValueModifiers) {
				report(t)
			} else if t.Kind == token.Colon {
				colonIndex = i
			}
		default:
			if t.Kind == token.QuestionMark {
				seenTernary = true
				ternaryIndex = i
				if possibleCall && depth > 0 {
					valueUsed = true
				}
				if !valueUsed {
					report(t)
				}
			} else if t.In(token.AssignOperators) || t.Kind == token.Return {
				valueUsed = true
				if t.In(token.AssignOperators) && depth > 0 {
					report(t)
				}
			}
			possibleCall = possibleCall ||
				(t.Kind == token.Identifier && i+1 < len(st) && st[i+1].Kind == token.LeftParen)
			switch t.Kind {
			case token.LeftParen:
				depth++
			case token.RightParen:
				depth--
			}
		}
	}

	if ternaryIndex >= 0 && colonIndex >= 0 {
		first := st[ternaryIndex+1 : colonIndex]
		second := st[colonIndex+1:]
		if len(second) > 0 && second[len(second)-1].Kind == token.Semicolon {
			second = second[:len(second)-1]
		}
		if branchText(first) == branchText(second) {
			report(st[ternaryIndex])
		}
	}
	return out
}

var branchNoise = token.Parentheses.Union(token.Braces)

func branchText(tokens []token.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if !t.In(branchNoise) {
			b.WriteString(t.Value)
		}
	}
	return b.String()
}
