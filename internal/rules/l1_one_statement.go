package rules

import (
	"plum/internal/lint"
	"plum/internal/segment"
	"plum/internal/token"
)

// closingLineFollowers lists what may share the line of the `}` closing a
// block opened by the key.
var closingLineFollowers = map[token.Kind]token.Kind{
	token.If:   token.Else,
	token.Do:   token.While,
	token.Else: token.Else,
}

// oneStatement allows one statement and one assignment per line.
type oneStatement struct{}

func (oneStatement) ID() string { return "C-L1" }

func (oneStatement) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, fn := range f.Functions() {
		if fn.Body == nil {
			continue
		}
		out = append(out, checkLineStatements(f.Statements(fn))...)
	}
	return out
}

func checkLineStatements(statements []segment.Statement) []lint.Finding {
	var out []lint.Finding
	// token.Unknown marks blocks after which nothing may follow the `}`
	var followers []token.Kind

	for i, st := range statements {
		if len(st) == 0 {
			continue
		}
		if sharesLine(statements, i, followers) ||
			assignsInControlHead(st) ||
			chainsAssignments(st) ||
			assignsInReturn(st) {
			out = append(out, lint.Finding{Line: st[0].Line})
		}

		if i > 0 && statements[i-1].First() == token.RightBrace && len(followers) > 0 {
			followers = followers[:len(followers)-1]
		}
		if st.Last() == token.LeftBrace {
			next, ok := closingLineFollowers[st[0].Kind]
			if !ok {
				next = token.Unknown
			}
			followers = append(followers, next)
		}
	}
	return out
}

func sharesLine(statements []segment.Statement, i int, followers []token.Kind) bool {
	if i == 0 || len(statements[i-1]) == 0 {
		return false
	}
	prev := statements[i-1]
	cur := statements[i]
	if cur[0].Line != prev[len(prev)-1].Line {
		return false
	}
	allowed := prev.First() == token.RightBrace &&
		len(followers) > 0 &&
		followers[len(followers)-1] != token.Unknown &&
		cur[0].Kind == followers[len(followers)-1]
	return !allowed
}

func assignsInControlHead(st segment.Statement) bool {
	return st[0].In(token.ControlStructures) && st[0].Kind != token.For && hasModification(st)
}

func assignsInReturn(st segment.Statement) bool {
	return st[0].Kind == token.Return && !isStructureInitialization(st[1:]) && hasModification(st)
}

func hasModification(tokens []token.Token) bool {
	for _, t := range tokens {
		if t.In(token.ValueModifiers) {
			return true
		}
	}
	return false
}

func chainsAssignments(st []token.Token) bool {
	if len(st) == 0 || st[0].Kind == token.Return {
		return false
	}
	if st[0].Kind == token.For {
		for _, part := range forHeadParts(st) {
			if chainsAssignments(part) || hasRootComma(part) {
				return true
			}
		}
		return false
	}
	assigned := false
	for i, t := range st {
		if !t.In(token.ValueModifiers) {
			continue
		}
		if assigned {
			return true
		}
		// the assignments of an initializer list are its own
		if i+1 < len(st) && isStructureInitialization(st[i+1:]) {
			return false
		}
		assigned = true
	}
	return false
}

// forHeadParts splits `for (a; b; c)` into its non-empty clauses.
func forHeadParts(st []token.Token) [][]token.Token {
	var parts [][]token.Token
	depth := 0
	start := -1
	for i, t := range st {
		switch {
		case t.Kind == token.LeftParen:
			depth++
			if depth == 1 {
				start = i + 1
			}
		case t.Kind == token.RightParen:
			depth--
			if depth == 0 {
				if start >= 0 && start < i {
					parts = append(parts, st[start:i])
				}
				return parts
			}
		case t.Kind == token.Semicolon && depth == 1:
			if start >= 0 && start < i {
				parts = append(parts, st[start:i])
			}
			start = i + 1
		}
	}
	return parts
}

// hasRootComma finds a comma outside the parentheses of the expression,
// leading parentheses counting as the root level.
func hasRootComma(part []token.Token) bool {
	root := 0
	i := 0
	for i < len(part) && part[i].Kind == token.LeftParen {
		root++
		i++
	}
	depth := 0
	for _, t := range part[i:] {
		switch t.Kind {
		case token.LeftParen:
			depth++
		case token.RightParen:
			depth--
		case token.Comma:
			if depth <= root {
				return true
			}
		}
	}
	return false
}

// isStructureInitialization matches `{ ... }` and `(type){ ... }` after an
// assignment.
func isStructureInitialization(tokens []token.Token) bool {
	if len(tokens) < 3 {
		return false
	}
	switch tokens[0].Kind {
	case token.LeftBrace:
		return true
	case token.LeftParen:
		end, _ := segment.SkipInterval(tokens, 0, token.LeftParen, token.RightParen)
		return end+1 < len(tokens) && tokens[end+1].Kind == token.LeftBrace
	}
	return false
}
