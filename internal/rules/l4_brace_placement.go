package rules

import (
	"regexp"
	"strings"

	"plum/internal/braces"
	"plum/internal/functions"
	"plum/internal/lint"
	"plum/internal/segment"
	"plum/internal/token"
)

// bracePlacement wants `{` at the end of the line holding its statement,
// except for function bodies where it stands alone, and `}` alone on its
// line but for a following `else`, the `while` of a `do` or a `;`.
type bracePlacement struct{}

func (bracePlacement) ID() string { return "C-L4" }

func (bracePlacement) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, fn := range f.Functions() {
		if fn.Body == nil {
			continue
		}
		out = append(out, checkBodyBraces(f.Statements(fn))...)
	}
	return append(out, checkGlobalBraces(f)...)
}

func checkBodyBraces(statements []segment.Statement) []lint.Finding {
	var out []lint.Finding
	var nesting []token.Kind
	for i, st := range statements {
		if len(st) == 0 {
			continue
		}
		if st[0].In(token.ControlStructures) && st.Last() == token.LeftBrace {
			nesting = append(nesting, st[0].Kind)
		}
		inDo := len(nesting) > 0 && nesting[len(nesting)-1] == token.Do
		if leftBraceMisplaced(statements, i) || rightBraceMisplaced(statements, i, inDo) {
			out = append(out, lint.Finding{Line: st[len(st)-1].Line})
		}
		if st.Last() == token.RightBrace && len(nesting) > 0 {
			nesting = nesting[:len(nesting)-1]
		}
	}
	return out
}

func leftBraceMisplaced(statements []segment.Statement, i int) bool {
	st := statements[i]
	last := st[len(st)-1]
	if last.Kind != token.LeftBrace {
		return false
	}
	if i+1 < len(statements) && len(statements[i+1]) > 0 && last.Line == statements[i+1][0].Line {
		return true
	}
	return len(st) > 1 && last.Line != st[len(st)-2].Line
}

func rightBraceMisplaced(statements []segment.Statement, i int, inDo bool) bool {
	st := statements[i]
	if st[0].Kind != token.RightBrace {
		return false
	}
	if i > 0 {
		prev := statements[i-1]
		if len(prev) > 0 && st[0].Line == prev[len(prev)-1].Line {
			return true
		}
	}
	if i+1 < len(statements) && len(statements[i+1]) > 0 {
		next := statements[i+1][0]
		if next.Kind == token.Else || (inDo && next.Kind == token.While) {
			return st[0].Line != next.Line
		}
		return st[0].Line == next.Line
	}
	return false
}

var (
	globalBraceKinds = []token.Kind{
		token.LeftBrace, token.RightBrace, token.Case, token.Do, token.Else,
		token.For, token.If, token.Typedef, token.Switch, token.While,
		token.Struct, token.LeftParen, token.RightParen, token.Enum,
		token.Assign, token.Union, token.Identifier, token.Semicolon,
	}

	closingBraceLine = regexp.MustCompile(`^}[ \t]*;?(//.*|/\*.*)?[ \t]*$`)
	blankStripper    = strings.NewReplacer(" ", "", "\t", "")
)

// checkGlobalBraces handles braces outside function bodies: type
// definitions and the braces opening and closing bodies. Parenthesized
// groups and initializer lists are skipped.
func checkGlobalBraces(f *lint.File) []lint.Finding {
	fns := f.Functions()
	tokens := f.Tokens(token.All, globalBraceKinds...)
	blanked := f.Blanked(token.BlankComments | token.BlankStrings)
	raw := f.Lines()

	var out []lint.Finding
	report := func(t token.Token) { out = append(out, lint.Finding{Line: t.Line}) }

	var tracker braces.Tracker
	skipping := false
	level := 0
	var openKind, closeKind token.Kind

	for i, t := range tokens {
		if functions.InBody(fns, t.Line, t.Column) {
			continue
		}
		if !skipping {
			switch {
			case t.Kind == token.LeftParen:
				tracker.CancelPending()
				skipping, level, openKind, closeKind = true, 1, token.LeftParen, token.RightParen
				continue
			case t.Kind == token.LeftBrace && i > 0 && tokens[i-1].Kind == token.Assign:
				tracker.CancelPending()
				skipping, level, openKind, closeKind = true, 1, token.LeftBrace, token.RightBrace
				continue
			}
		}
		if skipping {
			switch t.Kind {
			case openKind:
				level++
			case closeKind:
				level--
			}
			skipping = level != 0
			continue
		}

		next := token.Unknown
		if i+1 < len(tokens) {
			next = tokens[i+1].Kind
		}
		ev := tracker.Feed(t, next)

		switch {
		case ev.Open:
			_, isBody := functions.BodyStartingAt(fns, t.Line, t.Column)
			switch {
			case isBody && len(blanked[t.Line-1]) > 1:
				report(t)
			case !isBody && i > 0 && tokens[i-1].Line != t.Line:
				report(t)
			case i+1 < len(tokens) && tokens[i+1].Line == t.Line:
				report(t)
			}
		case ev.Close:
			if ev.Tag != braces.Untagged && ev.Ends {
				continue
			}
			if next == token.Else {
				continue
			}
			line := blankStripper.Replace(raw[t.Line-1])
			if !closingBraceLine.MatchString(line) {
				report(t)
			}
		case t.Kind == token.Else:
			if i > 0 && tokens[i-1].Kind == token.RightBrace && tokens[i-1].Line != t.Line {
				report(t)
			}
			if i+1 >= len(tokens) || (!tokens[i+1].Is(token.If, token.LeftBrace) && tokens[i+1].Line == t.Line) {
				report(t)
			}
		case t.Kind == token.If && i > 0 && tokens[i-1].Kind == token.Else:
			if t.Line != tokens[i-1].Line {
				report(t)
			}
		}
	}
	return out
}
