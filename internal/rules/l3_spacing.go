package rules

import (
	"regexp"
	"strings"

	"plum/internal/lint"
	"plum/internal/token"
)

// spacing checks white space around keywords, commas and operators, then
// line by line between neighbouring tokens.
type spacing struct{}

func (spacing) ID() string { return "C-L3" }

func (spacing) Check(f *lint.File) []lint.Finding {
	all := f.Tokens(token.All)
	var out []lint.Finding
	report := func(t token.Token) { out = append(out, lint.Finding{Line: t.Line}) }

	checkKeywordSpacing(all, report)
	checkOperatorSpacing(token.Only(all, spaceRelated), report)
	for _, line := range tokensByLine(all) {
		checkLineSpacing(line, report)
	}
	return out
}

var (
	blanks = token.NewSet(token.Space, token.Newline)

	spaceRelated = token.BinaryOperators.Union(
		token.UnaryOperators,
		blanks,
		token.Identifiers,
		token.Types,
		token.Parentheses,
		token.NewSet(token.Comma, token.Semicolon),
		token.SquareBrackets,
		token.Braces,
		token.Keywords,
		token.NewSet(token.PPDefine, token.And, token.Sizeof),
	)

	keywordTargets = token.Keywords.Union(token.NewSet(token.Comma))

	needsSpaceAfter = token.NewSet(
		token.If, token.Switch, token.Case, token.For, token.Do, token.While,
		token.Return, token.Comma, token.Struct,
	)

	operators = token.UnaryOperators.Union(token.BinaryOperators)

	caseLabels = token.NewSet(token.Case, token.Default)
	separators = token.NewSet(token.Comma, token.Semicolon, token.LeftBrace)

	unaryAllowedBefore = token.NewSet(token.Not, token.And)
	operatorNeighbours = blanks.Union(token.Parentheses, token.SquareBrackets, token.Braces)
)

// badSpaceAt is true for a run of several blanks in the middle of code.
// Indentation and alignment before a comment or a line break are fine.
func badSpaceAt(tokens []token.Token, i int) bool {
	t := tokens[i]
	if t.Kind == token.Newline || t.Value == " " {
		return false
	}
	if t.Kind == token.Space && i > 0 && tokens[i-1].Kind == token.Newline {
		return false
	}
	if t.Kind == token.Space && i+1 < len(tokens) &&
		(tokens[i+1].Kind == token.Newline || tokens[i+1].In(token.Comments)) {
		return false
	}
	return true
}

func checkKeywordSpacing(tokens []token.Token, report func(token.Token)) {
	for i, t := range tokens {
		if !t.In(keywordTargets) || i+1 >= len(tokens) {
			continue
		}
		next := tokens[i+1]
		switch {
		case t.Kind == token.Return:
			// `return;` or `return value;` with exactly one space
			if next.Kind == token.Semicolon {
				continue
			}
			if !next.In(blanks) ||
				i+2 >= len(tokens) ||
				tokens[i+2].Kind == token.Semicolon ||
				badSpaceAt(tokens, i+1) {
				report(t)
			}
		case needsSpaceAfter.Has(t.Kind):
			if badSpaceAt(tokens, i+1) {
				report(t)
			}
		case next.In(blanks):
			report(t)
		}
	}
}

func checkOperatorSpacing(tokens []token.Token, report func(token.Token)) {
	for i, t := range tokens {
		checkAmpersand(tokens, i, report)
		if !t.In(operators) {
			continue
		}

		prevCase := token.PrevIndex(tokens, i, caseLabels)
		prevSeparator := token.PrevIndex(tokens, i, separators)
		outsideLabel := prevCase < prevSeparator || prevCase < 0

		if !t.In(token.UnaryOperators) {
			checkBinaryOperator(tokens, i, outsideLabel, report)
			continue
		}
		if i == 0 || i == len(tokens)-1 {
			continue
		}
		around := operatorNeighbours.Union(token.NewSet(t.Kind))
		prev, next := tokens[i-1], tokens[i+1]
		if !prev.In(unaryAllowedBefore) && !prev.In(around) && !next.In(around) {
			report(t)
		}
	}
}

func checkBinaryOperator(tokens []token.Token, i int, outsideLabel bool, report func(token.Token)) {
	if i == 0 {
		return
	}
	t := tokens[i]
	// the `?:` operator
	if t.Kind == token.Colon && tokens[i-1].Kind == token.QuestionMark {
		return
	}
	if outsideLabel && badSpaceAt(tokens, i-1) {
		report(t)
		return
	}
	if i+1 >= len(tokens) {
		return
	}
	if t.Kind == token.QuestionMark && tokens[i+1].Kind == token.Colon {
		return
	}
	if outsideLabel && badSpaceAt(tokens, i+1) {
		report(t)
	}
}

// checkAmpersand reports `a& b`, a space after `&` without one before.
func checkAmpersand(tokens []token.Token, i int, report func(token.Token)) {
	if tokens[i].Kind != token.And || i <= 1 || i == len(tokens)-1 {
		return
	}
	if tokens[i-1].Kind != token.Space && tokens[i+1].Kind == token.Space {
		report(tokens[i])
	}
}

// tokensByLine groups tokens by starting line, without indentation, the
// line break, trailing blanks and trailing comments. Empty groups are
// dropped.
func tokensByLine(tokens []token.Token) [][]token.Token {
	var lines [][]token.Token
	line := 0
	for _, t := range tokens {
		if t.Line != line {
			lines = append(lines, nil)
			line = t.Line
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], t)
	}
	out := lines[:0]
	for _, l := range lines {
		if l = trimLine(l); len(l) > 0 {
			out = append(out, l)
		}
	}
	return out
}

func trimLine(l []token.Token) []token.Token {
	if len(l) > 0 && l[0].Kind == token.Space {
		l = l[1:]
	}
	if len(l) > 0 && l[len(l)-1].Kind == token.Newline {
		l = l[:len(l)-1]
	}
	if len(l) > 0 && l[len(l)-1].Kind == token.Space {
		l = l[:len(l)-1]
	}
	if len(l) > 0 && l[len(l)-1].In(token.Comments) {
		return trimLine(l[:len(l)-1])
	}
	return l
}

type kindPair struct{ a, b token.Kind }

var (
	spaceRequiredBetween = map[kindPair]bool{
		{token.Identifier, token.LeftBrace}: true,
		{token.Semicolon, token.Identifier}: true,
	}
	spaceRequiredAfter  = token.NewSet(token.PPInclude, token.Else)
	spaceRequiredBefore = token.NewSet(token.Else)

	spaceForbiddenBetween = map[kindPair]bool{
		{token.Identifier, token.LeftParen}: true,
		{token.Sizeof, token.LeftParen}:     true,
		{token.RightParen, token.Semicolon}: true,
	}
	spaceForbiddenAfter  = token.NewSet(token.LeftParen, token.LeftBracket, token.Arrow, token.Not)
	spaceForbiddenBefore = token.NewSet(
		token.LeftBracket, token.RightParen, token.RightBracket, token.Comma,
		token.Semicolon, token.Arrow,
	)

	includeSpacing = regexp.MustCompile(`^#include( [^ ].*)?$`)
)

func checkLineSpacing(line []token.Token, report func(token.Token)) {
	if line[0].Kind == token.PPDefine {
		return
	}
	for i, t := range line {
		if t.Kind == token.Space && t.Value != " " {
			report(t)
			continue
		}
		if t.Is(token.PPQHeader, token.PPHHeader) &&
			strings.HasPrefix(t.Value, "#include") &&
			!includeSpacing.MatchString(t.Value) {
			report(t)
			continue
		}

		prev, next := token.Unknown, token.Unknown
		hasPrev, hasNext := i > 0, i+1 < len(line)
		if hasPrev {
			prev = line[i-1].Kind
		}
		if hasNext {
			next = line[i+1].Kind
		}
		if (hasNext && spaceMissing(t.Kind, next)) ||
			(t.Kind == token.Space && spaceUnwanted(prev, hasPrev, next, hasNext)) {
			report(t)
		}
	}
}

func spaceMissing(cur, next token.Kind) bool {
	switch {
	case spaceRequiredBetween[kindPair{cur, next}]:
		return true
	case cur != token.Space && spaceRequiredBefore.Has(next):
		return true
	case next != token.Space && spaceRequiredAfter.Has(cur):
		return true
	}
	return false
}

func spaceUnwanted(prev token.Kind, hasPrev bool, next token.Kind, hasNext bool) bool {
	if hasPrev && hasNext && spaceForbiddenBetween[kindPair{prev, next}] {
		return true
	}
	return (hasPrev && spaceForbiddenAfter.Has(prev)) || (hasNext && spaceForbiddenBefore.Has(next))
}
