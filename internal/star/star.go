// Package star tells apart the meanings of a `*` token: multiplication,
// dereference or pointer declaration.
//
// The classifier reads a small token window, not a parse tree. It is a
// heuristic and answers Unclear when the window does not settle the
// question; callers must not report on Unclear.
package star

import (
	"strings"

	"plum/internal/token"
)

// Type is the classification of one star.
type Type int

const (
	Unclear Type = iota
	Multiplication
	Dereference
	Pointer
	// Lonely is a star alone in parentheses, as in `int (*)[]`.
	Lonely
)

func (t Type) String() string {
	switch t {
	case Multiplication:
		return "multiplication"
	case Dereference:
		return "dereference"
	case Pointer:
		return "pointer"
	case Lonely:
		return "lonely"
	}
	return "unclear"
}

// Window returns the tokens from the start of the star's line to the end
// of the following line, and the index of the star in them. A star that
// opens its line also gets the tokens back to the previous line holding
// code, so a continued expression keeps its left operand.
func Window(src token.Source, star token.Token) ([]token.Token, int) {
	start := star.Line
	if opensLine(src, star) {
		start = previousCodeLine(src, star.Line)
	}
	tokens := src.Tokens(token.Query{LineStart: start, ColStart: 0, LineEnd: star.Line + 1, ColEnd: -1})
	return tokens, token.IndexOf(tokens, star)
}

func opensLine(src token.Source, star token.Token) bool {
	before := src.Tokens(token.Query{LineStart: star.Line, ColStart: 0, LineEnd: star.Line, ColEnd: star.Column})
	for _, t := range before {
		if !t.In(token.NonSemantic) {
			return false
		}
	}
	return true
}

// previousCodeLine is the closest line above line with a semantic token,
// or line itself when there is none.
func previousCodeLine(src token.Source, line int) int {
	for l := line - 1; l >= 1; l-- {
		for _, t := range src.Tokens(token.Query{LineStart: l, ColStart: 0, LineEnd: l, ColEnd: -1}) {
			if !t.In(token.NonSemantic) {
				return l
			}
		}
	}
	return line
}

// tokens that leave an operand expected, so a star after them is unary
var unaryContext = token.NewSet(
	token.Return, token.Sizeof, token.LeftBracket, token.Not, token.Compl,
	token.Case,
).Union(token.BinaryOperators)

var statementBoundary = token.NewSet(token.Semicolon, token.LeftBrace, token.RightBrace)

// Classify decides the type of the star at index in window. Space tokens
// of the window are ignored.
func Classify(window []token.Token, index int) Type {
	if index < 0 || index >= len(window) || window[index].Kind != token.Star {
		return Unclear
	}
	code := token.Filter(window, token.NewSet(token.Space))
	i := token.IndexOf(code, window[index])
	if i < 0 {
		return Unclear
	}

	next := kindAt(code, i+1)
	p := previousCode(code, i)
	if opensStatement(code, p) {
		if next == token.Identifier || next == token.LeftParen || next == token.Star {
			return Dereference
		}
		return Unclear
	}

	prev := code[p]
	switch {
	case prev.Kind == token.LeftParen:
		return afterLeftParen(code, i)
	case prev.Kind == token.RightParen:
		return Multiplication
	case prev.Kind == token.Star:
		return chained(code, i)
	case prev.In(token.AssignOperators):
		return Dereference
	case unaryContext.Has(prev.Kind):
		return Dereference
	}

	// A lone multiplication whose result is unused would be pointless, so
	// short statements are read as declarations when a type is in sight.
	if next == token.Semicolon || next == token.Assign ||
		prev.In(token.Types) ||
		(prev.Kind == token.Identifier && strings.HasSuffix(prev.Value, "_t")) {
		return Pointer
	}

	if looksLikeProduct(window, index, code, p, i) {
		return Multiplication
	}
	return Unclear
}

// previousCode is the index of the last token before i that is not a
// newline or a comment, or -1.
func previousCode(code []token.Token, i int) int {
	p := i - 1
	for p >= 0 && code[p].In(token.NonSemantic) {
		p--
	}
	return p
}

// opensStatement reports whether the token at p ends a statement or a
// control structure head, so whatever follows starts a new statement.
func opensStatement(code []token.Token, p int) bool {
	if p < 0 {
		return true
	}
	switch k := code[p].Kind; {
	case statementBoundary.Has(k), k == token.Else, k == token.Do:
		return true
	case k == token.RightParen:
		head := previousCode(code, matchingLeftParen(code, p))
		return head >= 0 && code[head].In(token.ControlStructures)
	}
	return false
}

func matchingLeftParen(code []token.Token, closing int) int {
	depth := 0
	for j := closing; j >= 0; j-- {
		switch code[j].Kind {
		case token.RightParen:
			depth++
		case token.LeftParen:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func kindAt(tokens []token.Token, i int) token.Kind {
	if i < 0 || i >= len(tokens) {
		return token.Unknown
	}
	return tokens[i].Kind
}

// afterLeftParen handles `(*`: `(*)`, `(*name)(...)`, `(*name)[...]` and
// `(*name)` used as a value.
func afterLeftParen(code []token.Token, i int) Type {
	switch kindAt(code, i+1) {
	case token.RightParen:
		return Lonely
	case token.Identifier:
	default:
		return Unclear
	}

	depth := 1
	j := i + 1
	for ; j < len(code); j++ {
		if code[j].Kind == token.LeftParen {
			depth++
		} else if code[j].Kind == token.RightParen {
			depth--
			if depth == 0 {
				break
			}
		}
	}
	if j >= len(code) {
		return Unclear
	}

	k := j + 1
	for k < len(code) && code[k].Kind == token.Newline {
		k++
	}
	if k < len(code) && code[k].Kind != token.LeftParen && code[k].Kind != token.LeftBracket {
		return Dereference
	}
	return Pointer
}

// chained handles the second and later stars of `**`.
func chained(code []token.Token, i int) Type {
	start := i - 1
	for start > 0 && code[start-1].Kind == token.Star {
		start--
	}
	seen := 0
	for _, t := range code[:start] {
		if t.Kind == token.Newline {
			continue
		}
		if !t.In(token.Types) {
			return Dereference
		}
		seen++
	}
	if seen == 0 {
		return Dereference
	}
	return Pointer
}

// looksLikeProduct recognizes stars between two operands: after a literal
// or an index, in statements computing a value, or spaced on both sides.
func looksLikeProduct(window []token.Token, index int, code []token.Token, p, i int) bool {
	prev := code[p]
	if prev.In(token.Literals) || prev.Kind == token.RightBracket {
		return true
	}
	for j := p; j >= 0; j-- {
		t := code[j]
		if statementBoundary.Has(t.Kind) {
			break
		}
		if t.In(token.AssignOperators) || t.Kind == token.Return {
			return true
		}
	}

	operand := token.Identifiers
	next := kindAt(code, i+1)
	spacedBefore := index > 0 && window[index-1].Kind == token.Space
	spacedAfter := index+1 < len(window) && window[index+1].Kind == token.Space
	return spacedBefore && spacedAfter && operand.Has(prev.Kind) && operand.Has(next)
}
