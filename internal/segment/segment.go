// Package segment groups a flat token stream into statements.
package segment

import "plum/internal/token"

// Statement is one logical unit: a control structure head, a label or an
// ordinary instruction with its terminator.
type Statement []token.Token

// First returns the leading token kind, or token.Unknown for an empty
// statement.
func (s Statement) First() token.Kind {
	if len(s) == 0 {
		return token.Unknown
	}
	return s[0].Kind
}

// Last returns the trailing token kind, or token.Unknown.
func (s Statement) Last() token.Kind {
	if len(s) == 0 {
		return token.Unknown
	}
	return s[len(s)-1].Kind
}

type statementType struct {
	ending            token.Set
	open, close       token.Kind
	hasInterval       bool
	endAfterFirstSkip bool
}

var (
	controlStatement = statementType{
		ending:            token.NewSet(token.LeftBrace, token.Semicolon),
		open:              token.LeftParen,
		close:             token.RightParen,
		hasInterval:       true,
		endAfterFirstSkip: true,
	}
	labelStatement = statementType{
		ending: token.NewSet(token.Colon),
	}
	otherStatement = statementType{
		ending:      token.NewSet(token.Semicolon),
		open:        token.LeftBrace,
		close:       token.RightBrace,
		hasInterval: true,
	}
)

func typeOf(first token.Token) (statementType, bool) {
	switch {
	case first.In(token.ControlStructures):
		return controlStatement, true
	case first.Is(token.Case, token.Default):
		return labelStatement, true
	case first.Kind != token.RightBrace:
		return otherStatement, true
	}
	return statementType{}, false
}

// Split drops non-semantic tokens and groups the rest into statements.
// Concatenating the result gives back the filtered input.
func Split(tokens []token.Token) []Statement {
	filtered := token.Semantic(tokens)
	var statements []Statement
	for i := 0; i < len(filtered); i++ {
		st, ok := typeOf(filtered[i])
		if !ok {
			statements = append(statements, Statement{filtered[i]})
			continue
		}
		var current Statement
		current, i = collect(filtered, i, st)
		statements = append(statements, current)
	}
	return statements
}

// IsElse reports a bare else at i, one not followed by if.
func IsElse(tokens []token.Token, i int) bool {
	return i < len(tokens) && tokens[i].Kind == token.Else &&
		(i+1 >= len(tokens) || tokens[i+1].Kind != token.If)
}

// collect gathers the statement starting at i and returns it with the
// index of its last token.
func collect(tokens []token.Token, i int, st statementType) (Statement, int) {
	var out Statement
	skipped := false

	bareElse := IsElse(tokens, i)
	if bareElse {
		out = append(out, tokens[i])
		skipped = true
	}
	for !bareElse && i < len(tokens) && !st.ending.Has(tokens[i].Kind) {
		out = append(out, tokens[i])
		if st.hasInterval && tokens[i].Kind == st.open {
			var inner []token.Token
			i, inner = SkipInterval(tokens, i, st.open, st.close)
			out = append(out, inner...)
			if i < len(tokens) {
				out = append(out, tokens[i])
			}
			if st.endAfterFirstSkip {
				skipped = true
				break
			}
		}
		i++
	}

	switch {
	case skipped && i+1 < len(tokens) && st.ending.Has(tokens[i+1].Kind):
		out = append(out, tokens[i+1])
		i++
	case !skipped && i < len(tokens) && st.ending.Has(tokens[i].Kind):
		out = append(out, tokens[i])
	}
	return out, i
}

// SkipInterval walks from the opening token at i to its matching closing
// token. It returns the index of the closing token (len(tokens) when it
// is missing) and the tokens strictly between the two.
func SkipInterval(tokens []token.Token, i int, open, close token.Kind) (int, []token.Token) {
	depth := 0
	var inner []token.Token
	for ; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, inner
			}
		}
		if depth != 0 && (tokens[i].Kind != open || depth != 1) {
			inner = append(inner, tokens[i])
		}
	}
	return i, inner
}
