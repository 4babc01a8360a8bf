package segment

import "plum/internal/token"

// Certainty is a three-state answer.
type Certainty int

const (
	No Certainty = iota
	Yes
	Unsure
)

func (c Certainty) String() string {
	switch c {
	case Yes:
		return "yes"
	case Unsure:
		return "unsure"
	}
	return "no"
}

// IsVariableDeclaration guesses whether a statement declares variables.
// A leading type keyword is a sure yes. Otherwise the part before the
// first `=` is inspected: two defining identifiers (`my_type_t x`) mean yes
// while `a(b)(c)` shapes are ambiguous between a call and a declaration.
func IsVariableDeclaration(statement Statement) Certainty {
	if len(statement) == 0 {
		return No
	}
	if statement[0].In(token.Types) {
		return Yes
	}

	var before []token.Token
	for i := 0; i < len(statement); {
		t := statement[i]
		if t.Kind == token.Assign {
			break
		}
		if t.Kind == token.LeftBracket {
			before = append(before, t)
			end, inner := SkipInterval(statement, i, token.LeftBracket, token.RightBracket)
			before = append(before, inner...)
			if end < len(statement) {
				before = append(before, statement[end])
			}
			i = end + 1
			continue
		}
		before = append(before, t)
		i++
	}

	if len(before) == 0 {
		return Unsure
	}
	if before[0].Kind != token.Identifier {
		return No
	}
	if containsAmbiguousStatement(before) {
		return Unsure
	}
	if definingIdentifiers(before) >= 2 &&
		!startsWithCall(before) &&
		!containsAssignment(before) {
		return Yes
	}
	return No
}

// containsAmbiguousStatement matches identifiers followed by exactly two
// parenthesized groups, such as `type (*name)(args)`.
func containsAmbiguousStatement(tokens []token.Token) bool {
	i := 0
	for i < len(tokens) && tokens[i].Kind == token.Identifier {
		i++
	}
	if i >= len(tokens) || i == 0 {
		return false
	}
	pairs := 0
	for i < len(tokens) && tokens[i].Kind == token.LeftParen {
		pairs++
		i, _ = SkipInterval(tokens, i, token.LeftParen, token.RightParen)
		i++
	}
	return pairs == 2
}

func startsWithCall(tokens []token.Token) bool {
	return len(tokens) >= 2 &&
		tokens[0].Kind == token.Identifier &&
		tokens[1].Kind == token.LeftParen
}

func containsAssignment(tokens []token.Token) bool {
	for _, t := range tokens {
		if t.In(token.AssignOperators) {
			return true
		}
	}
	return false
}

// definingIdentifiers counts identifiers outside brackets that are not
// part of a member access. A call anywhere makes the count 0.
func definingIdentifiers(tokens []token.Token) int {
	amount := 0
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.Kind {
		case token.Identifier:
			if i+1 < len(tokens) && tokens[i+1].Kind == token.LeftParen {
				return 0
			}
			nextAccess := i+1 < len(tokens) && tokens[i+1].In(token.StructureAccess)
			prevAccess := i > 0 && tokens[i-1].In(token.StructureAccess)
			if !nextAccess && !prevAccess {
				amount++
			}
		case token.LeftBracket:
			i, _ = SkipInterval(tokens, i, token.LeftBracket, token.RightBracket)
		}
		if i < len(tokens) && tokens[i].Kind == token.RightBracket &&
			i+1 < len(tokens) && tokens[i+1].Kind == token.LeftParen {
			// indexing followed by a call
			return 0
		}
	}
	return amount
}
