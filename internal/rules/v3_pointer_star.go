package rules

import (
	"plum/internal/lint"
	"plum/internal/star"
	"plum/internal/token"
)

// pointerStar wants the star of a pointer declaration or dereference
// attached to the name, as in `char *s` and `*p = 0`.
type pointerStar struct{}

func (pointerStar) ID() string { return "C-V3" }

func (pointerStar) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, s := range f.Tokens(token.All, token.Star) {
		window, i := star.Window(f.Source(), s)
		typ := star.Classify(window, i)
		if typ != star.Pointer && typ != star.Dereference {
			continue
		}
		for range misplacedStar(window, i, typ) {
			out = append(out, lint.Finding{Line: s.Line})
		}
	}
	return out
}

// misplacedStar counts the faults of one star: a pointer star glued to
// its type or spaced inside a parenthesis, and a space after the star.
// `char* s` has both.
func misplacedStar(window []token.Token, i int, typ star.Type) int {
	prev, next := kindAt(window, i-1), kindAt(window, i+1)

	// inside a chain such as `char **`, only the last star is checked
	if prev == token.Star {
		if next == token.Space {
			return 1
		}
		return 0
	}

	faults := 0
	switch {
	case !detached.Has(prev) && typ == star.Pointer:
		faults++
	case kindAt(window, i-2) == token.LeftParen && prev == token.Space:
		// `( *name)`
		faults++
	}
	if next == token.Space {
		faults++
	}
	return faults
}

// tokens a pointer star may follow
var detached = token.NewSet(token.Space, token.Newline, token.LeftParen, token.LeftBracket)

func kindAt(tokens []token.Token, i int) token.Kind {
	if i < 0 || i >= len(tokens) {
		return token.Unknown
	}
	return tokens[i].Kind
}
