package token

import "strings"

// Token is one lexical unit of a file.
type Token struct {
	// File is the path the token was read from
	File string `json:"file"`

	// Value is the raw text of the token
	Value string `json:"value"`

	// Line is 1-based
	Line int `json:"line"`

	// Column is the 0-based byte offset in the line
	Column int `json:"column"`

	Kind Kind `json:"kind"`
}

// Name returns the token kind name.
func (t Token) Name() string {
	return t.Kind.String()
}

// Is reports whether the token has one of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// In reports whether the token kind belongs to s.
func (t Token) In(s Set) bool {
	return s.Has(t.Kind)
}

// End returns the position just past the last byte of the token.
func (t Token) End() (line, column int) {
	n := strings.Count(t.Value, "\n")
	if n == 0 {
		return t.Line, t.Column + len(t.Value)
	}
	return t.Line + n, len(t.Value) - strings.LastIndexByte(t.Value, '\n') - 1
}

// Before reports whether t starts before o.
func (t Token) Before(o Token) bool {
	if t.Line != o.Line {
		return t.Line < o.Line
	}
	return t.Column < o.Column
}

// Filter returns the tokens whose kind is not in drop.
func Filter(tokens []Token, drop Set) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if !drop.Has(t.Kind) {
			out = append(out, t)
		}
	}
	return out
}

// Only returns the tokens whose kind is in keep.
func Only(tokens []Token, keep Set) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if keep.Has(t.Kind) {
			out = append(out, t)
		}
	}
	return out
}

// Semantic drops blanks and comments.
func Semantic(tokens []Token) []Token {
	return Filter(tokens, NonSemantic)
}

// IndexOf finds the token starting at the same position as target, or -1.
func IndexOf(tokens []Token, target Token) int {
	for i, t := range tokens {
		if t.Line == target.Line && t.Column == target.Column {
			return i
		}
	}
	return -1
}

// PrevIndex returns the index of the closest token before i whose kind is
// in kinds, or -1.
func PrevIndex(tokens []Token, i int, kinds Set) int {
	for j := i - 1; j >= 0; j-- {
		if kinds.Has(tokens[j].Kind) {
			return j
		}
	}
	return -1
}

// NextIndex returns the index of the closest token after i whose kind is
// in kinds, or -1.
func NextIndex(tokens []Token, i int, kinds Set) int {
	for j := i + 1; j < len(tokens); j++ {
		if kinds.Has(tokens[j].Kind) {
			return j
		}
	}
	return -1
}
