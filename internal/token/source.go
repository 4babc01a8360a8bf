package token

// Query selects tokens by position. The start position is included, the end
// position is not. LineEnd -1 extends to the end of the file and ColEnd -1
// to the end of LineEnd.
type Query struct {
	LineStart int
	ColStart  int
	LineEnd   int
	ColEnd    int
}

// All selects every token of a file.
var All = Query{LineStart: 1, ColStart: 0, LineEnd: -1, ColEnd: -1}

// Lines selects whole lines from start to end inclusive.
func Lines(start, end int) Query {
	return Query{LineStart: start, ColStart: 0, LineEnd: end, ColEnd: -1}
}

// From selects everything from a position to the end of the file.
func From(line, column int) Query {
	return Query{LineStart: line, ColStart: column, LineEnd: -1, ColEnd: -1}
}

// Contains reports whether the token start falls in the range.
func (q Query) Contains(t Token) bool {
	if t.Line < q.LineStart || (t.Line == q.LineStart && t.Column < q.ColStart) {
		return false
	}
	if q.LineEnd < 0 {
		return true
	}
	if t.Line > q.LineEnd {
		return false
	}
	if t.Line == q.LineEnd && q.ColEnd >= 0 && t.Column >= q.ColEnd {
		return false
	}
	return true
}

// Source is the read-only view of one file.
type Source interface {
	// Path of the file as given to the engine
	Path() string

	// Lines returns the content split on "\n". A trailing newline yields a
	// final empty line.
	Lines() []string

	// Tokens returns the tokens of q in order. With no kinds every token is
	// returned, otherwise only the given kinds.
	Tokens(q Query, kinds ...Kind) []Token

	// IsBinary reports content that is not text.
	IsBinary() bool
}

// Select applies a query and a kind filter to an ordered token list.
func Select(tokens []Token, q Query, kinds ...Kind) []Token {
	filter := NewSet(kinds...)
	var out []Token
	for _, t := range tokens {
		if q.LineEnd >= 0 && t.Line > q.LineEnd {
			break
		}
		if !q.Contains(t) {
			continue
		}
		if len(kinds) > 0 && !filter.Has(t.Kind) {
			continue
		}
		out = append(out, t)
	}
	return out
}
