// Package functions locates function declarations and definitions in a
// C file.
package functions

import (
	"context"
	"fmt"

	"plum/internal/segment"
	"plum/internal/token"
)

// Section is a textual extent. Lines are 1-based and inclusive, columns
// 0-based. For a body, ColumnEnd is the column of the closing brace.
type Section struct {
	LineStart   int    `json:"lineStart"`
	LineEnd     int    `json:"lineEnd"`
	ColumnStart int    `json:"columnStart"`
	ColumnEnd   int    `json:"columnEnd"`
	Raw         string `json:"raw"`
}

func (s Section) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.LineStart, s.ColumnStart, s.LineEnd, s.ColumnEnd)
}

// Function is one declaration or definition.
type Function struct {
	Name       string  `json:"name"`
	ReturnType string  `json:"returnType"`
	Prototype  Section `json:"prototype"`

	// Body is nil for a declaration ending in `;`
	Body *Section `json:"body,omitempty"`

	// Arguments holds the raw text of each parameter. It is nil when no
	// parameter list could be determined, as for `f()`, and empty for an
	// explicit `(void)`.
	Arguments []string `json:"arguments"`

	Static   bool `json:"static"`
	Inline   bool `json:"inline"`
	Variadic bool `json:"variadic"`
}

// HasArgumentList reports whether the parameter list was specified.
func (f Function) HasArgumentList() bool {
	return f.Arguments != nil
}

// ArgumentCount counts the parameters, a trailing `...` included.
func (f Function) ArgumentCount() int {
	if f.Arguments == nil {
		return 0
	}
	n := len(f.Arguments)
	if f.Variadic {
		n++
	}
	return n
}

// End returns the last position of the function: the closing brace of the
// body, or the end of the prototype.
func (f Function) End() (line, column int) {
	if f.Body != nil {
		return f.Body.LineEnd, f.Body.ColumnEnd
	}
	return f.Prototype.LineEnd, f.Prototype.ColumnEnd
}

// Resolver finds the functions of a file.
type Resolver interface {
	Resolve(ctx context.Context, src token.Source) ([]Function, error)
}

// BodyTokens returns the tokens strictly between the braces of the body.
func BodyTokens(src token.Source, f Function) []token.Token {
	if f.Body == nil {
		return nil
	}
	tokens := src.Tokens(token.Query{
		LineStart: f.Body.LineStart,
		ColStart:  f.Body.ColumnStart,
		LineEnd:   f.Body.LineEnd,
		ColEnd:    f.Body.ColumnEnd,
	})
	if len(tokens) == 0 {
		return nil
	}
	return tokens[1:]
}

// Statements splits the body of f.
func Statements(src token.Source, f Function) []segment.Statement {
	return segment.Split(BodyTokens(src, f))
}

// InBody reports whether a position lies strictly inside a function body,
// braces excluded.
func InBody(functions []Function, line, column int) bool {
	for _, f := range functions {
		b := f.Body
		if b == nil {
			continue
		}
		switch {
		case b.LineStart < line && line < b.LineEnd:
			return true
		case b.LineStart == line && b.LineEnd == line:
			if b.ColumnStart < column && column < b.ColumnEnd {
				return true
			}
		case b.LineStart == line && b.ColumnStart < column:
			return true
		case b.LineEnd == line && column < b.ColumnEnd:
			return true
		}
	}
	return false
}

// BodyStartingAt returns the function whose body opens at the position.
func BodyStartingAt(functions []Function, line, column int) (Function, bool) {
	for _, f := range functions {
		if f.Body != nil && f.Body.LineStart == line && f.Body.ColumnStart == column {
			return f, true
		}
	}
	return Function{}, false
}
