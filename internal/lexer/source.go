package lexer

import (
	"bytes"
	"strings"
	"unicode/utf8"

	perrors "plum/internal/errors"
	"plum/internal/token"
)

// sniffLen is how much of a file is inspected for NUL bytes.
const sniffLen = 8000

// Source is an in-memory token.Source.
type Source struct {
	path   string
	lines  []string
	tokens []token.Token
	binary bool
}

var _ token.Source = (*Source)(nil)

// NewSource lexes content. Binary content is accepted without tokens so
// that callers can still ask IsBinary.
func NewSource(path string, content []byte) (*Source, error) {
	s := &Source{
		path:   path,
		binary: IsBinary(content),
	}
	if s.binary {
		return s, nil
	}

	text := string(content)
	s.lines = strings.Split(text, "\n")

	tokens, err := Tokenize(path, text)
	if err != nil {
		return nil, perrors.New(perrors.TokenizeFailed, "cannot tokenize "+path, err)
	}
	s.tokens = tokens
	return s, nil
}

// IsBinary reports content with a NUL byte near the start or that is not
// valid UTF-8.
func IsBinary(content []byte) bool {
	head := content
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return true
	}
	return !utf8.Valid(content)
}

func (s *Source) Path() string { return s.path }

func (s *Source) Lines() []string { return s.lines }

func (s *Source) IsBinary() bool { return s.binary }

func (s *Source) Tokens(q token.Query, kinds ...token.Kind) []token.Token {
	return token.Select(s.tokens, q, kinds...)
}
