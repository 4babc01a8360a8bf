// Package lexer turns C source text into tokens.
package lexer

import (
	"fmt"
	"strings"

	"plum/internal/token"
)

var directives = map[string]token.Kind{
	"define":  token.PPDefine,
	"elif":    token.PPElif,
	"else":    token.PPElse,
	"endif":   token.PPEndif,
	"error":   token.PPError,
	"if":      token.PPIf,
	"ifdef":   token.PPIfdef,
	"ifndef":  token.PPIfndef,
	"include": token.PPInclude,
	"line":    token.PPLine,
	"pragma":  token.PPPragma,
	"undef":   token.PPUndef,
	"warning": token.PPWarning,
}

// Longest operators first.
var punctuators = []struct {
	text string
	kind token.Kind
}{
	{"...", token.Ellipsis},
	{"<<=", token.ShiftLeftAssign},
	{">>=", token.ShiftRightAssign},
	{"->", token.Arrow},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"<<", token.ShiftLeft},
	{">>", token.ShiftRight},
	{"<=", token.LessEqual},
	{">=", token.GreaterEqual},
	{"==", token.Equal},
	{"!=", token.NotEqual},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.DivideAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AndAssign},
	{"|=", token.OrAssign},
	{"^=", token.XorAssign},
	{"##", token.PoundPound},
	{"(", token.LeftParen},
	{")", token.RightParen},
	{"{", token.LeftBrace},
	{"}", token.RightBrace},
	{"[", token.LeftBracket},
	{"]", token.RightBracket},
	{";", token.Semicolon},
	{",", token.Comma},
	{":", token.Colon},
	{"?", token.QuestionMark},
	{".", token.Dot},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Divide},
	{"%", token.Percent},
	{"&", token.And},
	{"|", token.Or},
	{"^", token.Xor},
	{"!", token.Not},
	{"~", token.Compl},
	{"<", token.Less},
	{">", token.Greater},
	{"=", token.Assign},
	{"#", token.Pound},
}

// SyntaxError reports input the lexer cannot split into tokens.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Lexer tokenizes one C file.
type Lexer struct {
	file   string
	input  string
	pos    int
	line   int
	column int
	tokens []token.Token

	// only blanks seen since the start of the line
	lineStart bool
}

// New creates a lexer over input. file is recorded in every token.
func New(file, input string) *Lexer {
	return &Lexer{
		file:      file,
		input:     input,
		line:      1,
		lineStart: true,
	}
}

// Tokenize lexes a whole file.
func Tokenize(file, input string) ([]token.Token, error) {
	return New(file, input).Tokenize()
}

// Tokenize processes the entire input and returns all tokens.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	for l.pos < len(l.input) {
		if err := l.next(); err != nil {
			return nil, err
		}
	}
	return l.tokens, nil
}

func (l *Lexer) next() error {
	ch := l.input[l.pos]

	switch {
	case ch == ' ' || ch == '\t':
		l.emitWhile(token.Space, func(c byte) bool { return c == ' ' || c == '\t' })
	case ch == '\n':
		l.emit(token.Newline, 1)
	case ch == '\r' && l.peek(1) == '\n':
		l.emit(token.Newline, 2)
	case ch == '\r' || ch == '\v' || ch == '\f':
		l.emit(token.Space2, 1)
	case ch == '\\' && l.spliceLen() > 0:
		l.emit(token.Space2, l.spliceLen())
	case ch == '/' && l.peek(1) == '*':
		return l.readBlockComment()
	case ch == '/' && l.peek(1) == '/':
		l.readLineComment()
	case ch == '"':
		l.readQuoted(token.StringLit, '"', 0)
	case ch == '\'':
		l.readQuoted(token.CharLit, '\'', 0)
	case isDigit(ch) || (ch == '.' && isDigit(l.peek(1))):
		l.readNumber()
	case isIdentStart(ch):
		l.readIdentifier()
	case ch == '#' && l.lineStart:
		l.readDirective()
	default:
		l.readPunctuator()
	}
	return nil
}

func (l *Lexer) peek(offset int) byte {
	if l.pos+offset < len(l.input) {
		return l.input[l.pos+offset]
	}
	return 0
}

// spliceLen returns the length of a backslash line splice at pos, or 0.
func (l *Lexer) spliceLen() int {
	if l.peek(0) != '\\' {
		return 0
	}
	switch {
	case l.peek(1) == '\n':
		return 2
	case l.peek(1) == '\r' && l.peek(2) == '\n':
		return 3
	}
	return 0
}

// emit records the next n bytes as a token of kind k.
func (l *Lexer) emit(k token.Kind, n int) {
	value := l.input[l.pos : l.pos+n]
	l.tokens = append(l.tokens, token.Token{
		File:   l.file,
		Value:  value,
		Line:   l.line,
		Column: l.column,
		Kind:   k,
	})
	l.advance(n)
	switch k {
	case token.Newline:
		l.lineStart = true
	case token.Space, token.Space2, token.CComment:
	default:
		l.lineStart = false
	}
}

func (l *Lexer) emitWhile(k token.Kind, accept func(byte) bool) {
	n := 0
	for l.pos+n < len(l.input) && accept(l.input[l.pos+n]) {
		n++
	}
	l.emit(k, n)
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 0
		} else {
			l.column++
		}
		l.pos++
	}
}

func (l *Lexer) readBlockComment() error {
	end := strings.Index(l.input[l.pos+2:], "*/")
	if end < 0 {
		return &SyntaxError{Line: l.line, Column: l.column, Message: "unterminated comment"}
	}
	start := l.lineStart
	l.emit(token.CComment, end+4)
	// a comment spanning lines does not start a directive line
	if strings.Contains(l.tokens[len(l.tokens)-1].Value, "\n") {
		l.lineStart = false
	} else {
		l.lineStart = start
	}
	return nil
}

func (l *Lexer) readLineComment() {
	n := 2
	for l.pos+n < len(l.input) {
		c := l.input[l.pos+n]
		if c == '\\' {
			if m := spliceAt(l.input, l.pos+n); m > 0 {
				n += m
				continue
			}
		}
		if c == '\n' || (c == '\r' && l.pos+n+1 < len(l.input) && l.input[l.pos+n+1] == '\n') {
			break
		}
		n++
	}
	l.emit(token.CppComment, n)
}

// readQuoted reads a string or character literal whose opening quote is
// prefix bytes after pos. An unterminated literal stops at the end of the
// line.
func (l *Lexer) readQuoted(k token.Kind, quote byte, prefix int) {
	n := prefix + 1
	for l.pos+n < len(l.input) {
		c := l.input[l.pos+n]
		if c == '\\' {
			if m := spliceAt(l.input, l.pos+n); m > 0 {
				n += m
				continue
			}
			n += 2
			continue
		}
		if c == '\n' {
			break
		}
		n++
		if c == quote {
			break
		}
	}
	if l.pos+n > len(l.input) {
		n = len(l.input) - l.pos
	}
	l.emit(k, n)
}

func (l *Lexer) readNumber() {
	n := 0
	for l.pos+n < len(l.input) {
		c := l.input[l.pos+n]
		if (c == '+' || c == '-') && n > 0 && isExponent(l.input[l.pos+n-1], l.input[l.pos:l.pos+n]) {
			n++
			continue
		}
		if !isIdentChar(c) && c != '.' {
			break
		}
		n++
	}
	l.emit(numberKind(l.input[l.pos:l.pos+n]), n)
}

func isExponent(prev byte, before string) bool {
	hex := len(before) > 1 && before[0] == '0' && (before[1] == 'x' || before[1] == 'X')
	if hex {
		return prev == 'p' || prev == 'P'
	}
	return prev == 'e' || prev == 'E'
}

func numberKind(text string) token.Kind {
	lower := strings.ToLower(text)
	hex := strings.HasPrefix(lower, "0x")
	switch {
	case strings.Contains(lower, "."):
		return token.FloatLit
	case hex && strings.Contains(lower, "p"):
		return token.FloatLit
	case !hex && (strings.Contains(lower, "e") || strings.HasSuffix(lower, "f")):
		return token.FloatLit
	}
	suffix := lower[len(strings.TrimRight(lower, "ul")):]
	if strings.Contains(suffix, "l") {
		return token.LongIntLit
	}
	return token.IntLit
}

func (l *Lexer) readIdentifier() {
	n := 0
	for l.pos+n < len(l.input) && isIdentChar(l.input[l.pos+n]) {
		n++
	}
	word := l.input[l.pos : l.pos+n]

	// encoding prefixes: L"..", u8"..", U'..'
	if next := l.peek(n); next == '"' || next == '\'' {
		switch word {
		case "L", "u", "U", "u8":
			if next == '"' {
				l.readQuoted(token.StringLit, '"', n)
			} else {
				l.readQuoted(token.CharLit, '\'', n)
			}
			return
		}
	}

	if k, ok := token.Keyword(word); ok {
		l.emit(k, n)
		return
	}
	l.emit(token.Identifier, n)
}

// readDirective handles a '#' opening a preprocessor line.
func (l *Lexer) readDirective() {
	n := 1
	for l.pos+n < len(l.input) && (l.input[l.pos+n] == ' ' || l.input[l.pos+n] == '\t') {
		n++
	}
	w := n
	for l.pos+w < len(l.input) && isIdentChar(l.input[l.pos+w]) {
		w++
	}
	kind, ok := directives[l.input[l.pos+n:l.pos+w]]
	if !ok {
		l.emit(token.Pound, 1)
		return
	}
	if kind == token.PPInclude {
		if m, k := l.headerLen(w); m > 0 {
			l.emit(k, m)
			return
		}
	}
	l.emit(kind, w)
}

// headerLen measures `#include "x"` or `#include <x>` where the directive
// word ends at offset w.
func (l *Lexer) headerLen(w int) (int, token.Kind) {
	n := w
	for l.pos+n < len(l.input) && (l.input[l.pos+n] == ' ' || l.input[l.pos+n] == '\t') {
		n++
	}
	var closing byte
	var kind token.Kind
	switch l.peek(n) {
	case '"':
		closing, kind = '"', token.PPQHeader
	case '<':
		closing, kind = '>', token.PPHHeader
	default:
		return 0, token.Unknown
	}
	for i := n + 1; l.pos+i < len(l.input); i++ {
		c := l.input[l.pos+i]
		if c == '\n' {
			return 0, token.Unknown
		}
		if c == closing {
			return i + 1, kind
		}
	}
	return 0, token.Unknown
}

func (l *Lexer) readPunctuator() {
	rest := l.input[l.pos:]
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p.text) {
			l.emit(p.kind, len(p.text))
			return
		}
	}
	// one whole UTF-8 sequence
	n := 1
	for l.pos+n < len(l.input) && l.input[l.pos+n]&0xC0 == 0x80 {
		n++
	}
	l.emit(token.Unknown, n)
}

func spliceAt(s string, i int) int {
	if i+1 < len(s) && s[i+1] == '\n' {
		return 2
	}
	if i+2 < len(s) && s[i+1] == '\r' && s[i+2] == '\n' {
		return 3
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
