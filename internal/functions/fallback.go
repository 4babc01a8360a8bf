package functions

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"plum/internal/token"
)

// First words that never start a return type.
var reservedWords = map[string]bool{
	"break":    true,
	"case":     true,
	"continue": true,
	"default":  true,
	"do":       true,
	"else":     true,
	"for":      true,
	"goto":     true,
	"if":       true,
	"return":   true,
	"sizeof":   true,
	"switch":   true,
	"typedef":  true,
	"while":    true,
}

// type words (modifiers may repeat and stars may stack), name, parameter
// list, then the `;` or `{` that decides declaration or definition
var functionRegex = regexp.MustCompile(
	`\A(\w+[\w\s*,]*[\s*]+)([\w$]+)\s*\(\s*([^;{]*)\s*\)\s*([;{])`,
)

var leadingWord = regexp.MustCompile(`\A\w+`)

// Fallback finds functions with a textual grammar over the file with
// comments and strings blanked. It also sees definitions nested in other
// bodies, which the precise resolver does not report.
type Fallback struct{}

var _ Resolver = Fallback{}

// Resolve implements Resolver.
func (Fallback) Resolve(ctx context.Context, src token.Source) ([]Function, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lines := src.Lines()
	all := src.Tokens(token.All)
	noComments := token.Blank(lines, all, token.BlankComments)
	blanked := token.Blank(lines, all, token.BlankComments|token.BlankStrings)

	text := blankAttributes(strings.Join(blanked, "\n"))
	index := newLineIndex(text)

	var out []Function
	last := 0
	for _, c := range candidates(text) {
		if c < last {
			continue
		}
		start, ok := typeStart(text, c)
		if !ok {
			continue
		}
		m := functionRegex.FindStringSubmatchIndex(text[start:])
		if m == nil {
			continue
		}
		for i := range m {
			if m[i] >= 0 {
				m[i] += start
			}
		}
		last = m[1]
		out = append(out, buildFunction(src, text, noComments, index, m))
	}
	return out, nil
}

// candidates lists the offsets where a function may begin: the start of
// the text, after `;`, `{` and `}`, and after a preprocessor line.
func candidates(text string) []int {
	set := map[int]bool{0: true}
	lineStart := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ';', '{', '}':
			set[i+1] = true
		case '\n':
			if strings.Contains(text[lineStart:i], "#") {
				set[i] = true
			}
			lineStart = i + 1
		}
	}
	if strings.Contains(text[lineStart:], "#") {
		set[len(text)] = true
	}
	out := make([]int, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// typeStart skips blanks, stars and slashes from c. The type must follow
// white space, a statement boundary or the start of the text, and must not
// begin with a reserved word.
func typeStart(text string, c int) (int, bool) {
	j := c
	for j < len(text) && strings.IndexByte(" \t\n\r\v\f*/", text[j]) >= 0 {
		j++
	}
	if j >= len(text) {
		return 0, false
	}
	if j > 0 && strings.IndexByte(" \t\n\r\v\f{};", text[j-1]) < 0 {
		return 0, false
	}
	word := leadingWord.FindString(text[j:])
	if word == "" || reservedWords[word] {
		return 0, false
	}
	return j, true
}

func buildFunction(src token.Source, text string, noComments []string, index lineIndex, m []int) Function {
	typeText := text[m[2]:m[3]]
	name := text[m[4]:m[5]]
	args := text[m[6]:m[7]]
	startChar := m[8]

	protoLine, protoCol := index.position(m[2])
	endLine, endCol := index.position(startChar)

	words := strings.Fields(strings.ReplaceAll(typeText, "*", " * "))
	f := Function{
		Name:       name,
		ReturnType: strings.Join(strings.Fields(typeText), " "),
		Prototype: Section{
			LineStart:   protoLine,
			LineEnd:     endLine,
			ColumnStart: protoCol,
			ColumnEnd:   endCol,
			Raw:         strings.TrimRight(text[m[2]:startChar], " \t\r\n"),
		},
	}
	for _, w := range words {
		switch w {
		case "static":
			f.Static = true
		case "inline", "__inline", "__inline__":
			f.Inline = true
		}
	}
	f.Arguments, f.Variadic = splitArguments(args)

	if text[startChar] == '{' {
		body := findBody(src, noComments, endLine, endCol)
		f.Body = &body
	}
	return f
}

// splitArguments cuts a parameter list on top-level commas.
func splitArguments(list string) ([]string, bool) {
	var args []string
	current := ""
	for _, part := range strings.Split(list, ",") {
		current += part
		if strings.TrimSpace(current) != "" && strings.Count(current, "(") == strings.Count(current, ")") {
			args = append(args, strings.TrimSpace(current))
			current = ""
		} else if strings.TrimSpace(current) != "" {
			current += ","
		}
	}

	if len(args) == 0 {
		return nil, false
	}
	variadic := false
	if args[len(args)-1] == "..." {
		variadic = true
		args = args[:len(args)-1]
	}
	if len(args) == 1 && args[0] == "void" {
		args = args[:0]
	}
	return args, variadic
}

// findBody matches braces from the opening brace of a body. An unclosed
// body extends to the end of the file.
func findBody(src token.Source, lines []string, line, col int) Section {
	depth := 0
	endLine, endCol := len(lines), 0
	if endLine > 0 {
		endCol = max(len(lines[endLine-1])-1, 0)
	}
	for _, t := range src.Tokens(token.From(line, col), token.LeftBrace, token.RightBrace) {
		if t.Kind == token.LeftBrace {
			depth++
		} else {
			depth--
		}
		if depth == 0 {
			endLine, endCol = t.Line, t.Column
			break
		}
	}
	return Section{
		LineStart:   line,
		LineEnd:     endLine,
		ColumnStart: col,
		ColumnEnd:   endCol,
		Raw:         extract(lines, line, col, endLine, endCol+1),
	}
}

// extract returns the text from (l1, c1) to (l2, c2) exclusive.
func extract(lines []string, l1, c1, l2, c2 int) string {
	if l1 < 1 || l2 > len(lines) || l1 > l2 {
		return ""
	}
	part := make([]string, 0, l2-l1+1)
	part = append(part, lines[l1-1:l2]...)
	last := len(part) - 1
	part[last] = part[last][:min(c2, len(part[last]))]
	part[0] = part[0][min(c1, len(part[0])):]
	return strings.Join(part, "\n")
}

// blankAttributes replaces `__attribute__((...))` with spaces.
func blankAttributes(text string) string {
	const keyword = "__attribute__"
	if !strings.Contains(text, keyword) {
		return text
	}
	b := []byte(text)
	for from := 0; ; {
		i := strings.Index(text[from:], keyword)
		if i < 0 {
			break
		}
		start := from + i
		j := start + len(keyword)
		for j < len(b) && (b[j] == ' ' || b[j] == '\t' || b[j] == '\n') {
			j++
		}
		if j >= len(b) || b[j] != '(' {
			from = start + len(keyword)
			continue
		}
		depth := 0
		for ; j < len(b); j++ {
			if b[j] == '(' {
				depth++
			} else if b[j] == ')' {
				depth--
				if depth == 0 {
					j++
					break
				}
			}
		}
		for k := start; k < j; k++ {
			if b[k] != '\n' {
				b[k] = ' '
			}
		}
		from = j
	}
	return string(b)
}

// lineIndex maps byte offsets to line and column.
type lineIndex []int

func newLineIndex(text string) lineIndex {
	idx := lineIndex{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (idx lineIndex) position(offset int) (line, column int) {
	i := sort.Search(len(idx), func(i int) bool { return idx[i] > offset }) - 1
	return i + 1, offset - idx[i]
}
