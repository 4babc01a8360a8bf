package braces

import (
	"regexp"
	"strings"

	"plum/internal/token"
)

var (
	globalIndentRegex   = regexp.MustCompile(`^( *|( {4})*\S+.*)$`)
	functionIndentRegex = regexp.MustCompile(`^( *|( {4})+\S+.*)$`)
)

// IsIndented checks the leading white space of a line. Inside a function
// a line needs a positive multiple of 4 spaces, at global scope zero is
// also accepted. Blank lines and lines closing a comment always pass.
func IsIndented(line string, inFunction bool) bool {
	if token.IsBlankLine(line) || strings.HasSuffix(line, "*/") {
		return true
	}
	if inFunction {
		return functionIndentRegex.MatchString(line)
	}
	return globalIndentRegex.MatchString(line)
}

// IndentLevel converts leading white space to levels of 4 columns,
// counting a tab as 4 and rounding up.
func IndentLevel(line string) int {
	width := 0
	for _, c := range line {
		if c == ' ' {
			width++
		} else if c == '\t' {
			width += 4
		} else {
			break
		}
	}
	return (width + 3) / 4
}

var closers = map[rune]rune{'[': ']', '(': ')', '{': '}'}

// Scope follows bracket depth across global scope lines and checks that
// each line is indented to the depth it starts at.
type Scope struct {
	depth int
	stack []rune

	// comment and string state carried between lines
	inComment bool
	inString  bool
}

// Check consumes the next global scope line and reports whether its
// indentation is consistent. Preprocessor lines and blank lines are
// skipped and always pass. A line opening exactly one level is exempt, and
// a line that only closes what earlier lines opened takes effect on the
// following line.
func (s *Scope) Check(line string) bool {
	line = s.stripComments(line)
	if token.IsBlankLine(line) {
		return true
	}
	body := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(body, "#") {
		return true
	}

	change := 0
	postponed := false
	for i, c := range []rune(body) {
		if closer, ok := closers[c]; ok {
			s.stack = append(s.stack, closer)
			change++
			s.depth++
		}
		if n := len(s.stack); n > 0 && c == s.stack[n-1] {
			s.stack = s.stack[:n-1]
			if i != 0 && change == 0 {
				postponed = true
			} else {
				s.depth--
				change--
			}
		}
	}

	ok := IndentLevel(line) == s.depth || change == 1
	if postponed {
		s.depth--
	}
	return ok
}

// stripComments removes the comment parts that survive blanking so that
// delimiters do not count as brackets.
func (s *Scope) stripComments(line string) string {
	var b strings.Builder
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		var next rune = ' '
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		if c == '"' {
			s.inString = !s.inString
		}
		if s.inString {
			b.WriteRune(c)
			continue
		}
		if s.inComment {
			if c == '*' && next == '/' {
				s.inComment = false
				i++
			}
			continue
		}
		if c == '/' && next == '/' {
			break
		}
		if c == '/' && next == '*' {
			s.inComment = true
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
