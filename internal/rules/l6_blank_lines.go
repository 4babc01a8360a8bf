package rules

import (
	"slices"

	"plum/internal/lint"
	"plum/internal/segment"
	"plum/internal/token"
)

// blankLines wants exactly one empty line after the declarations of a
// function and none elsewhere in its body.
type blankLines struct{}

func (blankLines) ID() string { return "C-L6" }

func (blankLines) Check(f *lint.File) []lint.Finding {
	lines := f.Lines()
	var out []lint.Finding
	for _, fn := range f.Functions() {
		if fn.Body == nil {
			continue
		}
		var empty []int
		for n := fn.Body.LineStart; n <= fn.Body.LineEnd && n <= len(lines); n++ {
			if token.IsBlankLine(lines[n-1]) {
				empty = append(empty, n)
			}
		}
		out = append(out, checkBlankLines(f.Statements(fn), empty)...)
	}
	return out
}

func checkBlankLines(statements []segment.Statement, empty []int) []lint.Finding {
	status := make([]segment.Certainty, len(statements))
	for i, st := range statements {
		status[i] = segment.IsVariableDeclaration(st)
	}

	var out []lint.Finding
	unneeded := slices.Clone(empty)
	switch zone := declarationZoneOf(status); zone {
	case segment.Yes:
		mandatory := lineAfterDeclarations(statements, status) - 1
		if mandatory <= 0 {
			break
		}
		if !slices.Contains(empty, mandatory) {
			out = append(out, lint.Finding{Line: mandatory + 1, Message: "missing empty line after declarations"})
			break
		}
		// with several empty lines in a row the first one is the expected one
		expected := mandatory
		for n := mandatory - 1; n > 0 && slices.Contains(empty, n); n-- {
			expected = n
		}
		if i := slices.Index(unneeded, expected); i >= 0 {
			unneeded = slices.Delete(unneeded, i, i+1)
		}
	case segment.Unsure:
		if len(unneeded) > 0 {
			unneeded = unneeded[1:]
		}
	}

	for _, n := range unneeded {
		out = append(out, lint.Finding{Line: n})
	}
	return out
}

// declarationZoneOf is Yes when sure declarations open the body, Unsure
// when an unsure statement comes before the first non-declaration.
func declarationZoneOf(status []segment.Certainty) segment.Certainty {
	sure := false
	for _, s := range status {
		switch s {
		case segment.Yes:
			sure = true
		case segment.No:
			if sure {
				return segment.Yes
			}
			return segment.No
		default:
			return segment.Unsure
		}
	}
	if sure {
		return segment.Yes
	}
	return segment.No
}

// lineAfterDeclarations returns the line of the first statement after the
// declarations, or 0.
func lineAfterDeclarations(statements []segment.Statement, status []segment.Certainty) int {
	present := false
	for i, st := range statements {
		if status[i] == segment.Yes {
			present = true
			continue
		}
		if present && len(st) > 0 {
			return st[0].Line
		}
		return 0
	}
	return 0
}
