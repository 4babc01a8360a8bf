package rules

import (
	"regexp"
	"strings"

	"plum/internal/lint"
)

var lowerSnakeCase = regexp.MustCompile(`^[a-z](?:_?[a-z0-9]+)*$`)

// functionName checks the names of defined functions. Declarations are
// left alone since they may name library functions.
type functionName struct{}

func (functionName) ID() string { return "C-F2" }

func (functionName) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, fn := range f.Functions() {
		if fn.Body == nil {
			continue
		}
		if !lowerSnakeCase.MatchString(fn.Name) || len(strings.ReplaceAll(fn.Name, "_", "")) <= 2 {
			out = append(out, lint.Finding{
				Line:    fn.Prototype.LineStart,
				Message: "function name " + fn.Name + " is not in snake_case or too short",
			})
		}
	}
	return out
}
