package rules

import (
	"regexp"
	"strings"

	"plum/internal/lint"
	"plum/internal/token"
)

var includeRegex = regexp.MustCompile(`^\s*#include\s*(?:<|")(.*)(?:>|")`)

// includeTarget only lets quoted includes name header files.
type includeTarget struct{}

func (includeTarget) ID() string { return "C-G5" }

func (includeTarget) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, t := range f.Tokens(token.All, token.PPQHeader) {
		m := includeRegex.FindStringSubmatch(t.Value)
		if m != nil && !strings.HasSuffix(m[1], ".h") {
			out = append(out, lint.Finding{Line: t.Line, Message: "included file " + m[1] + " is not a header"})
		}
	}
	return out
}
