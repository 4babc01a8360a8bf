package rules

import (
	"strings"

	"plum/internal/lint"
)

type carriageReturn struct{}

func (carriageReturn) ID() string { return "C-G6" }

func (carriageReturn) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for i, line := range f.Lines() {
		if strings.Contains(line, "\r") {
			out = append(out, lint.Finding{Line: i + 1})
		}
	}
	return out
}
