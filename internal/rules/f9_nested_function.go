package rules

import (
	"plum/internal/functions"
	"plum/internal/lint"
)

// nestedFunction reads the unmerged textual function list, the only one
// that keeps definitions found inside other bodies.
type nestedFunction struct{}

func (nestedFunction) ID() string { return "C-F9" }

func (nestedFunction) Check(f *lint.File) []lint.Finding {
	fns := f.LooseFunctions()
	var out []lint.Finding
	for i := range fns {
		for j := i + 1; j < len(fns); j++ {
			switch {
			case nests(fns[i], fns[j]):
				out = append(out, lint.Finding{Line: fns[j].Prototype.LineStart})
			case nests(fns[j], fns[i]):
				out = append(out, lint.Finding{Line: fns[i].Prototype.LineStart})
			}
		}
	}
	return out
}

func nests(parent, child functions.Function) bool {
	return parent.Body != nil &&
		parent.Body.LineStart <= child.Prototype.LineStart &&
		parent.Body.LineEnd >= child.Prototype.LineEnd
}
