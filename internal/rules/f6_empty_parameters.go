package rules

import "plum/internal/lint"

// emptyParameters reports `f()`, which must be written `f(void)`.
type emptyParameters struct{}

func (emptyParameters) ID() string { return "C-F6" }

func (emptyParameters) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, fn := range f.Functions() {
		if !fn.HasArgumentList() {
			out = append(out, lint.Finding{Line: fn.Prototype.LineStart})
		}
	}
	return out
}
