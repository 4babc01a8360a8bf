package rules

import (
	"fmt"

	"plum/internal/lint"
)

// argumentCount limits function parameters. Each parameter over the limit
// is its own finding.
type argumentCount struct {
	maxArguments int
}

func (*argumentCount) ID() string { return "C-F5" }

func (r *argumentCount) DefaultSettings() map[string]any {
	return map[string]any{"max_arguments": r.maxArguments}
}

func (r *argumentCount) ApplySettings(settings map[string]any) error {
	return intSettings(settings, map[string]*int{"max_arguments": &r.maxArguments})
}

func (r *argumentCount) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, fn := range f.Functions() {
		n := fn.ArgumentCount()
		for i := r.maxArguments; i < n; i++ {
			out = append(out, lint.Finding{
				Line:    fn.Prototype.LineStart,
				Message: fmt.Sprintf("%s takes %d parameters (max %d)", fn.Name, n, r.maxArguments),
			})
		}
	}
	return out
}
