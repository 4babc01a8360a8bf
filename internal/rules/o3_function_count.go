package rules

import (
	"fmt"

	"plum/internal/lint"
)

// functionCount limits definitions per file, with a lower limit for the
// non-static ones.
type functionCount struct {
	maxFunctions int
	maxNonStatic int
}

func (*functionCount) ID() string { return "C-O3" }

func (r *functionCount) DefaultSettings() map[string]any {
	return map[string]any{
		"max_functions":  r.maxFunctions,
		"max_non_static": r.maxNonStatic,
	}
}

func (r *functionCount) ApplySettings(settings map[string]any) error {
	return intSettings(settings, map[string]*int{
		"max_functions":  &r.maxFunctions,
		"max_non_static": &r.maxNonStatic,
	})
}

func (r *functionCount) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	total, nonStatic := 0, 0
	for _, fn := range f.Functions() {
		if fn.Body == nil {
			continue
		}
		total++
		if !fn.Static {
			nonStatic++
			if nonStatic > r.maxNonStatic {
				out = append(out, lint.Finding{
					Line:    fn.Prototype.LineStart,
					Message: fmt.Sprintf("more than %d non-static functions", r.maxNonStatic),
				})
				continue
			}
		}
		if total > r.maxFunctions {
			out = append(out, lint.Finding{
				Line:    fn.Prototype.LineStart,
				Message: fmt.Sprintf("more than %d functions", r.maxFunctions),
			})
		}
	}
	return out
}
