package rules

import (
	"strings"

	"plum/internal/lint"
)

// bodyLength limits the lines between the braces of a function. One
// finding is produced per extra line, counted up from the closing brace.
type bodyLength struct {
	maxLines int
}

func (*bodyLength) ID() string { return "C-F4" }

func (r *bodyLength) DefaultSettings() map[string]any {
	return map[string]any{"max_lines": r.maxLines}
}

func (r *bodyLength) ApplySettings(settings map[string]any) error {
	return intSettings(settings, map[string]*int{"max_lines": &r.maxLines})
}

func (r *bodyLength) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, fn := range f.Functions() {
		if fn.Body == nil || len(fn.Body.Raw) < 2 {
			continue
		}
		lines := strings.Split(fn.Body.Raw[1:len(fn.Body.Raw)-1], "\n")
		if len(lines) > 0 && lines[0] == "" {
			lines = lines[1:]
		}
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		for i := 0; i < len(lines)-r.maxLines; i++ {
			out = append(out, lint.Finding{Line: fn.Body.LineEnd - i - 1})
		}
	}
	return out
}
