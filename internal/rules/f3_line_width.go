package rules

import (
	"fmt"
	"strings"

	"plum/internal/lint"
)

const tabWidth = 4

// lineWidth limits the display width of a line, its line break included.
type lineWidth struct {
	maxColumns int
}

func (*lineWidth) ID() string { return "C-F3" }

func (r *lineWidth) DefaultSettings() map[string]any {
	return map[string]any{"max_columns": r.maxColumns}
}

func (r *lineWidth) ApplySettings(settings map[string]any) error {
	return intSettings(settings, map[string]*int{"max_columns": &r.maxColumns})
}

func (r *lineWidth) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for i, line := range f.Lines() {
		width := displayWidth(strings.Trim(line, "\n")) + 1
		if width > r.maxColumns {
			out = append(out, lint.Finding{
				Line:    i + 1,
				Message: fmt.Sprintf("line is %d columns long (max %d)", width, r.maxColumns),
			})
		}
	}
	return out
}

// displayWidth counts characters with tab stops every tabWidth columns.
func displayWidth(line string) int {
	count := 0
	for _, c := range line {
		if c == '\t' {
			count = count + tabWidth - count%tabWidth
		} else {
			count++
		}
	}
	return count
}
