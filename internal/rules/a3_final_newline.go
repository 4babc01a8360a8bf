package rules

import "plum/internal/lint"

// finalNewline requires the file to end with a line break.
type finalNewline struct{}

func (finalNewline) ID() string { return "C-A3" }

func (finalNewline) Check(f *lint.File) []lint.Finding {
	lines := f.Lines()
	if len(lines) == 0 || lines[len(lines)-1] == "" {
		return nil
	}
	return []lint.Finding{{Line: len(lines)}}
}
