package rules

import (
	"path/filepath"
	"regexp"
	"strings"

	"plum/internal/lint"
)

var fileNameRegex = regexp.MustCompile(`^[a-z]([a-z0-9_]*[a-z0-9])?$`)

type fileName struct{}

func (fileName) ID() string { return "C-O4" }

func (fileName) Check(f *lint.File) []lint.Finding {
	base := filepath.Base(f.Path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if fileNameRegex.MatchString(name) && !strings.Contains(name, "__") {
		return nil
	}
	return []lint.Finding{{Line: 1, Message: "file name " + base + " is not in snake_case"}}
}
