package rules

import (
	"regexp"
	"strings"

	"plum/internal/lint"
)

var (
	cHeaderRegex = regexp.MustCompile(`^/\*\n` +
		`\*\* EPITECH PROJECT, [1-9][0-9]{3}\n` +
		`\*\* \S.+\n` +
		`\*\* File description:\n` +
		`(\*\* .*\n)+` +
		`\*/(\n|$)`)

	makefileHeaderRegex = regexp.MustCompile(`^##\n` +
		`## EPITECH PROJECT, [1-9][0-9]{3}\n` +
		`## \S.+\n` +
		`## File description:\n` +
		`(## .*\n)+` +
		`##(\n|$)`)
)

// fileHeader checks the Epitech banner at the top of sources, headers and
// Makefiles.
type fileHeader struct{}

func (fileHeader) ID() string { return "C-G1" }

func (fileHeader) Check(f *lint.File) []lint.Finding {
	raw := strings.Join(f.Lines(), "\n")
	re := cHeaderRegex
	if f.Kind == lint.Makefile {
		re = makefileHeaderRegex
	}
	if re.MatchString(raw) {
		return nil
	}
	return []lint.Finding{{Line: 1}}
}
