package testutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"plum/internal/lint"
)

// FormatDiagnostics renders diagnostics one per line with paths relative
// to root, in the order given:
//
//	src/main.c:3: MAJOR C-C3 Use of goto is forbidden
func FormatDiagnostics(root string, diags []lint.Diagnostic) []byte {
	var b strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&b, "%s:%d: %s %s %s\n", relative(root, d.File), d.Line, d.Severity, d.RuleID, d.Message)
	}
	return []byte(b.String())
}

func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
