package lint

import (
	"fmt"
	"sort"
)

// Diagnostic is one style violation.
type Diagnostic struct {
	File     string   `json:"file" yaml:"file"`
	Line     int      `json:"line" yaml:"line"`
	Severity Severity `json:"severity" yaml:"severity"`
	RuleID   string   `json:"rule" yaml:"rule"`
	Message  string   `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s:%s", d.File, d.Line, d.Severity, d.RuleID)
}

// Finding is what a rule reports, before the runner attaches the file,
// rule id and severity.
type Finding struct {
	Line int
	// Message defaults to the rule description when empty.
	Message string
}

// SortDiagnostics orders by file, line, then rule id.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.RuleID < b.RuleID
	})
}
