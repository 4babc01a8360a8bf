package output

import (
	"sort"

	"github.com/google/uuid"

	"plum/internal/lint"
	"plum/internal/paths"
)

// Report is the document rendered by every format.
type Report struct {
	RunID   string       `json:"runId" yaml:"runId"`
	Version string       `json:"version" yaml:"version"`
	Files   []FileReport `json:"files" yaml:"files"`
	Summary Summary      `json:"summary" yaml:"summary"`
	Errors  []string     `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// FileReport holds the diagnostics of one file in line order.
type FileReport struct {
	File        string  `json:"file" yaml:"file"`
	Diagnostics []Entry `json:"diagnostics" yaml:"diagnostics"`
}

// Entry is a diagnostic without its file.
type Entry struct {
	Line     int           `json:"line" yaml:"line"`
	Severity lint.Severity `json:"severity" yaml:"severity"`
	Rule     string        `json:"rule" yaml:"rule"`
	Message  string        `json:"message" yaml:"message"`
}

// Summary counts the diagnostics of a run. Special diagnostics are listed
// but not part of Total.
type Summary struct {
	FilesChecked int            `json:"filesChecked" yaml:"filesChecked"`
	BySeverity   map[string]int `json:"bySeverity" yaml:"bySeverity"`
	Special      int            `json:"special" yaml:"special"`
	Total        int            `json:"total" yaml:"total"`
}

// ReportOptions describes the run a report is built for.
type ReportOptions struct {
	// Root makes file names relative when they lie inside it
	Root string

	Version      string
	FilesChecked int
	Errors       []error
}

// NewReport builds the report of a run with a fresh run id.
func NewReport(diags []lint.Diagnostic, opts ReportOptions) *Report {
	tally := lint.Count(diags)
	r := &Report{
		RunID:   uuid.New().String(),
		Version: opts.Version,
		Files:   Group(diags, opts.Root),
		Summary: Summary{
			FilesChecked: opts.FilesChecked,
			BySeverity:   tally.ByName(),
			Special:      tally.Special,
			Total:        tally.Total(),
		},
	}
	for _, err := range opts.Errors {
		r.Errors = append(r.Errors, err.Error())
	}
	return r
}

// Group splits diagnostics per file. Files are sorted by display name and
// diagnostics by line, ties kept in rule id order.
func Group(diags []lint.Diagnostic, root string) []FileReport {
	byFile := make(map[string][]Entry)
	for _, d := range diags {
		name := d.File
		if root != "" {
			name = paths.Display(d.File, root)
		}
		byFile[name] = append(byFile[name], Entry{
			Line:     d.Line,
			Severity: d.Severity,
			Rule:     d.RuleID,
			Message:  d.Message,
		})
	}

	names := make([]string, 0, len(byFile))
	for name := range byFile {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]FileReport, 0, len(names))
	for _, name := range names {
		entries := byFile[name]
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Line != entries[j].Line {
				return entries[i].Line < entries[j].Line
			}
			return entries[i].Rule < entries[j].Rule
		})
		out = append(out, FileReport{File: name, Diagnostics: entries})
	}
	return out
}

// Diagnostics flattens the report back into diagnostics.
func (r *Report) Diagnostics() []lint.Diagnostic {
	var out []lint.Diagnostic
	for _, f := range r.Files {
		for _, e := range f.Diagnostics {
			out = append(out, lint.Diagnostic{
				File:     f.File,
				Line:     e.Line,
				Severity: e.Severity,
				RuleID:   e.Rule,
				Message:  e.Message,
			})
		}
	}
	return out
}
