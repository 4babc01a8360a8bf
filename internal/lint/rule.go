package lint

// Rule is a single style check. Check must only read f.
type Rule interface {
	ID() string
	Check(f *File) []Finding
}

// Configurable is implemented by rules that have user-tunable settings.
type Configurable interface {
	ApplySettings(settings map[string]any) error
	DefaultSettings() map[string]any
}

// Check is a rule enabled for a run, with its effective severity.
type Check struct {
	Rule        Rule
	Severity    Severity
	Kinds       FileKind
	Description string
}

// Applies reports whether the check runs on files of kind k.
func (c Check) Applies(k FileKind) bool {
	return c.Kinds.Has(k)
}

// Diagnostics stamps findings for f.
func (c Check) Diagnostics(f *File, findings []Finding) []Diagnostic {
	if len(findings) == 0 {
		return nil
	}
	out := make([]Diagnostic, 0, len(findings))
	for _, fd := range findings {
		msg := fd.Message
		if msg == "" {
			msg = c.Description
		}
		out = append(out, Diagnostic{
			File:     f.Path,
			Line:     fd.Line,
			Severity: c.Severity,
			RuleID:   c.Rule.ID(),
			Message:  msg,
		})
	}
	return out
}
