package output

import (
	"fmt"
	"io"
	"strings"
)

// Format is a report format name.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatSARIF Format = "sarif"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatHuman, FormatJSON, FormatYAML, FormatSARIF}
}

// ParseFormat reads a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (valid: human, json, yaml, sarif)", s)
}

// WriteOptions tunes rendering.
type WriteOptions struct {
	// Color enables ANSI colors in the human format
	Color bool

	// Rules describes the checks of the run for SARIF
	Rules []RuleInfo
}

// Write renders r in format f.
func Write(w io.Writer, f Format, r *Report, opts WriteOptions) error {
	switch f {
	case FormatHuman:
		return WriteHuman(w, r, opts.Color)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatSARIF:
		return WriteSARIF(w, r, opts.Rules)
	}
	return fmt.Errorf("unknown format %q", f)
}
