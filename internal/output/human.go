package output

import (
	"fmt"
	"io"

	"plum/internal/lint"
)

const (
	colorFatal   = "\033[91;1;4m"
	colorMajor   = "\033[91;1m"
	colorMinor   = "\033[93;1m"
	colorInfo    = "\033[96;1m"
	colorTitle   = "\033[1m"
	colorSpecial = "\033[94;1m"
	colorFile    = "\033[90m"
	colorOK      = "\033[92m"
	colorReset   = "\033[0m"
)

var levelColors = map[lint.Level]string{
	lint.LevelFatal: colorFatal,
	lint.LevelMajor: colorMajor,
	lint.LevelMinor: colorMinor,
	lint.LevelInfo:  colorInfo,
}

type palette struct{ enabled bool }

func (p palette) wrap(color, s string) string {
	if !p.enabled {
		return s
	}
	return color + s + colorReset
}

// WriteHuman renders the terminal listing: one block per file, then the
// severity report. A run without any diagnostic prints "No errors found".
func WriteHuman(w io.Writer, r *Report, color bool) error {
	p := palette{enabled: color}
	ew := &errWriter{w: w}

	if len(r.Files) == 0 {
		ew.printf("%s\n", p.wrap(colorOK, "No errors found"))
		return ew.err
	}

	for _, f := range r.Files {
		ew.printf("\n%s\n", p.wrap(colorTitle, "‣ In File "+f.File))
		for _, e := range f.Diagnostics {
			ew.printf("    %s\n", humanLine(p, f.File, e))
		}
	}
	ew.printf("\n%s\n", SeverityReport(r.Summary, color))
	return ew.err
}

func humanLine(p palette, file string, e Entry) string {
	where := p.wrap(colorFile, fmt.Sprintf("(%s:%d)", file, e.Line))
	if e.Severity.IsSpecial() {
		text := e.Severity.Text
		if text == "" {
			text = e.Message
		}
		return fmt.Sprintf("%s - %s %s", p.wrap(colorSpecial, "[SPECIAL]"), text, where)
	}
	tag := fmt.Sprintf("[%s] (%s)", e.Severity.Level, e.Rule)
	return fmt.Sprintf("%s - %s %s", p.wrap(levelColors[e.Severity.Level], tag), e.Message, where)
}

// SeverityReport formats the counted levels, most severe first.
func SeverityReport(s Summary, color bool) string {
	p := palette{enabled: color}
	var out string
	for i, level := range lint.CountedLevels {
		if i > 0 {
			out += " | "
		}
		out += fmt.Sprintf("%s : %d", p.wrap(levelColors[level], "["+level.String()+"]"), s.BySeverity[level.String()])
	}
	return out
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
