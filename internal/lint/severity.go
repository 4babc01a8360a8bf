package lint

import (
	"strings"
)

// Level is the rank of a severity. Higher levels weigh more.
type Level int

const (
	// LevelSpecial carries free text instead of a rank and is never counted.
	LevelSpecial Level = iota
	LevelInfo
	LevelMinor
	LevelMajor
	LevelFatal
)

// CountedLevels lists the levels reported in a tally, most severe first.
var CountedLevels = []Level{LevelFatal, LevelMajor, LevelMinor, LevelInfo}

func (l Level) String() string {
	switch l {
	case LevelFatal:
		return "FATAL"
	case LevelMajor:
		return "MAJOR"
	case LevelMinor:
		return "MINOR"
	case LevelInfo:
		return "INFO"
	}
	return "SPECIAL"
}

// Severity is one of FATAL, MAJOR, MINOR, INFO or a special free form
// message.
type Severity struct {
	Level Level
	// Text is only set for special severities.
	Text string
}

var (
	Fatal = Severity{Level: LevelFatal}
	Major = Severity{Level: LevelMajor}
	Minor = Severity{Level: LevelMinor}
	Info  = Severity{Level: LevelInfo}
)

// Special creates a special severity with the given text.
func Special(text string) Severity {
	return Severity{Level: LevelSpecial, Text: text}
}

// ParseSeverity reads a severity name case-insensitively. Any other text
// becomes a special severity holding it.
func ParseSeverity(s string) Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FATAL":
		return Fatal
	case "MAJOR":
		return Major
	case "MINOR":
		return Minor
	case "INFO":
		return Info
	}
	return Special(s)
}

// ParseLevel reads a counted level name for thresholds.
func ParseLevel(s string) (Level, bool) {
	sev := ParseSeverity(s)
	return sev.Level, sev.Level != LevelSpecial
}

// IsSpecial reports whether the severity carries free text.
func (s Severity) IsSpecial() bool {
	return s.Level == LevelSpecial
}

func (s Severity) String() string {
	if s.IsSpecial() && s.Text != "" {
		return s.Text
	}
	return s.Level.String()
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	*s = ParseSeverity(string(b))
	return nil
}
