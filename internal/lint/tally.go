package lint

// Tally counts diagnostics per level. Special diagnostics are kept apart
// and never add to the total.
type Tally struct {
	ByLevel map[Level]int
	Special int
}

// Count tallies diagnostics.
func Count(diags []Diagnostic) Tally {
	t := Tally{ByLevel: make(map[Level]int, len(CountedLevels))}
	for _, l := range CountedLevels {
		t.ByLevel[l] = 0
	}
	for _, d := range diags {
		if d.Severity.IsSpecial() {
			t.Special++
			continue
		}
		t.ByLevel[d.Severity.Level]++
	}
	return t
}

// Total is the number of counted diagnostics.
func (t Tally) Total() int {
	n := 0
	for _, c := range t.ByLevel {
		n += c
	}
	return n
}

// AtLeast counts the diagnostics at or above level.
func (t Tally) AtLeast(level Level) int {
	n := 0
	for l, c := range t.ByLevel {
		if l >= level {
			n += c
		}
	}
	return n
}

// ByName maps level names to counts, as shown in reports.
func (t Tally) ByName() map[string]int {
	out := make(map[string]int, len(t.ByLevel))
	for l, c := range t.ByLevel {
		out[l.String()] = c
	}
	return out
}
