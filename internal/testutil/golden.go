package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"
	"testing"
)

// go test ./internal/rules -run TestGolden -update
var update = flag.Bool("update", false, "rewrite golden files with the current output")

// ShouldUpdate reports whether -update was given.
func ShouldUpdate() bool {
	return *update
}

// CompareGolden fails the test when got differs from expected/<name>.txt,
// printing the differing lines. With -update the file is rewritten.
func CompareGolden(t *testing.T, fixture *FixtureContext, name string, got []byte) {
	t.Helper()

	path := fixture.ExpectedPath(name)
	if ShouldUpdate() {
		UpdateGolden(t, fixture, name, got)
		t.Logf("rewrote %s", path)
		return
	}

	want, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		t.Fatalf("no golden file %s, output was:\n%s\nrerun with -update to record it", path, got)
	case err != nil:
		t.Fatalf("read golden file: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("%s differs from %s:\n%s\nrerun with -update if the change is expected",
			t.Name(), path, lineDiff(string(want), string(got)))
	}
}

// UpdateGolden writes data as expected/<name>.txt.
func UpdateGolden(t *testing.T, fixture *FixtureContext, name string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(fixture.ExpectedDir, 0o755); err != nil {
		t.Fatalf("create %s: %v", fixture.ExpectedDir, err)
	}
	if err := os.WriteFile(fixture.ExpectedPath(name), data, 0o644); err != nil {
		t.Fatalf("write golden file: %v", err)
	}
}

// lineDiff lists the lines that differ by position, prefixed with - for
// the golden text and + for the output.
func lineDiff(want, got string) string {
	wantLines := strings.Split(want, "\n")
	gotLines := strings.Split(got, "\n")

	var b strings.Builder
	for i := range max(len(wantLines), len(gotLines)) {
		w, wok := at(wantLines, i)
		g, gok := at(gotLines, i)
		if wok == gok && w == g {
			continue
		}
		fmt.Fprintf(&b, "line %d:\n", i+1)
		if wok {
			fmt.Fprintf(&b, "-%s\n", w)
		}
		if gok {
			fmt.Fprintf(&b, "+%s\n", g)
		}
	}
	return b.String()
}

func at(lines []string, i int) (string, bool) {
	if i < len(lines) {
		return lines[i], true
	}
	return "", false
}
