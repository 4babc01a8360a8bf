// Package testutil runs golden comparisons over the project trees in
// testdata/fixtures. Each tree keeps its expected outputs under expected/.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FixtureContext is one project tree under testdata/fixtures.
type FixtureContext struct {
	Name string

	// Root is the absolute path of the tree, the lint root of the test
	Root string

	// ExpectedDir holds the golden files, discovery sees no C file there
	ExpectedDir string
}

// LoadFixture resolves a fixture tree by name. A missing tree fails the
// test.
func LoadFixture(t *testing.T, name string) *FixtureContext {
	t.Helper()

	root := filepath.Join(fixturesDir(t), name)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		t.Fatalf("fixture %q not found in %s", name, filepath.Dir(root))
	}
	return &FixtureContext{
		Name:        name,
		Root:        root,
		ExpectedDir: filepath.Join(root, "expected"),
	}
}

// ExpectedPath is expected/<name>.txt inside the fixture.
func (f *FixtureContext) ExpectedPath(name string) string {
	return filepath.Join(f.ExpectedDir, name+".txt")
}

// fixturesDir locates testdata/fixtures from this source file so tests
// work from any package directory.
func fixturesDir(t *testing.T) string {
	t.Helper()

	_, self, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate testutil sources")
	}
	dir := filepath.Join(filepath.Dir(self), "..", "..", "testdata", "fixtures")
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("fixtures directory: %v", err)
	}
	return filepath.Clean(dir)
}
