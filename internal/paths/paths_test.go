package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLayout(t *testing.T) {
	root := filepath.Join("work", "project")
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"dir", Dir(root), filepath.Join(root, ".plum")},
		{"config", ConfigPath(root), filepath.Join(root, ".plum", "config.json")},
		{"profile", ProfilePath(root), filepath.Join(root, ".plum", "profile.toml")},
		{"cache", CachePath(root), filepath.Join(root, ".plum", "cache.db")},
		{"log", LogPath(root), filepath.Join(root, ".plum", "plum.log")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()
	dir, err := EnsureDir(root)
	if err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("%s is not a directory: %v", dir, err)
	}
	// second call is a no-op
	if _, err := EnsureDir(root); err != nil {
		t.Errorf("EnsureDir() again error = %v", err)
	}
}

func TestResolve(t *testing.T) {
	abs := filepath.Join(string(filepath.Separator), "etc", "profile.toml")
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{abs, abs},
		{"rules.toml", filepath.Join("root", "rules.toml")},
	}
	for _, tt := range tests {
		if got := Resolve("root", tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func writeTestFile(t *testing.T) (root, file string) {
	t.Helper()
	root = t.TempDir()
	file = filepath.Join(root, "src", "main.c")
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte("int main(void);\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return root, file
}

func TestCanonicalizePath(t *testing.T) {
	root, file := writeTestFile(t)
	canonical, err := CanonicalizePath(file, root)
	if err != nil {
		t.Fatalf("CanonicalizePath failed: %v", err)
	}
	if canonical != "src/main.c" {
		t.Errorf("got %s, want src/main.c", canonical)
	}
}

func TestIsWithinRoot(t *testing.T) {
	root, file := writeTestFile(t)
	if !IsWithinRoot(file, root) {
		t.Error("file should be within root")
	}
	if IsWithinRoot(filepath.Dir(root), root) {
		t.Error("parent should be outside root")
	}
}

func TestDisplay(t *testing.T) {
	root, file := writeTestFile(t)
	if got := Display(file, root); got != "src/main.c" {
		t.Errorf("Display() = %s", got)
	}
	outside := filepath.Join(filepath.Dir(root), "other.c")
	if got := Display(outside, root); got != filepath.ToSlash(outside) {
		t.Errorf("Display(outside) = %s", got)
	}
}
