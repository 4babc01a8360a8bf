// Package paths owns the .plum directory layout and path normalisation.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DirName is the per-project directory holding configuration and cache
	DirName = ".plum"

	ConfigFile  = "config.json"
	ProfileFile = "profile.toml"
	CacheFile   = "cache.db"
	LogFile     = "plum.log"

	// IgnoreFile lists extra ignore patterns at the project root
	IgnoreFile = ".plumignore"
)

// Dir returns the .plum directory of a project root.
func Dir(root string) string {
	return filepath.Join(root, DirName)
}

// ConfigPath returns the run configuration path.
func ConfigPath(root string) string {
	return filepath.Join(Dir(root), ConfigFile)
}

// ProfilePath returns the default rule profile path.
func ProfilePath(root string) string {
	return filepath.Join(Dir(root), ProfileFile)
}

// CachePath returns the default result cache path.
func CachePath(root string) string {
	return filepath.Join(Dir(root), CacheFile)
}

// LogPath returns the default log file path.
func LogPath(root string) string {
	return filepath.Join(Dir(root), LogFile)
}

// EnsureDir creates the .plum directory if needed and returns it.
func EnsureDir(root string) (string, error) {
	dir := Dir(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// Resolve makes p absolute relative to root unless it already is.
func Resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// CanonicalizePath converts an absolute path to a root-relative path with
// forward slashes. Symlinks are resolved when the path exists.
func CanonicalizePath(absolutePath string, root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = root
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(relativePath), nil
}

// IsWithinRoot checks if a path is inside root
func IsWithinRoot(path string, root string) bool {
	canonical, err := CanonicalizePath(path, root)
	if err != nil {
		return false
	}
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// NormalizePath converts backslashes to forward slashes
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// Display returns path relative to root for reports, or path unchanged when
// it lies outside root.
func Display(path, root string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return NormalizePath(path)
	}
	if !IsWithinRoot(abs, root) {
		return NormalizePath(path)
	}
	rel, err := CanonicalizePath(abs, root)
	if err != nil {
		return NormalizePath(path)
	}
	return rel
}
