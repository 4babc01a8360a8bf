// Package discovery finds the C sources, headers and Makefiles of a
// project.
package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"plum/internal/lint"
	"plum/internal/paths"
)

// DefaultIgnoredDirs are skipped unless the configuration replaces them.
var DefaultIgnoredDirs = []string{"tests", "bonus", ".git"}

// Options controls how file discovery behaves.
type Options struct {
	// Root is the project directory; ignore files and patterns are relative
	// to it. Defaults to ".".
	Root string

	// IgnoredDirs are doublestar patterns of root-relative directories that
	// are never entered
	IgnoredDirs []string

	UseGitignore  bool
	UsePlumignore bool

	// Include keeps only files whose root-relative path matches one of these
	// patterns. Empty keeps all.
	Include []string

	Logger *slog.Logger
}

// Discover returns the files to check under the given arguments, sorted
// and deduplicated. Directories are walked; files named explicitly are
// kept even when ignored, as long as their kind is known. No argument
// walks Root.
func Discover(ctx context.Context, opts Options, args []string) ([]string, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := validatePatterns(opts.IgnoredDirs, opts.Include); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w := &walker{
		ctx:     ctx,
		absRoot: absRoot,
		opts:    opts,
		logger:  logger,
		seen:    make(map[string]bool),
	}
	if opts.UseGitignore || opts.UsePlumignore {
		w.ignore = NewMatcher(absRoot, opts.UseGitignore, opts.UsePlumignore)
		logger.Debug("ignore rules loaded", "count", w.ignore.Len())
	}

	if len(args) == 0 {
		args = []string{root}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %q: %w", arg, err)
		}
		if !info.IsDir() {
			if lint.KindOf(arg) != 0 {
				w.add(arg)
			}
			continue
		}
		if err := filepath.WalkDir(arg, w.visit); err != nil {
			return nil, fmt.Errorf("walking %q: %w", arg, err)
		}
	}

	slices.Sort(w.result)
	logger.Debug("discovered files", "count", len(w.result))
	return w.result, nil
}

// validatePatterns rejects malformed ignoredDirs and include patterns
// before the walk, so a typo does not silently match nothing.
func validatePatterns(lists ...[]string) error {
	for _, patterns := range lists {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("invalid pattern %q", p)
			}
		}
	}
	return nil
}

type walker struct {
	ctx     context.Context
	absRoot string
	opts    Options
	ignore  *Matcher
	logger  *slog.Logger
	seen    map[string]bool
	result  []string
}

func (w *walker) visit(p string, d fs.DirEntry, walkErr error) error {
	if walkErr != nil {
		// unreadable entries are left to the runner
		w.logger.Warn("cannot walk", "path", p, "error", walkErr)
		if d != nil && d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if err := w.ctx.Err(); err != nil {
		return err
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return nil
	}
	rel, err := paths.CanonicalizePath(abs, w.absRoot)
	if err != nil {
		rel = filepath.ToSlash(p)
	}

	if d.IsDir() {
		if rel != "." && (w.matchesAny(w.opts.IgnoredDirs, rel) || w.ignored(abs, true)) {
			return filepath.SkipDir
		}
		return nil
	}

	if lint.KindOf(p) == 0 || w.ignored(abs, false) {
		return nil
	}
	if len(w.opts.Include) > 0 && !w.matchesAny(w.opts.Include, rel) {
		return nil
	}
	w.add(p)
	return nil
}

func (w *walker) ignored(abs string, isDir bool) bool {
	return w.ignore != nil && w.ignore.IsIgnored(abs, isDir)
}

func (w *walker) matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if match(p, rel) {
			return true
		}
	}
	return false
}

func (w *walker) add(p string) {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = p
	}
	if !w.seen[abs] {
		w.seen[abs] = true
		w.result = append(w.result, p)
	}
}
