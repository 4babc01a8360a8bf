package discovery

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides whether a path is ignored by gitignore-style rules
// collected from .gitignore files and .plumignore.
type Matcher struct {
	// rules ordered from root to leaf; later rules override earlier ones
	rules []ignoreRule
}

type ignoreRule struct {
	// base is the absolute directory the pattern is relative to
	base    string
	pattern string
	negate  bool
	dirOnly bool

	// anchored patterns match the whole relative path, others any basename
	anchored bool
}

// parseIgnoreFile reads gitignore syntax from path. Patterns are relative
// to base.
func parseIgnoreFile(path, base string) ([]ignoreRule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var rules []ignoreRule
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if r, ok := parseIgnoreLine(scanner.Text(), base); ok {
			rules = append(rules, r)
		}
	}
	return rules, scanner.Err()
}

func parseIgnoreLine(line, base string) (ignoreRule, bool) {
	line = trimTrailingBlanks(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ignoreRule{}, false
	}
	r := ignoreRule{base: base}
	if strings.HasPrefix(line, "!") {
		r.negate = true
		line = line[1:]
	}
	// .plumignore entries are often written as ./path
	line = strings.TrimPrefix(line, "./")
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		line = line[1:]
		r.anchored = true
	} else {
		r.anchored = strings.Contains(line, "/")
	}
	if line == "" || !doublestar.ValidatePattern(line) {
		return ignoreRule{}, false
	}
	r.pattern = line
	return r, true
}

// trimTrailingBlanks drops trailing spaces and tabs, keeping one escaped
// space.
func trimTrailingBlanks(s string) string {
	i := len(s)
	for i > 0 && (s[i-1] == ' ' || s[i-1] == '\t') {
		i--
	}
	if i < len(s) && i > 0 && s[i-1] == '\\' {
		return s[:i-1] + " "
	}
	return s[:i]
}

// NewMatcher collects the ignore rules of root: .gitignore files of its
// ancestors and of its tree when gitignore is set, then root/.plumignore
// when plumignore is set.
func NewMatcher(root string, gitignore, plumignore bool) *Matcher {
	m := &Matcher{}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return m
	}

	if gitignore {
		for _, gi := range ancestorGitignores(absRoot) {
			m.add(gi, filepath.Dir(gi))
		}
		_ = filepath.WalkDir(absRoot, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() && d.Name() == ".git" {
				return filepath.SkipDir
			}
			if !d.IsDir() && d.Name() == ".gitignore" {
				m.add(p, filepath.Dir(p))
			}
			return nil
		})
	}
	if plumignore {
		m.add(filepath.Join(absRoot, ".plumignore"), absRoot)
	}
	return m
}

func (m *Matcher) add(file, base string) {
	rules, err := parseIgnoreFile(file, base)
	if err != nil {
		return
	}
	m.rules = append(m.rules, rules...)
}

// ancestorGitignores lists the .gitignore files above root, outermost
// first.
func ancestorGitignores(root string) []string {
	var found []string
	for dir := filepath.Dir(root); ; {
		gi := filepath.Join(dir, ".gitignore")
		if _, err := os.Stat(gi); err == nil {
			found = append([]string{gi}, found...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return found
		}
		dir = parent
	}
}

// Len returns the number of collected rules.
func (m *Matcher) Len() int { return len(m.rules) }

// IsIgnored reports whether the absolute path is ignored.
func (m *Matcher) IsIgnored(absPath string, isDir bool) bool {
	ignored := false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if r.matches(absPath) {
			ignored = !r.negate
		}
	}
	return ignored
}

func (r ignoreRule) matches(absPath string) bool {
	rel, err := filepath.Rel(r.base, absPath)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	if r.anchored {
		return match(r.pattern, rel)
	}
	return match(r.pattern, path.Base(rel)) || match("**/"+r.pattern, rel)
}

func match(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
