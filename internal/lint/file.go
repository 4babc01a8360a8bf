// Package lint evaluates style rules against C files and collects their
// diagnostics.
package lint

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"plum/internal/functions"
	"plum/internal/segment"
	"plum/internal/token"
)

// FileKind is a set of file categories a rule applies to.
type FileKind uint8

const (
	CSource FileKind = 1 << iota
	CHeader
	Makefile

	C       = CSource | CHeader
	AnyKind = C | Makefile
)

var kindNames = map[string]FileKind{
	"c":  CSource,
	"h":  CHeader,
	"mk": Makefile,
}

// ParseKinds reads the short names used in the rule catalog: c, h and mk.
func ParseKinds(names []string) (FileKind, error) {
	var k FileKind
	for _, n := range names {
		v, ok := kindNames[strings.ToLower(n)]
		if !ok {
			return 0, fmt.Errorf("unknown file kind %q", n)
		}
		k |= v
	}
	return k, nil
}

// Has reports whether any kind of o is in k.
func (k FileKind) Has(o FileKind) bool {
	return k&o != 0
}

func (k FileKind) String() string {
	var parts []string
	for _, n := range []string{"c", "h", "mk"} {
		if k.Has(kindNames[n]) {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, ",")
}

// KindOf classifies a path by name. It returns 0 for files no rule checks.
func KindOf(path string) FileKind {
	base := filepath.Base(path)
	switch ext := filepath.Ext(base); ext {
	case ".c":
		return CSource
	case ".h":
		return CHeader
	case ".mk", ".mak", ".make":
		return Makefile
	}
	for _, prefix := range []string{"Makefile", "makefile", "GNUmakefile"} {
		if strings.HasPrefix(base, prefix) {
			return Makefile
		}
	}
	return 0
}

// File bundles the views rules read. Derived views are computed at most
// once and are safe for concurrent use.
type File struct {
	Path string
	Kind FileKind

	src     token.Source
	precise functions.Resolver
	logger  *slog.Logger
	memo    memo
}

// NewFile wraps src. precise may be nil, in which case functions come from
// the textual resolver alone.
func NewFile(src token.Source, precise functions.Resolver, logger *slog.Logger) *File {
	kind := KindOf(src.Path())
	if src.IsBinary() {
		kind = 0
	}
	return &File{
		Path:    src.Path(),
		Kind:    kind,
		src:     src,
		precise: precise,
		logger:  logger,
	}
}

// Source returns the underlying token view.
func (f *File) Source() token.Source { return f.src }

// Lines returns the raw lines.
func (f *File) Lines() []string { return f.src.Lines() }

// Tokens queries the token view.
func (f *File) Tokens(q token.Query, kinds ...token.Kind) []token.Token {
	return f.src.Tokens(q, kinds...)
}

// Blanked returns the lines with comments and/or strings blanked.
func (f *File) Blanked(mode token.BlankMode) []string {
	if mode == 0 {
		return f.src.Lines()
	}
	return memoize(&f.memo, memoKey{"lines", int(mode)}, func() []string {
		return token.Blank(f.src.Lines(), f.src.Tokens(token.All), mode)
	})
}

// SemanticTokens returns every token except blanks and comments.
func (f *File) SemanticTokens() []token.Token {
	return memoize(&f.memo, memoKey{"semantic", 0}, func() []token.Token {
		return token.Semantic(f.src.Tokens(token.All))
	})
}

// LooseFunctions returns what the textual resolver finds, including
// definitions nested in other bodies.
func (f *File) LooseFunctions() []functions.Function {
	return memoize(&f.memo, memoKey{"functions", 0}, func() []functions.Function {
		fns, _ := functions.Fallback{}.Resolve(context.Background(), f.src)
		return fns
	})
}

// Functions returns the merged, non-overlapping function list.
func (f *File) Functions() []functions.Function {
	return memoize(&f.memo, memoKey{"functions", 1}, func() []functions.Function {
		chain := &functions.Chain{
			Precise:  f.precise,
			Fallback: looseResolver{f},
			Logger:   f.logger,
		}
		fns, _ := chain.Resolve(context.Background(), f.src)
		return fns
	})
}

// Statements returns the statements of a function body.
func (f *File) Statements(fn functions.Function) []segment.Statement {
	return memoize(&f.memo, memoKey{"statements:" + fn.Prototype.String(), 0}, func() []segment.Statement {
		return functions.Statements(f.src, fn)
	})
}

// InFunction reports whether a position is inside a function body.
func (f *File) InFunction(line, column int) bool {
	return functions.InBody(f.Functions(), line, column)
}

type looseResolver struct{ f *File }

func (r looseResolver) Resolve(context.Context, token.Source) ([]functions.Function, error) {
	return r.f.LooseFunctions(), nil
}

// memoKey names a derived view and the transform flags it was built with.
// Keys are per file since every File owns its memo.
type memoKey struct {
	view  string
	flags int
}

type memoEntry struct {
	once  sync.Once
	value any
}

type memo struct {
	mu      sync.Mutex
	entries map[memoKey]*memoEntry
}

// memoize returns the cached value for key, computing it once. Concurrent
// callers of the same key wait for the first computation.
func memoize[T any](m *memo, key memoKey, compute func() T) T {
	m.mu.Lock()
	if m.entries == nil {
		m.entries = make(map[memoKey]*memoEntry)
	}
	e, ok := m.entries[key]
	if !ok {
		e = &memoEntry{}
		m.entries[key] = e
	}
	m.mu.Unlock()

	e.once.Do(func() { e.value = compute() })
	v, _ := e.value.(T)
	return v
}
