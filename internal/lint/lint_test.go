package lint

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	perrors "plum/internal/errors"
	"plum/internal/lexer"
	"plum/internal/slogutil"
	"plum/internal/token"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		special bool
	}{
		{"FATAL", Fatal, false},
		{"major", Major, false},
		{" Minor ", Minor, false},
		{"INFO", Info, false},
		{"please check the header", Special("please check the header"), true},
		{"", Special(""), true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseSeverity(tt.in)
			if got != tt.want {
				t.Errorf("ParseSeverity(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
			if got.IsSpecial() != tt.special {
				t.Errorf("IsSpecial() = %v", got.IsSpecial())
			}
		})
	}
}

func TestSeverityLevelAndText(t *testing.T) {
	if !(Fatal.Level > Major.Level && Major.Level > Minor.Level &&
		Minor.Level > Info.Level && Info.Level > Special("x").Level) {
		t.Error("levels are not ordered")
	}
	if Special("").String() != "SPECIAL" || Special("odd").String() != "odd" {
		t.Error("special String()")
	}

	b, err := json.Marshal(Diagnostic{File: "a.c", Line: 2, Severity: Major, RuleID: "C-F3"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"severity":"MAJOR"`) {
		t.Errorf("json = %s", b)
	}
	var d Diagnostic
	if err := json.Unmarshal(b, &d); err != nil || d.Severity != Major {
		t.Errorf("round trip = %+v, %v", d, err)
	}
}

func TestTally(t *testing.T) {
	diags := []Diagnostic{
		{Severity: Major}, {Severity: Major}, {Severity: Info},
		{Severity: Fatal}, {Severity: Special("x")},
	}
	tally := Count(diags)
	if tally.Total() != 4 || tally.Special != 1 {
		t.Errorf("Total = %d, Special = %d", tally.Total(), tally.Special)
	}
	if tally.AtLeast(LevelMajor) != 3 || tally.AtLeast(LevelMinor) != 3 || tally.AtLeast(LevelInfo) != 4 {
		t.Errorf("AtLeast() = %v", tally.ByLevel)
	}
	names := tally.ByName()
	if names["MINOR"] != 0 || names["MAJOR"] != 2 {
		t.Errorf("ByName() = %v", names)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		want FileKind
	}{
		{"src/main.c", CSource},
		{"include/my.h", CHeader},
		{"Makefile", Makefile},
		{"lib/Makefile.am", Makefile},
		{"GNUmakefile", Makefile},
		{"rules.mk", Makefile},
		{"README.md", 0},
		{"main.cpp", 0},
	}
	for _, tt := range tests {
		if got := KindOf(tt.path); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	k, err := ParseKinds([]string{"c", "H"})
	if err != nil || k != C {
		t.Errorf("ParseKinds() = %v, %v", k, err)
	}
	if _, err := ParseKinds([]string{"py"}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if AnyKind.String() != "c,h,mk" {
		t.Errorf("String() = %q", AnyKind.String())
	}
}

func TestMemoizeOnce(t *testing.T) {
	var m memo
	var calls atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := memoize(&m, memoKey{"view", 1}, func() int {
				calls.Add(1)
				return 42
			})
			if v != 42 {
				t.Errorf("memoize() = %d", v)
			}
		}()
	}
	wg.Wait()
	if calls.Load() != 1 {
		t.Errorf("computed %d times, want 1", calls.Load())
	}
	if v := memoize(&m, memoKey{"view", 2}, func() int { return 7 }); v != 7 {
		t.Errorf("distinct flags share an entry: %d", v)
	}
}

func TestFileViews(t *testing.T) {
	src, err := lexer.NewSource("f.c", []byte("int f(void)\n{\n    return 0; /* x */\n}\n"))
	if err != nil {
		t.Fatal(err)
	}
	f := NewFile(src, nil, slogutil.NewDiscardLogger())
	if f.Kind != CSource {
		t.Errorf("Kind = %v", f.Kind)
	}
	if got := f.Blanked(token.BlankComments)[2]; got != "    return 0; /*   */" {
		t.Errorf("Blanked() = %q", got)
	}
	fns := f.Functions()
	if len(fns) != 1 || fns[0].Name != "f" {
		t.Fatalf("Functions() = %+v", fns)
	}
	if !f.InFunction(3, 4) || f.InFunction(1, 0) {
		t.Error("InFunction()")
	}
	if n := len(f.Statements(fns[0])); n != 1 {
		t.Errorf("Statements() = %d", n)
	}
	for _, tok := range f.SemanticTokens() {
		if tok.In(token.NonSemantic) {
			t.Errorf("semantic view has %v", tok)
		}
	}
}

type lineRule struct{ id string }

func (r lineRule) ID() string { return r.id }
func (r lineRule) Check(f *File) []Finding {
	return []Finding{{Line: len(f.Lines())}}
}

type panicRule struct{}

func (panicRule) ID() string            { return "C-XX" }
func (panicRule) Check(*File) []Finding { panic("boom") }

func writeFiles(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return dir, paths
}

func TestRunnerIsolation(t *testing.T) {
	dir, paths := writeFiles(t, map[string]string{
		"a.c":      "int a;\n",
		"b.h":      "int b;\n\n",
		"bad.c":    "/* never closed\n",
		"notes":    "text\n",
		"Makefile": "all:\n",
	})
	paths = append(paths, filepath.Join(dir, "missing.c"))

	r := &Runner{
		Checks: []Check{
			{Rule: lineRule{"C-A1"}, Severity: Minor, Kinds: C, Description: "line rule"},
			{Rule: panicRule{}, Severity: Major, Kinds: CSource},
		},
		Host:    lexer.NewHost(slogutil.NewDiscardLogger()),
		Logger:  slogutil.NewDiscardLogger(),
		Workers: 2,
	}
	res, err := r.Run(context.Background(), paths)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(res.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(res.Diagnostics), res.Diagnostics)
	}
	first, second := res.Diagnostics[0], res.Diagnostics[1]
	if filepath.Base(first.File) != "a.c" || first.Line != 2 || first.Message != "line rule" {
		t.Errorf("first = %+v", first)
	}
	if filepath.Base(second.File) != "b.h" || second.Line != 3 || second.Severity != Minor {
		t.Errorf("second = %+v", second)
	}

	var codes []perrors.ErrorCode
	for _, e := range res.Errors {
		codes = append(codes, perrors.CodeOf(e))
	}
	// a.c panics once, bad.c cannot be tokenized, missing.c cannot be read
	want := map[perrors.ErrorCode]int{perrors.RuleFailed: 1, perrors.TokenizeFailed: 1, perrors.FileUnreadable: 1}
	got := map[perrors.ErrorCode]int{}
	for _, c := range codes {
		got[c]++
	}
	for code, n := range want {
		if got[code] != n {
			t.Errorf("errors with %s = %d, want %d (all: %v)", code, got[code], n, res.Errors)
		}
	}
	if res.Files != len(paths) {
		t.Errorf("Files = %d", res.Files)
	}
}

func TestRunnerSkip(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.c": "int a;\n"})
	r := &Runner{
		Checks: []Check{{Rule: lineRule{"C-A1"}, Severity: Minor, Kinds: C}},
		Host:   lexer.NewHost(slogutil.NewDiscardLogger()),
		Skip:   func(path, id string) bool { return id == "C-A1" },
	}
	res, err := r.Run(context.Background(), paths)
	if err != nil || len(res.Diagnostics) != 0 {
		t.Errorf("Run() = %+v, %v", res, err)
	}
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string][]Diagnostic
}

func (c *mapCache) Lookup(path string, content []byte) ([]Diagnostic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[path+"\x00"+string(content)]
	return d, ok
}

func (c *mapCache) Store(path string, content []byte, diags []Diagnostic) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path+"\x00"+string(content)] = diags
	return nil
}

func TestRunnerCacheAndIdempotence(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.c": "int a;\n", "b.c": "int b;\n\n"})
	cache := &mapCache{entries: map[string][]Diagnostic{}}
	r := &Runner{
		Checks: []Check{{Rule: lineRule{"C-A1"}, Severity: Minor, Kinds: C}},
		Host:   lexer.NewHost(slogutil.NewDiscardLogger()),
		Cache:  cache,
	}
	first, err := r.Run(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Run(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHits != 0 || second.CacheHits != 2 {
		t.Errorf("cache hits = %d, %d", first.CacheHits, second.CacheHits)
	}
	if len(first.Diagnostics) != len(second.Diagnostics) {
		t.Fatal("runs differ")
	}
	for i := range first.Diagnostics {
		if first.Diagnostics[i] != second.Diagnostics[i] {
			t.Errorf("diagnostic %d differs: %v vs %v", i, first.Diagnostics[i], second.Diagnostics[i])
		}
	}
}

func TestRunnerCancelled(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.c": "int a;\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Host: lexer.NewHost(slogutil.NewDiscardLogger())}
	if _, err := r.Run(ctx, paths); !errors.Is(err, context.Canceled) && err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
