package functions

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"plum/internal/lexer"
	"plum/internal/token"
)

func source(t *testing.T, content string) *lexer.Source {
	t.Helper()
	src, err := lexer.NewSource("t.c", []byte(content))
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	return src
}

func resolve(t *testing.T, content string) []Function {
	t.Helper()
	fns, err := Fallback{}.Resolve(context.Background(), source(t, content))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return fns
}

func TestFallbackDefinition(t *testing.T) {
	fns := resolve(t, "int main(void)\n{\n    return 0;\n}\n")
	if len(fns) != 1 {
		t.Fatalf("got %d functions, want 1", len(fns))
	}
	f := fns[0]
	if f.Name != "main" || f.ReturnType != "int" {
		t.Errorf("name/type = %q/%q", f.Name, f.ReturnType)
	}
	if !f.HasArgumentList() || len(f.Arguments) != 0 {
		t.Errorf("Arguments = %#v, want empty list", f.Arguments)
	}
	wantProto := Section{LineStart: 1, LineEnd: 2, ColumnStart: 0, ColumnEnd: 0, Raw: "int main(void)"}
	if f.Prototype != wantProto {
		t.Errorf("Prototype = %+v, want %+v", f.Prototype, wantProto)
	}
	if f.Body == nil {
		t.Fatal("Body = nil")
	}
	wantBody := Section{LineStart: 2, LineEnd: 4, ColumnStart: 0, ColumnEnd: 0, Raw: "{\n    return 0;\n}"}
	if *f.Body != wantBody {
		t.Errorf("Body = %+v, want %+v", *f.Body, wantBody)
	}
	if l, c := f.End(); l != 4 || c != 0 {
		t.Errorf("End() = %d,%d", l, c)
	}
}

func TestFallbackDeclarations(t *testing.T) {
	content := "static int f(int a, ...);\n" +
		"char **g(char *s, int (*cb)(int, int));\n" +
		"int h();\n"
	fns := resolve(t, content)
	if len(fns) != 3 {
		t.Fatalf("got %d functions, want 3", len(fns))
	}

	tests := []struct {
		name       string
		returnType string
		args       []string
		count      int
		static     bool
		variadic   bool
	}{
		{"f", "static int", []string{"int a"}, 2, true, true},
		{"g", "char **", []string{"char *s", "int (*cb)(int, int)"}, 2, false, false},
		{"h", "int", nil, 0, false, false},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fns[i]
			if f.Name != tt.name || f.ReturnType != tt.returnType {
				t.Errorf("got %q %q", f.ReturnType, f.Name)
			}
			if !reflect.DeepEqual(f.Arguments, tt.args) {
				t.Errorf("Arguments = %#v, want %#v", f.Arguments, tt.args)
			}
			if f.ArgumentCount() != tt.count {
				t.Errorf("ArgumentCount() = %d, want %d", f.ArgumentCount(), tt.count)
			}
			if f.Static != tt.static || f.Variadic != tt.variadic {
				t.Errorf("static/variadic = %v/%v", f.Static, f.Variadic)
			}
			if f.Body != nil {
				t.Error("declaration has a body")
			}
			if f.Prototype.LineStart != i+1 {
				t.Errorf("LineStart = %d", f.Prototype.LineStart)
			}
		})
	}
}

func TestFallbackIgnoresCommentsAndStrings(t *testing.T) {
	content := "/* int fake(void); */\n" +
		"int real(char *s)\n" +
		"{\n" +
		"    puts(\"int x(void) {\");\n" +
		"}\n"
	fns := resolve(t, content)
	if len(fns) != 1 || fns[0].Name != "real" {
		t.Fatalf("got %+v, want only real", fns)
	}
	if fns[0].Body.LineEnd != 5 {
		t.Errorf("body ends on line %d, want 5", fns[0].Body.LineEnd)
	}
}

func TestFallbackAttributes(t *testing.T) {
	fns := resolve(t, "__attribute__((unused)) static void f(void);\n")
	if len(fns) != 1 {
		t.Fatalf("got %d functions, want 1", len(fns))
	}
	if !fns[0].Static || fns[0].Prototype.ColumnStart != 24 {
		t.Errorf("got %+v", fns[0])
	}
}

func TestFallbackNested(t *testing.T) {
	content := "void outer(void)\n" +
		"{\n" +
		"    int inner(int x)\n" +
		"    {\n" +
		"        return x;\n" +
		"    }\n" +
		"}\n"
	fns := resolve(t, content)
	if len(fns) != 2 || fns[0].Name != "outer" || fns[1].Name != "inner" {
		t.Fatalf("got %+v, want outer and inner", fns)
	}
	if fns[1].Body.ColumnStart != 4 || fns[1].Body.LineEnd != 6 {
		t.Errorf("inner body = %v", fns[1].Body)
	}

	merged := Merge(nil, fns)
	if len(merged) != 1 || merged[0].Name != "outer" {
		t.Errorf("Merge() kept %+v", merged)
	}
}

func TestFallbackSkipsControlStatements(t *testing.T) {
	content := "int f(int a)\n{\n    if (a) {\n        return g(a);\n    }\n    while (a) {\n    }\n    return 0;\n}\n"
	fns := resolve(t, content)
	if len(fns) != 1 {
		t.Fatalf("got %d functions, want 1", len(fns))
	}
}

func TestFallbackUnclosedBody(t *testing.T) {
	fns := resolve(t, "void f(void)\n{\n    x();\n")
	if len(fns) != 1 || fns[0].Body == nil {
		t.Fatalf("got %+v", fns)
	}
	if fns[0].Body.LineEnd != 4 {
		t.Errorf("unclosed body ends on line %d, want 4", fns[0].Body.LineEnd)
	}
}

func TestSplitArguments(t *testing.T) {
	tests := []struct {
		list     string
		want     []string
		variadic bool
	}{
		{"", nil, false},
		{"   ", nil, false},
		{"void", []string{}, false},
		{"...", []string{}, true},
		{"int a, char *b", []string{"int a", "char *b"}, false},
		{"void (*f)(int, int), int n", []string{"void (*f)(int, int)", "int n"}, false},
		{"const char *fmt, ...", []string{"const char *fmt"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			got, variadic := splitArguments(tt.list)
			if !reflect.DeepEqual(got, tt.want) || variadic != tt.variadic {
				t.Errorf("splitArguments(%q) = %#v, %v; want %#v, %v", tt.list, got, variadic, tt.want, tt.variadic)
			}
		})
	}
}

func fn(name string, l1, l2 int) Function {
	return Function{
		Name:      name,
		Prototype: Section{LineStart: l1, LineEnd: l1},
		Body:      &Section{LineStart: l1 + 1, LineEnd: l2},
	}
}

func TestMerge(t *testing.T) {
	precise := []Function{fn("b", 5, 8)}
	precise[0].ReturnType = "precise"
	fallback := []Function{fn("a", 1, 3), fn("b", 5, 8), fn("c", 10, 12)}

	got := Merge(precise, fallback)
	var names []string
	for _, f := range got {
		names = append(names, f.Name)
	}
	if !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Fatalf("Merge() names = %v", names)
	}
	if got[1].ReturnType != "precise" {
		t.Error("precise function must win over its fallback duplicate")
	}
}

type stubResolver struct {
	fns []Function
	err error
}

func (s stubResolver) Resolve(context.Context, token.Source) ([]Function, error) {
	return s.fns, s.err
}

func TestChain(t *testing.T) {
	src := source(t, "int a(void);\n")
	ctx := context.Background()

	c := &Chain{}
	got, err := c.Resolve(ctx, src)
	if err != nil || len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("fallback only: %+v, %v", got, err)
	}

	c = &Chain{Precise: stubResolver{err: errors.New("boom")}}
	got, err = c.Resolve(ctx, src)
	if err != nil || len(got) != 1 {
		t.Fatalf("failing precise resolver: %+v, %v", got, err)
	}

	precise := Function{Name: "a", ReturnType: "precise", Prototype: Section{LineStart: 1, LineEnd: 1, ColumnEnd: 11}}
	c = &Chain{Precise: stubResolver{fns: []Function{precise}}}
	got, err = c.Resolve(ctx, src)
	if err != nil || len(got) != 1 || got[0].ReturnType != "precise" {
		t.Fatalf("precise resolver: %+v, %v", got, err)
	}
}

func TestInBody(t *testing.T) {
	fns := []Function{
		{Body: &Section{LineStart: 2, ColumnStart: 0, LineEnd: 4, ColumnEnd: 0}},
		{Body: &Section{LineStart: 6, ColumnStart: 10, LineEnd: 6, ColumnEnd: 20}},
		{Prototype: Section{LineStart: 8, LineEnd: 8}},
	}
	tests := []struct {
		line, col int
		want      bool
	}{
		{3, 5, true},
		{2, 0, false},
		{2, 3, true},
		{4, 0, false},
		{1, 5, false},
		{6, 15, true},
		{6, 20, false},
		{8, 0, false},
	}
	for _, tt := range tests {
		if got := InBody(fns, tt.line, tt.col); got != tt.want {
			t.Errorf("InBody(%d, %d) = %v, want %v", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestBodyTokensAndStatements(t *testing.T) {
	src := source(t, "int main(void)\n{\n    return 0;\n}\n")
	fns, err := Fallback{}.Resolve(context.Background(), src)
	if err != nil || len(fns) != 1 {
		t.Fatalf("Resolve() = %+v, %v", fns, err)
	}
	body := BodyTokens(src, fns[0])
	for _, tok := range body {
		if tok.Kind == token.LeftBrace || tok.Kind == token.RightBrace {
			t.Errorf("body token %v includes a brace", tok)
		}
	}
	stmts := Statements(src, fns[0])
	if len(stmts) != 1 || stmts[0].First() != token.Return || stmts[0].Last() != token.Semicolon {
		t.Errorf("Statements() = %v", stmts)
	}

	if f, ok := BodyStartingAt(fns, 2, 0); !ok || f.Name != "main" {
		t.Error("BodyStartingAt(2, 0) not found")
	}
	if _, ok := BodyStartingAt(fns, 1, 0); ok {
		t.Error("BodyStartingAt(1, 0) found a body")
	}
	if BodyTokens(src, Function{}) != nil {
		t.Error("declaration has body tokens")
	}
}
