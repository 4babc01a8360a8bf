package lexer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perrors "plum/internal/errors"
	"plum/internal/slogutil"
	"plum/internal/token"
)

func kinds(tokens []token.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Name()
	}
	return out
}

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"declaration", "int a = 5;", "int space identifier space assign space intlit semicolon"},
		{"pointer", "char **p;", "char space star star identifier semicolon"},
		{"operators", "a<<=b->c...", "identifier shiftleftassign identifier arrow identifier ellipsis"},
		{"compound", "x+=1;y++", "identifier plusassign intlit semicolon identifier plusplus"},
		{"comments", "/* a */ // b\n", "ccomment space cppcomment newline"},
		{"strings", `"a\"b" 'c'`, "stringlit space charlit"},
		{"prefixed string", `L"wide"`, "stringlit"},
		{"numbers", "1 2L 0x1F 3.5 1e9 10UL", "intlit space longintlit space intlit space floatlit space floatlit space longintlit"},
		{"ternary", "a ? b : c", "identifier space question_mark space identifier space colon space identifier"},
		{"qheader", `#include "my.h"`, "pp_qheader"},
		{"hheader", "#include <stdio.h>\n", "pp_hheader newline"},
		{"define", "#define X 1", "pp_define space identifier space intlit"},
		{"indented directive", "  #  ifdef X", "space pp_ifdef space identifier"},
		{"stringify", "#define S(a) #a", "pp_define space identifier leftparen identifier rightparen space pound identifier"},
		{"splice", "a \\\nb", "identifier space space2 identifier"},
		{"crlf", "a\r\n", "identifier newline"},
		{"asm keyword", "asm(\"nop\");", "asm leftparen stringlit rightparen semicolon"},
		{"cpp keywords are identifiers", "class new", "identifier space identifier"},
		{"unknown", "@", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize("f.c", tt.input)
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			if got := strings.Join(kinds(tokens), " "); got != tt.want {
				t.Errorf("kinds = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := Tokenize("f.c", "int\n  /* x\n y */ a;")
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		value     string
		line, col int
	}{
		{"int", 1, 0},
		{"\n", 1, 3},
		{"  ", 2, 0},
		{"/* x\n y */", 2, 2},
		{" ", 3, 5},
		{"a", 3, 6},
		{";", 3, 7},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		got := tokens[i]
		if got.Value != w.value || got.Line != w.line || got.Column != w.col || got.File != "f.c" {
			t.Errorf("token %d = %q %d:%d, want %q %d:%d", i, got.Value, got.Line, got.Column, w.value, w.line, w.col)
		}
	}
}

func TestTokenizeConcatenation(t *testing.T) {
	input := "#include <unistd.h>\n\nint main(void)\n{\n\treturn write(1, \"hi\\n\", 3) * 2;\n}\n"
	tokens, err := Tokenize("main.c", input)
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Value)
	}
	if b.String() != input {
		t.Errorf("token values do not rebuild the input:\n%q", b.String())
	}
}

func TestTokenizeUnterminatedComment(t *testing.T) {
	_, err := Tokenize("f.c", "int a; /* never closed")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("want SyntaxError, got %v", err)
	}
	if se.Line != 1 || se.Column != 7 {
		t.Errorf("position = %d:%d", se.Line, se.Column)
	}
}

func TestDirectiveOnlyAtLineStart(t *testing.T) {
	tokens, err := Tokenize("f.c", "a # define")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(kinds(tokens), " "); got != "identifier space pound space identifier" {
		t.Errorf("kinds = %q", got)
	}
}

func TestNewSource(t *testing.T) {
	src, err := NewSource("a.c", []byte("int a;\nint b;\n"))
	if err != nil {
		t.Fatal(err)
	}
	lines := src.Lines()
	if len(lines) != 3 || lines[2] != "" {
		t.Errorf("Lines() = %q", lines)
	}
	ids := src.Tokens(token.Lines(2, 2), token.Identifier)
	if len(ids) != 1 || ids[0].Value != "b" {
		t.Errorf("Tokens(line 2) = %v", ids)
	}
	if src.IsBinary() {
		t.Error("text reported as binary")
	}
}

func TestIsBinary(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"text", []byte("int main;\n"), false},
		{"nul", []byte{'a', 0, 'b'}, true},
		{"invalid utf8", []byte{0xff, 0xfe, 'a'}, true},
		{"utf8 text", []byte("/* é */\n"), false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBinary(tt.content); got != tt.want {
				t.Errorf("IsBinary() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHostOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.c")
	if err := os.WriteFile(path, []byte("int x;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	host := NewHost(slogutil.NewDiscardLogger())

	src, err := host.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if src.Path() != path || len(src.Tokens(token.All)) == 0 {
		t.Errorf("unexpected source %v", src)
	}

	_, err = host.Open(filepath.Join(dir, "missing.c"))
	if !errors.Is(err, perrors.Sentinel(perrors.FileUnreadable)) {
		t.Errorf("missing file error = %v", err)
	}

	_, err = host.Parse("buf.c", []byte("/* open"))
	if !errors.Is(err, perrors.Sentinel(perrors.TokenizeFailed)) {
		t.Errorf("unterminated buffer error = %v", err)
	}
}
