package token

import (
	"reflect"
	"testing"
)

func TestKindNames(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
	}{
		{LeftBrace, "leftbrace"},
		{QuestionMark, "question_mark"},
		{PPDefine, "pp_define"},
		{PoundPound, "pound_pound"},
		{CppComment, "cppcomment"},
		{ShiftRightAssign, "shiftrightassign"},
		{Kind(-1), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
		})
	}
}

func TestKindFromNameRoundTrip(t *testing.T) {
	for k := Kind(0); k < kindCount; k++ {
		got, ok := KindFromName(k.String())
		if !ok || got != k {
			t.Errorf("KindFromName(%q) = %v, %v", k.String(), got, ok)
		}
	}
}

func TestKeyword(t *testing.T) {
	if k, ok := Keyword("while"); !ok || k != While {
		t.Errorf("Keyword(while) = %v, %v", k, ok)
	}
	if _, ok := Keyword("class"); ok {
		t.Error("class must not be a keyword")
	}
}

func TestSet(t *testing.T) {
	if !Types.Has(Comma) || !Types.Has(Struct) {
		t.Error("Types must hold comma and struct")
	}
	if Types.Has(Identifier) {
		t.Error("Types must not hold identifier")
	}
	if !BinaryOperators.Has(PlusAssign) {
		t.Error("BinaryOperators must include assignment operators")
	}
	if !ValueModifiers.Has(PlusPlus) || !ValueModifiers.Has(Assign) {
		t.Error("ValueModifiers must include increments and assignments")
	}
	want := []Kind{If, Else, While, Do, For, Switch}
	if got := ControlStructures.Kinds(); len(got) != len(want) {
		t.Errorf("ControlStructures.Kinds() = %v", got)
	}
}

func TestQueryContains(t *testing.T) {
	tok := func(line, col int) Token { return Token{Line: line, Column: col} }
	tests := []struct {
		name string
		q    Query
		tok  Token
		want bool
	}{
		{"all", All, tok(3, 4), true},
		{"before start line", Query{2, 0, -1, -1}, tok(1, 10), false},
		{"before start column", Query{2, 5, -1, -1}, tok(2, 4), false},
		{"at start", Query{2, 5, -1, -1}, tok(2, 5), true},
		{"end excluded", Query{1, 0, 3, 7}, tok(3, 7), false},
		{"before end", Query{1, 0, 3, 7}, tok(3, 6), true},
		{"end of line", Query{1, 0, 3, -1}, tok(3, 99), true},
		{"after end line", Query{1, 0, 3, -1}, tok(4, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Contains(tt.tok); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	tokens := []Token{
		{Value: "int", Line: 1, Column: 0, Kind: Int},
		{Value: " ", Line: 1, Column: 3, Kind: Space},
		{Value: "a", Line: 1, Column: 4, Kind: Identifier},
		{Value: ";", Line: 1, Column: 5, Kind: Semicolon},
		{Value: "b", Line: 2, Column: 0, Kind: Identifier},
	}
	got := Select(tokens, Lines(1, 1), Identifier)
	if len(got) != 1 || got[0].Value != "a" {
		t.Errorf("Select() = %v", got)
	}
	if got := Select(tokens, All); len(got) != len(tokens) {
		t.Errorf("Select(All) returned %d tokens", len(got))
	}
}

func TestTokenEnd(t *testing.T) {
	line, col := Token{Value: "/* a\n  b */", Line: 4, Column: 2}.End()
	if line != 5 || col != 6 {
		t.Errorf("End() = %d:%d, want 5:6", line, col)
	}
	line, col = Token{Value: "abc", Line: 1, Column: 2}.End()
	if line != 1 || col != 5 {
		t.Errorf("End() = %d:%d, want 1:5", line, col)
	}
}

func TestBlank(t *testing.T) {
	lines := []string{
		`int a; /* note */`,
		`char *s = "hi there"; // tail`,
		`/* multi`,
		`   line */ int b;`,
	}
	tokens := []Token{
		{Value: "/* note */", Line: 1, Column: 7, Kind: CComment},
		{Value: `"hi there"`, Line: 2, Column: 10, Kind: StringLit},
		{Value: "// tail", Line: 2, Column: 22, Kind: CppComment},
		{Value: "/* multi\n   line */", Line: 3, Column: 0, Kind: CComment},
	}

	got := Blank(lines, tokens, BlankComments|BlankStrings)
	want := []string{
		`int a; /*      */`,
		`char *s = "        "; //     `,
		`/*      `,
		`        */ int b;`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Blank() =\n%q\nwant\n%q", got, want)
	}
	for i := range got {
		if len(got[i]) != len(lines[i]) {
			t.Errorf("line %d length changed", i+1)
		}
	}
	if lines[0] != `int a; /* note */` {
		t.Error("Blank must not modify its input")
	}

	onlyComments := Blank(lines, tokens, BlankComments)
	if onlyComments[1] != `char *s = "hi there"; //     ` {
		t.Errorf("comments only: %q", onlyComments[1])
	}
}

func TestBlankKeepsLineSplice(t *testing.T) {
	lines := []string{`// a \`, `b`}
	tokens := []Token{{Value: "// a \\\nb", Line: 1, Column: 0, Kind: CppComment}}
	got := Blank(lines, tokens, BlankComments)
	if got[0] != `//   \` || got[1] != " " {
		t.Errorf("Blank() = %q", got)
	}
}
