// Package token defines the lexical tokens of a C source file and the
// per-file view the lint engine reads them through.
package token

// Kind identifies the lexical class of a token.
type Kind int

const (
	Unknown Kind = iota

	// Blanks and comments
	Space
	Space2
	Newline
	CComment
	CppComment

	// Literals
	StringLit
	CharLit
	IntLit
	LongIntLit
	FloatLit

	Identifier

	// Keywords
	Asm
	Auto
	Bool
	Break
	Case
	Char
	Const
	Continue
	Default
	Do
	Double
	Else
	Enum
	Extern
	Float
	For
	Goto
	If
	Inline
	Int
	Long
	Register
	Return
	Short
	Signed
	Sizeof
	Static
	Struct
	Switch
	Typedef
	Union
	Unsigned
	Void
	Volatile
	While

	// Punctuators
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Semicolon
	Comma
	Colon
	QuestionMark
	Dot
	Arrow
	Ellipsis
	Plus
	Minus
	Star
	Divide
	Percent
	And
	Or
	Xor
	Not
	Compl
	AndAnd
	OrOr
	PlusPlus
	MinusMinus
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	ShiftLeft
	ShiftRight
	Assign
	PlusAssign
	MinusAssign
	StarAssign
	DivideAssign
	PercentAssign
	AndAssign
	OrAssign
	XorAssign
	ShiftLeftAssign
	ShiftRightAssign
	Pound
	PoundPound

	// Preprocessor directives
	PPDefine
	PPElif
	PPElse
	PPEndif
	PPError
	PPHHeader
	PPIf
	PPIfdef
	PPIfndef
	PPInclude
	PPLine
	PPPragma
	PPQHeader
	PPUndef
	PPWarning

	kindCount
)

var kindNames = [kindCount]string{
	Unknown:          "unknown",
	Space:            "space",
	Space2:           "space2",
	Newline:          "newline",
	CComment:         "ccomment",
	CppComment:       "cppcomment",
	StringLit:        "stringlit",
	CharLit:          "charlit",
	IntLit:           "intlit",
	LongIntLit:       "longintlit",
	FloatLit:         "floatlit",
	Identifier:       "identifier",
	Asm:              "asm",
	Auto:             "auto",
	Bool:             "bool",
	Break:            "break",
	Case:             "case",
	Char:             "char",
	Const:            "const",
	Continue:         "continue",
	Default:          "default",
	Do:               "do",
	Double:           "double",
	Else:             "else",
	Enum:             "enum",
	Extern:           "extern",
	Float:            "float",
	For:              "for",
	Goto:             "goto",
	If:               "if",
	Inline:           "inline",
	Int:              "int",
	Long:             "long",
	Register:         "register",
	Return:           "return",
	Short:            "short",
	Signed:           "signed",
	Sizeof:           "sizeof",
	Static:           "static",
	Struct:           "struct",
	Switch:           "switch",
	Typedef:          "typedef",
	Union:            "union",
	Unsigned:         "unsigned",
	Void:             "void",
	Volatile:         "volatile",
	While:            "while",
	LeftParen:        "leftparen",
	RightParen:       "rightparen",
	LeftBrace:        "leftbrace",
	RightBrace:       "rightbrace",
	LeftBracket:      "leftbracket",
	RightBracket:     "rightbracket",
	Semicolon:        "semicolon",
	Comma:            "comma",
	Colon:            "colon",
	QuestionMark:     "question_mark",
	Dot:              "dot",
	Arrow:            "arrow",
	Ellipsis:         "ellipsis",
	Plus:             "plus",
	Minus:            "minus",
	Star:             "star",
	Divide:           "divide",
	Percent:          "percent",
	And:              "and",
	Or:               "or",
	Xor:              "xor",
	Not:              "not",
	Compl:            "compl",
	AndAnd:           "andand",
	OrOr:             "oror",
	PlusPlus:         "plusplus",
	MinusMinus:       "minusminus",
	Equal:            "equal",
	NotEqual:         "notequal",
	Less:             "less",
	LessEqual:        "lessequal",
	Greater:          "greater",
	GreaterEqual:     "greaterequal",
	ShiftLeft:        "shiftleft",
	ShiftRight:       "shiftright",
	Assign:           "assign",
	PlusAssign:       "plusassign",
	MinusAssign:      "minusassign",
	StarAssign:       "starassign",
	DivideAssign:     "divideassign",
	PercentAssign:    "percentassign",
	AndAssign:        "andassign",
	OrAssign:         "orassign",
	XorAssign:        "xorassign",
	ShiftLeftAssign:  "shiftleftassign",
	ShiftRightAssign: "shiftrightassign",
	Pound:            "pound",
	PoundPound:       "pound_pound",
	PPDefine:         "pp_define",
	PPElif:           "pp_elif",
	PPElse:           "pp_else",
	PPEndif:          "pp_endif",
	PPError:          "pp_error",
	PPHHeader:        "pp_hheader",
	PPIf:             "pp_if",
	PPIfdef:          "pp_ifdef",
	PPIfndef:         "pp_ifndef",
	PPInclude:        "pp_include",
	PPLine:           "pp_line",
	PPPragma:         "pp_pragma",
	PPQHeader:        "pp_qheader",
	PPUndef:          "pp_undef",
	PPWarning:        "pp_warning",
}

// String returns the conventional lowercase token name (for example
// "leftbrace" or "pp_define").
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// KindFromName maps a token name back to its Kind. Unknown names yield
// Unknown and false.
func KindFromName(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// Keyword returns the keyword kind spelled by word, if any.
func Keyword(word string) (Kind, bool) {
	k, ok := keywords[word]
	return k, ok
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

var keywords = map[string]Kind{}

func init() {
	for k := Asm; k <= While; k++ {
		keywords[kindNames[k]] = k
	}
}
