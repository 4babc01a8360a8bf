package token

// Set is an immutable collection of kinds.
type Set struct {
	bits [(kindCount + 63) / 64]uint64
}

// NewSet builds a set from kinds.
func NewSet(kinds ...Kind) Set {
	var s Set
	for _, k := range kinds {
		if k >= 0 && k < kindCount {
			s.bits[k/64] |= 1 << (uint(k) % 64)
		}
	}
	return s
}

// Has reports whether k is in the set.
func (s Set) Has(k Kind) bool {
	if k < 0 || k >= kindCount {
		return false
	}
	return s.bits[k/64]&(1<<(uint(k)%64)) != 0
}

// Union returns a set holding the kinds of s and all others.
func (s Set) Union(others ...Set) Set {
	out := s
	for _, o := range others {
		for i := range out.bits {
			out.bits[i] |= o.bits[i]
		}
	}
	return out
}

// Kinds lists the members of the set in declaration order.
func (s Set) Kinds() []Kind {
	var out []Kind
	for k := Kind(0); k < kindCount; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

var (
	AssignOperators = NewSet(
		Assign, PlusAssign, MinusAssign, StarAssign, DivideAssign, PercentAssign,
		XorAssign, AndAssign, ShiftLeftAssign, ShiftRightAssign, OrAssign,
	)

	BinaryOperators = NewSet(
		Plus, Minus, Star, Divide, Greater, GreaterEqual, Less, LessEqual,
		Equal, NotEqual, Or, AndAnd, And, Percent, Xor, ShiftLeft, ShiftRight,
		OrOr, Colon, QuestionMark,
	).Union(AssignOperators)

	Preprocessor = NewSet(
		PPDefine, PPElif, PPElse, PPEndif, PPError, PPHHeader, PPIf, PPIfdef,
		PPIfndef, PPInclude, PPLine, PPPragma, PPQHeader, PPUndef, PPWarning,
	)

	UnaryOperators = NewSet(And, Plus, Minus, Not, Sizeof, Star)

	IncrementDecrement = NewSet(PlusPlus, MinusMinus)

	// ValueModifiers change the value of their operand.
	ValueModifiers = AssignOperators.Union(IncrementDecrement)

	Literals = NewSet(IntLit, StringLit, CharLit, FloatLit, LongIntLit)

	// Types holds the kinds that may start or continue a declaration
	// specifier list. Comma is included so that `int a, *b` keeps the
	// declaration context.
	Types = NewSet(
		Auto, Bool, Char, Comma, Const, Double, Enum, Extern, Float, Inline,
		Int, Long, Register, Short, Signed, Static, Typedef, Union, Unsigned,
		Void, Volatile, Struct,
	)

	Identifiers = NewSet(Identifier).Union(Literals)

	Keywords = NewSet(
		Break, Default, Return, Case, Continue, Goto, Struct, If, For, While,
		Do, Switch,
	)

	Parentheses    = NewSet(LeftParen, RightParen)
	SquareBrackets = NewSet(LeftBracket, RightBracket)
	Braces         = NewSet(LeftBrace, RightBrace)

	ControlStructures = NewSet(If, Else, While, Do, For, Switch)

	Comments = NewSet(CComment, CppComment)

	// NonSemantic tokens do not influence the meaning of the code.
	NonSemantic = NewSet(Space, Space2, Newline).Union(Comments)

	StructureAccess = NewSet(Dot, Arrow)
)
