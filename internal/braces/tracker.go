// Package braces tracks brace nesting and indentation depth.
package braces

import "plum/internal/token"

// Tag names the construct that opened a counted brace block.
type Tag int

const (
	Untagged Tag = iota
	Enum
	Union
	Struct
	TypedefStruct
	// Initializer is `= {` and everything nested in it.
	Initializer
)

func (t Tag) String() string {
	switch t {
	case Enum:
		return "enum"
	case Union:
		return "union"
	case Struct:
		return "struct"
	case TypedefStruct:
		return "typedef struct"
	case Initializer:
		return "initializer"
	}
	return "untagged"
}

type frame struct {
	tag Tag
	// open braces inside the construct; 0 while waiting for its `{`
	depth int
}

// Tracker follows the brace structure of a token stream. Type definitions
// and initializers open tagged frames so that callers can tell their
// braces apart from statement braces.
//
// Tokens are fed one at a time with Feed, without blanks and comments.
type Tracker struct {
	depth  int
	frames []frame

	// the struct/union/enum keyword right after typedef is already counted
	skipNextTag bool
}

// Event describes what Feed saw.
type Event struct {
	// Open is true for a `{` and Close for a `}`
	Open, Close bool
	// Tag of the frame the brace belongs to, Untagged for statement braces
	Tag Tag
	// Ends is true for the `}` that closes a tagged block
	Ends bool
}

// Depth is the number of braces currently open.
func (t *Tracker) Depth() int {
	return t.depth
}

// Open pushes a frame waiting for its opening brace.
func (t *Tracker) Open(tag Tag) {
	t.CancelPending()
	t.frames = append(t.frames, frame{tag: tag})
}

// CancelPending drops a frame still waiting for its brace, for example a
// `struct s *p` that declares but does not define.
func (t *Tracker) CancelPending() {
	if n := len(t.frames); n > 0 && t.frames[n-1].depth == 0 {
		t.frames = t.frames[:n-1]
	}
}

// LeftBrace records a `{` and returns the tag it belongs to.
func (t *Tracker) LeftBrace() Tag {
	t.depth++
	if n := len(t.frames); n > 0 {
		t.frames[n-1].depth++
		return t.frames[n-1].tag
	}
	return Untagged
}

// RightBrace records a `}`. closed is true when it ends a tagged block.
func (t *Tracker) RightBrace() (tag Tag, closed bool) {
	if t.depth > 0 {
		t.depth--
	}
	n := len(t.frames)
	if n == 0 || t.frames[n-1].depth == 0 {
		return Untagged, false
	}
	t.frames[n-1].depth--
	tag = t.frames[n-1].tag
	if t.frames[n-1].depth == 0 {
		t.frames = t.frames[:n-1]
		return tag, true
	}
	return tag, false
}

// Feed advances the tracker by one token. next is the kind of the
// following token, or token.Unknown at the end.
func (t *Tracker) Feed(tok token.Token, next token.Kind) Event {
	switch tok.Kind {
	case token.Typedef:
		if next == token.Struct || next == token.Union || next == token.Enum {
			t.Open(TypedefStruct)
			t.skipNextTag = true
			return Event{}
		}
	case token.Struct, token.Union, token.Enum:
		if t.skipNextTag {
			t.skipNextTag = false
			return Event{}
		}
		t.Open(tagOf(tok.Kind))
		return Event{}
	case token.Assign:
		if next == token.LeftBrace {
			t.Open(Initializer)
			return Event{}
		}
	case token.LeftBrace:
		return Event{Open: true, Tag: t.LeftBrace()}
	case token.RightBrace:
		tag, closed := t.RightBrace()
		return Event{Close: true, Tag: tag, Ends: closed}
	case token.Identifier:
		// tag names keep a pending frame armed
		return Event{}
	}
	t.CancelPending()
	return Event{}
}

func tagOf(k token.Kind) Tag {
	switch k {
	case token.Enum:
		return Enum
	case token.Union:
		return Union
	}
	return Struct
}
