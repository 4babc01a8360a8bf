package rules

import (
	"plum/internal/functions"
	"plum/internal/lint"
	"plum/internal/token"
)

// headerSeparation keeps type definitions, macros and prototypes in
// headers and function definitions in sources. Static inline functions
// are the one kind of definition a header may hold.
type headerSeparation struct{}

func (headerSeparation) ID() string { return "C-H1" }

func (headerSeparation) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	if f.Kind == lint.CSource {
		for _, t := range f.Tokens(token.All, token.Typedef, token.PPDefine) {
			out = append(out, lint.Finding{Line: t.Line, Message: t.Value + " belongs in a header file"})
		}
	}
	for _, fn := range f.Functions() {
		if !allowedIn(fn, f.Kind) {
			out = append(out, lint.Finding{Line: fn.Prototype.LineStart})
		}
	}
	return out
}

func allowedIn(fn functions.Function, kind lint.FileKind) bool {
	staticInline := fn.Static && fn.Inline
	switch kind {
	case lint.CSource:
		return fn.Body != nil && !staticInline
	case lint.CHeader:
		return fn.Body == nil || staticInline
	}
	return false
}
