package rules

import (
	"regexp"
	"strings"

	"plum/internal/lint"
)

var qualifiers = []struct {
	word string
	re   *regexp.Regexp
}{
	{"const", regexp.MustCompile(`^(?:^|\W)const(?:\W.*)?$`)},
	{"volatile", regexp.MustCompile(`^(?:^|\W)volatile(?:\W.*)?$`)},
	{"restrict", regexp.MustCompile(`^(?:^|\W)restrict(?:\W.*)?$`)},
}

// structByValue reports structure parameters that are not pointers.
type structByValue struct{}

func (structByValue) ID() string { return "C-F7" }

func (structByValue) Check(f *lint.File) []lint.Finding {
	var out []lint.Finding
	for _, fn := range f.Functions() {
		for _, arg := range fn.Arguments {
			if passesStructByValue(arg) {
				out = append(out, lint.Finding{Line: fn.Prototype.LineStart})
			}
		}
	}
	return out
}

// passesStructByValue reads `struct type name` once qualifiers are gone;
// a star on the type or the name makes it a pointer.
func passesStructByValue(arg string) bool {
	words := strings.Fields(strings.ReplaceAll(arg, "\t", " "))
	kept := words[:0]
	hasStruct := false
	for _, w := range words {
		for _, q := range qualifiers {
			if q.re.MatchString(w) {
				w = strings.ReplaceAll(w, q.word, "")
			}
		}
		if w == "" {
			continue
		}
		if w == "struct" {
			hasStruct = true
		}
		kept = append(kept, w)
	}
	if !hasStruct || len(kept) < 3 {
		return false
	}
	typ, name := kept[1], kept[2]
	return !strings.HasPrefix(name, "*") && !strings.HasSuffix(typ, "*")
}
