//go:build cgo

package cparse

import (
	"context"
	"reflect"
	"testing"

	"plum/internal/lexer"
)

func TestResolve(t *testing.T) {
	source := `#include <stdio.h>

static int add(int a, int b)
{
    return a + b;
}

char *dup(const char *s);
int count();
int printf_like(const char *fmt, ...);
int (*handler)(int);

#ifdef DEBUG
void trace(void)
{
}
#endif
`
	src, err := lexer.NewSource("t.c", []byte(source))
	if err != nil {
		t.Fatal(err)
	}
	fns, err := New().Resolve(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name       string
		returnType string
		args       []string
		body       bool
		static     bool
		variadic   bool
	}{
		{"add", "static int", []string{"int a", "int b"}, true, true, false},
		{"dup", "char *", []string{"const char *s"}, false, false, false},
		{"count", "int", nil, false, false, false},
		{"printf_like", "int", []string{"const char *fmt"}, false, false, true},
		{"trace", "void", []string{}, true, false, false},
	}
	if len(fns) != len(tests) {
		t.Fatalf("expected %d functions, got %d: %+v", len(tests), len(fns), fns)
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fns[i]
			if f.Name != tt.name {
				t.Fatalf("expected %s, got %s", tt.name, f.Name)
			}
			if f.ReturnType != tt.returnType {
				t.Errorf("expected return type %q, got %q", tt.returnType, f.ReturnType)
			}
			if !reflect.DeepEqual(f.Arguments, tt.args) {
				t.Errorf("expected arguments %#v, got %#v", tt.args, f.Arguments)
			}
			if (f.Body != nil) != tt.body {
				t.Errorf("expected body %v", tt.body)
			}
			if f.Static != tt.static || f.Variadic != tt.variadic {
				t.Errorf("static/variadic = %v/%v", f.Static, f.Variadic)
			}
		})
	}

	add := fns[0]
	if add.Prototype.LineStart != 3 || add.Prototype.ColumnStart != 0 {
		t.Errorf("add prototype starts at %d:%d", add.Prototype.LineStart, add.Prototype.ColumnStart)
	}
	if add.Body.LineStart != 4 || add.Body.LineEnd != 6 || add.Body.ColumnEnd != 0 {
		t.Errorf("add body = %v", add.Body)
	}
}

func TestIsAvailable(t *testing.T) {
	if !IsAvailable() {
		t.Error("expected tree-sitter to be available with cgo")
	}
}
