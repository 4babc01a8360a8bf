//go:build cgo

package cparse

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"plum/internal/functions"
	"plum/internal/token"
)

// containers are walked into when looking for top level functions.
var containers = map[string]bool{
	"preproc_if":            true,
	"preproc_ifdef":         true,
	"preproc_else":          true,
	"preproc_elif":          true,
	"preproc_elifdef":       true,
	"linkage_specification": true,
	"declaration_list":      true,
}

// Resolver reports the functions of a file from its C syntax tree.
// It is safe for concurrent use.
type Resolver struct {
	parsers sync.Pool
}

var _ functions.Resolver = (*Resolver)(nil)

// New creates a tree-sitter resolver.
func New() *Resolver {
	return &Resolver{
		parsers: sync.Pool{New: func() any {
			p := sitter.NewParser()
			p.SetLanguage(c.GetLanguage())
			return p
		}},
	}
}

// Resolve implements functions.Resolver.
func (r *Resolver) Resolve(ctx context.Context, src token.Source) ([]functions.Function, error) {
	text := []byte(strings.Join(src.Lines(), "\n"))

	p := r.parsers.Get().(*sitter.Parser)
	defer r.parsers.Put(p)

	tree, err := p.ParseCtx(ctx, nil, text)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	var out []functions.Function
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child == nil {
				continue
			}
			switch {
			case child.Type() == "function_definition":
				if f, ok := definition(child, text); ok {
					out = append(out, f)
				}
			case child.Type() == "declaration":
				out = append(out, declarations(child, text)...)
			case containers[child.Type()]:
				walk(child)
			}
		}
	}
	walk(tree.RootNode())
	return out, nil
}

// IsAvailable returns true when CGO is enabled.
func IsAvailable() bool {
	return true
}

func definition(n *sitter.Node, text []byte) (functions.Function, bool) {
	decl := findFunctionDeclarator(n.ChildByFieldName("declarator"))
	body := n.ChildByFieldName("body")
	if decl == nil || body == nil {
		return functions.Function{}, false
	}
	f, ok := prototype(n, decl, body.StartPoint(), body.StartByte(), text)
	if !ok {
		return f, false
	}

	end := body.EndPoint()
	endCol := int(end.Column) - 1
	if endCol < 0 {
		endCol = 0
	}
	start := body.StartPoint()
	f.Body = &functions.Section{
		LineStart:   int(start.Row) + 1,
		LineEnd:     int(end.Row) + 1,
		ColumnStart: int(start.Column),
		ColumnEnd:   endCol,
		Raw:         body.Content(text),
	}
	return f, true
}

func declarations(n *sitter.Node, text []byte) []functions.Function {
	var out []functions.Function
	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := findFunctionDeclarator(n.NamedChild(i))
		if decl == nil {
			continue
		}
		end := n.EndPoint()
		if end.Column > 0 {
			end.Column--
		}
		if f, ok := prototype(n, decl, end, n.EndByte()-1, text); ok {
			out = append(out, f)
		}
	}
	return out
}

// prototype fills the name, return type, arguments and prototype section.
// The prototype ends at the given point, the `{` or `;` that closes it.
func prototype(n, decl *sitter.Node, end sitter.Point, endByte uint32, text []byte) (functions.Function, bool) {
	name := decl.ChildByFieldName("declarator")
	if name == nil || name.Type() != "identifier" {
		return functions.Function{}, false
	}

	start := n.StartPoint()
	f := functions.Function{
		Name:       name.Content(text),
		ReturnType: strings.Join(strings.Fields(string(text[n.StartByte():name.StartByte()])), " "),
		Prototype: functions.Section{
			LineStart:   int(start.Row) + 1,
			LineEnd:     int(end.Row) + 1,
			ColumnStart: int(start.Column),
			ColumnEnd:   int(end.Column),
			Raw:         strings.TrimRight(string(text[n.StartByte():endByte]), " \t\r\n"),
		},
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "storage_class_specifier", "function_specifier":
			switch child.Content(text) {
			case "static":
				f.Static = true
			case "inline", "__inline", "__inline__":
				f.Inline = true
			}
		}
	}

	f.Arguments, f.Variadic = parameters(decl.ChildByFieldName("parameters"), text)
	return f, true
}

// parameters returns nil for `()` and an empty list for `(void)`.
func parameters(list *sitter.Node, text []byte) ([]string, bool) {
	if list == nil {
		return nil, false
	}
	var args []string
	variadic := false
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		switch p.Type() {
		case "variadic_parameter":
			variadic = true
		case "parameter_declaration":
			args = append(args, strings.TrimSpace(p.Content(text)))
		}
	}
	if len(args) == 0 && !variadic {
		return nil, false
	}
	if len(args) == 1 && args[0] == "void" {
		return []string{}, variadic
	}
	if args == nil {
		args = []string{}
	}
	return args, variadic
}

// findFunctionDeclarator unwraps pointer declarators down to the function
// declarator naming the function.
func findFunctionDeclarator(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "function_declarator":
			if d := n.ChildByFieldName("declarator"); d != nil && d.Type() == "identifier" {
				return n
			}
			n = n.ChildByFieldName("declarator")
		case "pointer_declarator":
			n = n.ChildByFieldName("declarator")
		case "parenthesized_declarator", "attributed_declarator":
			if n.NamedChildCount() == 0 {
				return nil
			}
			n = n.NamedChild(0)
		default:
			return nil
		}
	}
	return nil
}
