// Package cparse resolves C functions from a tree-sitter syntax tree.
//
// The resolver needs cgo. Without it New returns a Resolver whose Resolve
// fails with ErrNoCGO and IsAvailable reports false.
package cparse

import "errors"

// ErrNoCGO is returned when precise resolution is unavailable due to missing CGO.
var ErrNoCGO = errors.New("precise function resolution requires CGO (tree-sitter)")
