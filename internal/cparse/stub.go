//go:build !cgo

package cparse

import (
	"context"

	"plum/internal/functions"
	"plum/internal/token"
)

// Resolver is a stub implementation for non-CGO builds.
type Resolver struct{}

// New creates a resolver that always fails with ErrNoCGO.
func New() *Resolver {
	return &Resolver{}
}

// Resolve returns ErrNoCGO.
func (r *Resolver) Resolve(ctx context.Context, src token.Source) ([]functions.Function, error) {
	return nil, ErrNoCGO
}

// IsAvailable returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}
