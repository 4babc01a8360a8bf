package functions

import (
	"context"
	"log/slog"
	"sort"

	"plum/internal/token"
)

// Chain resolves with Precise when it is set and completes its result with
// the Fallback functions it missed.
type Chain struct {
	Precise  Resolver
	Fallback Resolver
	Logger   *slog.Logger
}

var _ Resolver = (*Chain)(nil)

// Resolve implements Resolver. A failing precise resolver degrades to the
// fallback result.
func (c *Chain) Resolve(ctx context.Context, src token.Source) ([]Function, error) {
	fallback := c.Fallback
	if fallback == nil {
		fallback = Fallback{}
	}
	loose, err := fallback.Resolve(ctx, src)
	if err != nil {
		return nil, err
	}
	if c.Precise == nil {
		return Merge(nil, loose), nil
	}
	precise, err := c.Precise.Resolve(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.Logger != nil {
			c.Logger.Warn("precise function resolution failed",
				"file", src.Path(),
				"error", err.Error(),
			)
		}
		return Merge(nil, loose), nil
	}
	return Merge(precise, loose), nil
}

type extent struct {
	l1, c1, l2, c2 int
}

func extentOf(f Function) extent {
	l2, c2 := f.End()
	return extent{f.Prototype.LineStart, f.Prototype.ColumnStart, l2, c2}
}

func before(l1, c1, l2, c2 int) bool {
	return l1 < l2 || (l1 == l2 && c1 < c2)
}

func (a extent) overlaps(b extent) bool {
	return !before(a.l2, a.c2, b.l1, b.c1) && !before(b.l2, b.c2, a.l1, a.c1)
}

// Merge keeps every precise function and adds the fallback ones that
// overlap none already kept. The result is ordered by prototype start.
func Merge(precise, fallback []Function) []Function {
	out := make([]Function, 0, len(precise)+len(fallback))
	out = append(out, precise...)
	kept := make([]extent, 0, cap(out))
	for _, f := range precise {
		kept = append(kept, extentOf(f))
	}

	for _, f := range fallback {
		e := extentOf(f)
		clash := false
		for _, k := range kept {
			if e.overlaps(k) {
				clash = true
				break
			}
		}
		if !clash {
			out = append(out, f)
			kept = append(kept, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Prototype, out[j].Prototype
		return before(a.LineStart, a.ColumnStart, b.LineStart, b.ColumnStart)
	})
	return out
}
