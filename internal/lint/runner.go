package lint

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	perrors "plum/internal/errors"
	"plum/internal/functions"
	"plum/internal/lexer"
	"plum/internal/token"
)

// Cache stores diagnostics of unchanged files between runs.
type Cache interface {
	Lookup(path string, content []byte) ([]Diagnostic, bool)
	Store(path string, content []byte, diags []Diagnostic) error
}

// Runner drives the linting pipeline: for each file it reads the content,
// builds a File, runs the checks that apply and collects diagnostics.
type Runner struct {
	Checks  []Check
	Host    *lexer.Host
	Precise functions.Resolver
	Cache   Cache
	Logger  *slog.Logger

	// Workers bounds concurrent files, runtime.NumCPU() when zero.
	Workers int

	// Skip disables a rule for a path when it returns true.
	Skip func(path, ruleID string) bool
}

// Result holds the output of a lint run.
type Result struct {
	Diagnostics []Diagnostic
	Errors      []error
	Files       int
	CacheHits   int
}

// Tally counts the diagnostics of the run.
func (r *Result) Tally() Tally {
	return Count(r.Diagnostics)
}

// Run lints the files at the given paths and returns all diagnostics
// sorted by file and line. Failures of single files are collected in
// Result.Errors; the returned error is only set when ctx ends the run.
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	res := &Result{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g.SetLimit(workers)

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			diags, hit, errs := r.lintPath(path)

			mu.Lock()
			defer mu.Unlock()
			res.Files++
			if hit {
				res.CacheHits++
			}
			res.Diagnostics = append(res.Diagnostics, diags...)
			res.Errors = append(res.Errors, errs...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	SortDiagnostics(res.Diagnostics)
	sort.Slice(res.Errors, func(i, j int) bool {
		return res.Errors[i].Error() < res.Errors[j].Error()
	})
	r.logger().Info("Lint run complete",
		"files", res.Files,
		"diagnostics", len(res.Diagnostics),
		"errors", len(res.Errors),
		"cacheHits", res.CacheHits,
	)
	return res, nil
}

func (r *Runner) lintPath(path string) ([]Diagnostic, bool, []error) {
	logger := r.logger()
	content, err := r.Host.Read(path)
	if err != nil {
		logger.Warn("Cannot read file", "file", path, "error", err.Error())
		return nil, false, []error{err}
	}

	if r.Cache != nil {
		if diags, ok := r.Cache.Lookup(path, content); ok {
			logger.Debug("Cache hit", "file", path)
			return diags, true, nil
		}
	}

	src, err := r.Host.Parse(path, content)
	if err != nil {
		logger.Warn("Cannot tokenize file", "file", path, "error", err.Error())
		return nil, false, []error{err}
	}

	diags, errs := r.LintSource(src)
	if r.Cache != nil && len(errs) == 0 {
		if err := r.Cache.Store(path, content, diags); err != nil {
			logger.Warn("Cannot store cache entry", "file", path, "error", err.Error())
		}
	}
	return diags, false, errs
}

// LintSource runs every applicable check on one already tokenized file.
// A panicking rule contributes no diagnostics and an error.
func (r *Runner) LintSource(src token.Source) ([]Diagnostic, []error) {
	f := NewFile(src, r.Precise, r.logger())
	if f.Kind == 0 {
		return nil, nil
	}

	var diags []Diagnostic
	var errs []error
	for _, c := range r.Checks {
		if !c.Applies(f.Kind) {
			continue
		}
		if r.Skip != nil && r.Skip(f.Path, c.Rule.ID()) {
			continue
		}
		d, err := r.runCheck(f, c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		diags = append(diags, d...)
	}
	SortDiagnostics(diags)
	return diags, errs
}

func (r *Runner) runCheck(f *File, c Check) (diags []Diagnostic, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger().Error("Rule panicked",
				"rule", c.Rule.ID(),
				"file", f.Path,
				"panic", fmt.Sprintf("%v", p),
				"stack", string(debug.Stack()),
			)
			diags = nil
			err = perrors.Newf(perrors.RuleFailed, "rule %s failed on %s: %v", c.Rule.ID(), f.Path, p)
		}
	}()
	return c.Diagnostics(f, c.Rule.Check(f)), nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}
