package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"plum/internal/config"
	"plum/internal/cparse"
	"plum/internal/discovery"
	perrors "plum/internal/errors"
	"plum/internal/lexer"
	"plum/internal/lint"
	"plum/internal/output"
	"plum/internal/paths"
	"plum/internal/rules"
	"plum/internal/storage"
	"plum/internal/version"
)

// checkOptions are the flags of `plum check`, also accepted by `plum`.
type checkOptions struct {
	format   string
	noIgnore bool
	noStatus bool
	noCache  bool
	workers  int
	rules    []string
	failOn   string
	noColor  bool
	output   string
}

func (o *checkOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.format, "format", "", "Report format: human, json, yaml, sarif (default: from config)")
	f.BoolVar(&o.noIgnore, "no-ignore", false, "Do not ignore files listed in .gitignore and .plumignore")
	f.BoolVar(&o.noStatus, "no-status", false, "Always exit with status 0 when the check ran")
	f.BoolVar(&o.noCache, "no-cache", false, "Do not read or write the result cache")
	f.IntVar(&o.workers, "workers", 0, "Files checked in parallel (default: from config, or one per CPU)")
	f.StringSliceVar(&o.rules, "rules", nil, "Only run these rule ids, comma separated (e.g. C-F3,C-L2)")
	f.StringVar(&o.failOn, "fail-on", "", "Lowest severity that fails the run: info, minor, major, fatal (default: any)")
	f.BoolVar(&o.noColor, "no-color", false, "Disable colors in the human report")
	f.StringVarP(&o.output, "output", "o", "", "Write the report to this file instead of stdout")
}

func newCheckCmd(a *app) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check files against the coding style",
		Long: `Check C sources, headers and Makefiles against the coding style.

Directories are walked recursively, skipping tests, bonus and .git as well as
the files listed in .gitignore and .plumignore. Files given explicitly are
always checked.

Exit status is 1 when a diagnostic at or above --fail-on was reported, 0
otherwise, and 2 on usage or configuration errors.

Examples:
  plum check
  plum check src include --format json
  plum check --rules C-F3,C-L2 --fail-on major
  plum check --format sarif -o plum.sarif`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), a, opts, args)
		},
	}
	opts.register(cmd)
	return cmd
}

func runCheck(ctx context.Context, a *app, opts *checkOptions, args []string) error {
	root, err := a.projectRoot()
	if err != nil {
		return err
	}
	cfg, err := a.loadConfig(root)
	if err != nil {
		return err
	}
	logger := a.logger(cfg, root)

	format := cfg.Output.Format
	if opts.format != "" {
		format = opts.format
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return perrors.New(perrors.ConfigInvalid, "invalid --format", err)
	}
	threshold := lint.LevelInfo
	if opts.failOn != "" {
		level, ok := lint.ParseLevel(opts.failOn)
		if !ok {
			return perrors.Newf(perrors.ConfigInvalid, "invalid --fail-on %q (valid: info, minor, major, fatal)", opts.failOn)
		}
		threshold = level
	}
	if opts.workers < 0 {
		return perrors.Newf(perrors.ConfigInvalid, "invalid --workers %d", opts.workers)
	}

	profile, err := config.LoadProfile(paths.Resolve(root, cfg.Profile))
	if err != nil {
		return err
	}
	checks, err := rules.Build(profile.Options(ruleIDs(opts.rules)))
	if err != nil {
		return err
	}

	files, err := discovery.Discover(ctx, discovery.Options{
		Root:          root,
		IgnoredDirs:   cfg.Discovery.IgnoredDirs,
		UseGitignore:  cfg.Discovery.UseGitignore && !opts.noIgnore,
		UsePlumignore: cfg.Discovery.UsePlumignore && !opts.noIgnore,
		Include:       cfg.Discovery.Include,
		Logger:        logger,
	}, args)
	if err != nil {
		return perrors.New(perrors.FileUnreadable, "cannot discover files", err)
	}
	logger.Debug("Discovered files", "count", len(files), "root", root)

	workers := cfg.EffectiveWorkers()
	if opts.workers > 0 {
		workers = opts.workers
	}
	runner := &lint.Runner{
		Checks:  checks,
		Host:    lexer.NewHost(logger),
		Logger:  logger,
		Workers: workers,
		Skip:    profile.Skip(root),
	}
	if cfg.Precise && cparse.IsAvailable() {
		runner.Precise = cparse.New()
	}
	if cfg.Cache.Enabled && !opts.noCache {
		db, err := storage.Open(paths.Resolve(root, cfg.Cache.Path), logger)
		if err != nil {
			logger.Warn("Result cache disabled", "error", err.Error())
		} else {
			defer db.Close()
			runner.Cache = storage.NewResultCache(db, storage.RulesetHash(checks, rulesetVersion(runner)), logger).
				WithSkip(checkIDs(checks), runner.Skip)
		}
	}

	res, err := runner.Run(ctx, files)
	if err != nil {
		return err
	}

	report := output.NewReport(res.Diagnostics, output.ReportOptions{
		Root:         root,
		Version:      version.Version,
		FilesChecked: res.Files,
		Errors:       res.Errors,
	})
	color := cfg.Output.Color && !opts.noColor && opts.output == "" && isTerminal(a.stdout)
	if err := writeReport(a.stdout, opts.output, f, report, output.WriteOptions{
		Color: color,
		Rules: ruleInfos(checks),
	}); err != nil {
		return err
	}

	if opts.noStatus {
		return nil
	}
	if res.Tally().AtLeast(threshold) > 0 {
		return &exitError{code: exitFindings}
	}
	return nil
}

// ruleIDs normalizes the --rules selection.
func ruleIDs(only []string) []string {
	ids := make([]string, 0, len(only))
	for _, id := range only {
		if id = strings.ToUpper(strings.TrimSpace(id)); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// rulesetVersion keys cached results to the build and resolver in use.
func rulesetVersion(r *lint.Runner) string {
	if r.Precise != nil {
		return version.Info() + "+precise"
	}
	return version.Info()
}

func checkIDs(checks []lint.Check) []string {
	ids := make([]string, len(checks))
	for i, c := range checks {
		ids[i] = c.Rule.ID()
	}
	return ids
}

func ruleInfos(checks []lint.Check) []output.RuleInfo {
	infos := make([]output.RuleInfo, len(checks))
	for i, c := range checks {
		infos[i] = output.RuleInfo{ID: c.Rule.ID(), Description: c.Description, Severity: c.Severity}
	}
	return infos
}

func writeReport(stdout io.Writer, path string, f output.Format, r *output.Report, opts output.WriteOptions) error {
	if path == "" {
		return output.Write(stdout, f, r, opts)
	}
	file, err := os.Create(path)
	if err != nil {
		return perrors.New(perrors.FileUnreadable, "cannot create "+path, err)
	}
	if err := output.Write(file, f, r, opts); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
