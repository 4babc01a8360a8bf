package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"plum/internal/config"
	perrors "plum/internal/errors"
	"plum/internal/paths"
	"plum/internal/slogutil"
	"plum/internal/version"
)

// Exit statuses
const (
	exitOK       = 0
	exitFindings = 1
	exitUsage    = 2
)

// exitError ends the command with a status but no message.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// app carries the state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	root      string
	verbosity int
	quiet     bool

	factory *slogutil.LoggerFactory
}

func newRootCmd(a *app) *cobra.Command {
	check := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "plum [paths...]",
		Short: "plum - Epitech coding style checker",
		Long: `plum checks C sources, headers and Makefiles against the Epitech coding style.

Without a subcommand it runs "check" on the given paths, or on the current
directory when none is given.`,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), a, check, args)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	cmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	cmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Only log errors")
	cmd.PersistentFlags().StringVar(&a.root, "root", "", "Project root (default: current directory)")
	check.register(cmd)

	cmd.AddCommand(
		newCheckCmd(a),
		newRulesCmd(a),
		newConfigCmd(a),
		newCacheCmd(a),
		newLSPCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

// execute runs the CLI and returns the process exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if a.factory != nil {
		_ = a.factory.Close()
	}
	if err == nil {
		return exitOK
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	for _, fix := range perrors.GetSuggestedFixes(perrors.CodeOf(err)) {
		if fix.Command != "" {
			fmt.Fprintf(stderr, "  try: %s\n", fix.Command)
		} else if fix.Path != "" {
			fmt.Fprintf(stderr, "  check: %s (%s)\n", fix.Path, fix.Description)
		}
	}
	return exitUsage
}

// projectRoot returns the absolute project root.
func (a *app) projectRoot() (string, error) {
	root := a.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", perrors.New(perrors.InternalError, "cannot get current directory", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", perrors.New(perrors.InternalError, "cannot resolve project root", err)
	}
	return abs, nil
}

// loadConfig reads and validates the configuration of root.
func (a *app) loadConfig(root string) (*config.Config, error) {
	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, perrors.New(perrors.ConfigInvalid, "invalid configuration", err)
	}
	return cfg, nil
}

// logger builds the command logger on stderr. -v and -q win over the
// configured level.
func (a *app) logger(cfg *config.Config, root string) *slog.Logger {
	var cliLevel *slog.Level
	if a.verbosity > 0 || a.quiet {
		level := slogutil.LevelFromVerbosity(a.verbosity, a.quiet)
		cliLevel = &level
	}
	opts := slogutil.Options{}
	if cfg != nil {
		opts = slogutil.Options{
			Level:      cfg.Logging.Level,
			Format:     cfg.Logging.Format,
			File:       paths.Resolve(root, cfg.Logging.File),
			MaxSize:    cfg.Logging.MaxSize,
			MaxBackups: cfg.Logging.MaxBackups,
		}
	}
	a.factory = slogutil.NewLoggerFactory(opts, cliLevel)
	return a.factory.Logger(a.stderr)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.stdout, version.Full())
		},
	}
}
