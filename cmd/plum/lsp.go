package main

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"plum/internal/config"
	"plum/internal/cparse"
	"plum/internal/lexer"
	"plum/internal/lint"
	"plum/internal/lsp"
	"plum/internal/paths"
	"plum/internal/rules"
	"plum/internal/version"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on stdio",
		Long: `Run a Language Server Protocol server on stdin and stdout. Open buffers are
checked on open, change and save, and the diagnostics are published to the
editor. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.projectRoot()
			if err != nil {
				return err
			}
			cfg, err := a.loadConfig(root)
			if err != nil {
				return err
			}
			logger := a.logger(cfg, root)
			profile, err := config.LoadProfile(paths.Resolve(root, cfg.Profile))
			if err != nil {
				return err
			}
			checks, err := rules.Build(profile.Options(nil))
			if err != nil {
				return err
			}

			runner := &lint.Runner{
				Checks: checks,
				Host:   lexer.NewHost(logger),
				Logger: logger,
				Skip:   profile.Skip(root),
			}
			if cfg.Precise && cparse.IsAvailable() {
				runner.Precise = cparse.New()
			}

			// glsp logs through commonlog, quiet unless -vv
			commonlog.Configure(max(a.verbosity-1, -1), nil)
			return lsp.NewServer(runner, version.Version, logger).RunStdio()
		},
	}
}
