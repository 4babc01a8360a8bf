package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"plum/internal/config"
	perrors "plum/internal/errors"
	"plum/internal/output"
	"plum/internal/paths"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage plum configuration",
		Long:  "View and manage the configuration stored in .plum/config.json and .plum/profile.toml",
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration and rule profile",
		Long: `Creates .plum/config.json and .plum/profile.toml with default values in the
project root. Existing files are kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.projectRoot()
			if err != nil {
				return err
			}
			return initConfig(a, root, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")
	return cmd
}

func initConfig(a *app, root string, force bool) error {
	cfg := config.DefaultConfig()
	configPath := paths.ConfigPath(root)
	profilePath := paths.Resolve(root, cfg.Profile)

	wrote := 0
	if force || !exists(configPath) {
		if err := cfg.Save(root); err != nil {
			return perrors.New(perrors.InternalError, "cannot write "+configPath, err)
		}
		fmt.Fprintf(a.stdout, "Wrote %s\n", paths.Display(configPath, root))
		wrote++
	}
	if force || !exists(profilePath) {
		if err := config.SaveProfile(config.DefaultProfile(), profilePath); err != nil {
			return perrors.New(perrors.InternalError, "cannot write "+profilePath, err)
		}
		fmt.Fprintf(a.stdout, "Wrote %s\n", paths.Display(profilePath, root))
		wrote++
	}
	if wrote == 0 {
		fmt.Fprintln(a.stdout, "plum already initialized.")
		fmt.Fprintln(a.stdout, "Run 'plum config init --force' to overwrite.")
	}
	return nil
}

func newConfigShowCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Display the configuration after defaults, .plum/config.json and PLUM_*
environment variables are merged.

Examples:
  plum config show
  plum config show --format json`,
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
			switch format {
			case "json":
				return output.WriteJSON(a.stdout, cfg)
			case "human", "":
				showConfigHuman(a, root, cfg)
				return nil
			}
			return fmt.Errorf("unknown format %q (valid: human, json)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "human", "Output format: human, json")
	return cmd
}

func showConfigHuman(a *app, root string, cfg *config.Config) {
	source := paths.Display(paths.ConfigPath(root), root)
	if !exists(paths.ConfigPath(root)) {
		source = "defaults"
	}
	fmt.Fprintf(a.stdout, "Configuration (%s)\n\n", source)

	rows := map[string]string{
		"workers":                 fmt.Sprintf("%d (effective %d)", cfg.Workers, cfg.EffectiveWorkers()),
		"precise":                 fmt.Sprint(cfg.Precise),
		"profile":                 cfg.Profile,
		"logging.level":           cfg.Logging.Level,
		"logging.format":          cfg.Logging.Format,
		"logging.file":            cfg.Logging.File,
		"output.format":           cfg.Output.Format,
		"output.color":            fmt.Sprint(cfg.Output.Color),
		"discovery.ignoredDirs":   strings.Join(cfg.Discovery.IgnoredDirs, ", "),
		"discovery.useGitignore":  fmt.Sprint(cfg.Discovery.UseGitignore),
		"discovery.usePlumignore": fmt.Sprint(cfg.Discovery.UsePlumignore),
		"discovery.include":       strings.Join(cfg.Discovery.Include, ", "),
		"cache.enabled":           fmt.Sprint(cfg.Cache.Enabled),
		"cache.path":              cfg.Cache.Path,
	}
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.stdout, "  %-24s %s\n", k, rows[k])
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
