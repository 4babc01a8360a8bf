package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"plum/internal/config"
	"plum/internal/lint"
	"plum/internal/output"
	"plum/internal/paths"
	"plum/internal/rules"
)

// RuleListing is one row of `plum rules`.
type RuleListing struct {
	ID          string         `json:"id" yaml:"id"`
	Severity    lint.Severity  `json:"severity" yaml:"severity"`
	Kinds       string         `json:"kinds" yaml:"kinds"`
	Description string         `json:"description" yaml:"description"`
	Settings    map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`
}

func newRulesCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules enabled by the profile",
		Long: `List the rules of a run with their effective severity, the file kinds they
check and their settings, after the rule profile is applied.`,
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
			profile, err := config.LoadProfile(paths.Resolve(root, cfg.Profile))
			if err != nil {
				return err
			}
			checks, err := rules.Build(profile.Options(nil))
			if err != nil {
				return err
			}
			return writeRules(a, format, listRules(checks))
		},
	}
	cmd.Flags().StringVar(&format, "format", "human", "Output format: human, json, yaml")
	return cmd
}

func listRules(checks []lint.Check) []RuleListing {
	out := make([]RuleListing, 0, len(checks))
	for _, c := range checks {
		l := RuleListing{
			ID:          c.Rule.ID(),
			Severity:    c.Severity,
			Kinds:       c.Kinds.String(),
			Description: c.Description,
		}
		if cfg, ok := c.Rule.(lint.Configurable); ok {
			l.Settings = cfg.DefaultSettings()
		}
		out = append(out, l)
	}
	return out
}

func writeRules(a *app, format string, list []RuleListing) error {
	switch format {
	case "json":
		return output.WriteJSON(a.stdout, list)
	case "yaml":
		return output.WriteYAML(a.stdout, list)
	case "human", "":
	default:
		return fmt.Errorf("unknown format %q (valid: human, json, yaml)", format)
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tSEVERITY\tFILES\tDESCRIPTION")
	for _, l := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.ID, l.Severity, l.Kinds, l.Description)
	}
	return tw.Flush()
}
