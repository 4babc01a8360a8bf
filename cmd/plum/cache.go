package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plum/internal/paths"
	"plum/internal/storage"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.projectRoot()
			if err != nil {
				return err
			}
			cfg, err := a.loadConfig(root)
			if err != nil {
				return err
			}
			path := paths.Resolve(root, cfg.Cache.Path)
			if !exists(path) {
				fmt.Fprintln(a.stdout, "No result cache.")
				return nil
			}
			db, err := storage.Open(path, a.logger(cfg, root))
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := db.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Cleared %d cached files.\n", n)
			return nil
		},
	})
	return cmd
}
