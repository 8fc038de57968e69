package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the checkpoint cache",
	}

	dirCmd := &cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, ".")
			if err != nil {
				return err
			}
			path, err := cacheDir(s.cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached checkpoint table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, ".")
			if err != nil {
				return err
			}
			cache, err := openCache(s.cfg)
			if err != nil {
				return err
			}
			if err := cache.DropAll(); err != nil {
				return err
			}
			if !s.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", cache.Dir())
			}
			return nil
		},
	}

	cmd.AddCommand(dirCmd, clearCmd)
	return cmd
}
