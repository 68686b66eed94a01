package main

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sells-group/analyst-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change saved settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Config file:         %s\n", cfg.File)
		fmt.Fprintf(w, "Firecrawl API key:   %s\n", cfg.MaskedAPIKey())
		fmt.Fprintf(w, "Reports directory:   %s\n", cfg.ReportsDir)
		fmt.Fprintf(w, "Default save format: %s\n", cfg.DefaultSaveFormat)
		fmt.Fprintf(w, "Runtime:             %s (%s)\n", cfg.Runtime.Provider, cfg.Runtime.Host)
		fmt.Fprintf(w, "Jina fallback:       %t\n", cfg.Jina.Enabled || cfg.Jina.Key != "")
		fmt.Fprintf(w, "Direct fallback:     %t\n", cfg.Direct.Enabled)
		for _, task := range slices.Sorted(maps.Keys(cfg.PreferredModels)) {
			fmt.Fprintf(w, "Preferred %-10s %s\n", task+":", cfg.PreferredModels[task])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save a setting, e.g. default_save_format json or runtime.host http://gpu:11434",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(cfg.File, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s in %s\n", args[0], cfg.File)
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the config file so defaults apply",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Reset(cfg.File); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", cfg.File)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		abs, err := filepath.Abs(cfg.File)
		if err != nil {
			abs = cfg.File
		}
		fmt.Fprintln(cmd.OutOrStdout(), abs)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configResetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
