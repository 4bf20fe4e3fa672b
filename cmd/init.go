package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtfdocs/rtfd/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize rtfd configuration with an interactive wizard",
	Long:  `Runs an interactive wizard and writes the answers to the config file (.rtfd.yml by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (base dir %s)\n", cfgFile, cfg.BaseDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
