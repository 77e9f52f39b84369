package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/config"
)

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration attributes and their sources",
	Long: `Show VaultSafe configuration attributes and their sources.

The values reflect the current state of the configuration sources — the
config file and the environment. A running 'vaultsafe server' keeps its
own loaded copy and may differ until it reloads.

Config file location: ~/.vaultsafe/vaultsafe.yml (or under VAULTSAFE_DIR)

Example:
  vaultsafe config show
  vaultsafe config show --json`,
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")

		if err := runConfigShow(asJSON); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configShowCmd.Flags().Bool("json", false, "output as JSON")
}

func runConfigShow(asJSON bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if asJSON {
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Println(jsonOutput)
		return nil
	}

	fmt.Print(cfg.FormatText())
	return nil
}
