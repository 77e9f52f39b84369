package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// vaultCmd represents the vault command
var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage the vault itself",
	Long:  `Manage the vault's metadata and session settings.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'vault' requires a subcommand (update)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(vaultCmd)
}
