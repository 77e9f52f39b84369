package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the unlock session",
	Long: `Manage the resumable unlock session.

After a successful unlock, commands can reuse a short-lived session
instead of re-prompting for the master password (when the vault has
session-check enabled). The session is a signed token on disk whose key
material lives in the OS keyring.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'session' requires a subcommand (show, clear)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
