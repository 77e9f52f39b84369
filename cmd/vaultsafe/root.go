package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vaultsafe",
	Short: "Local password vault with envelope encryption",
	Long: `VaultSafe keeps credentials in an encrypted vault on this machine.

Every credential carries its own random data key; field values are
encrypted under that key and the key itself is sealed under a vault key
derived from your master password. Neither the master password nor any
key is ever stored.

Start with 'vaultsafe init', then 'vaultsafe add'.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
