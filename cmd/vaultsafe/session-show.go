package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/session"
)

// sessionShowCmd represents the session show command
var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the unlock session status",
	Long: `Show whether a usable unlock session exists and when it expires.
No key material is displayed or touched.

Example:
  vaultsafe session show`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSessionShow(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show session: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
}

func runSessionShow() error {
	status, err := session.NewManager().Describe()
	if err != nil {
		return err
	}

	if !status.Active {
		fmt.Println("No active unlock session.")
		return nil
	}

	fmt.Println("Unlock session: active")
	fmt.Printf("Vault UUID: %s\n", status.VaultUUID)
	fmt.Printf("Issued:     %s\n", status.IssuedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Expires:    %s\n", status.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}
