package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show vault metadata and counts",
	Long: `Show the vault's metadata and how many credentials and mnemonics it
holds. Nothing is decrypted and no master password is needed.

Example:
  vaultsafe info`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInfo(); err != nil {
			fmt.Fprintf(os.Stderr, "Info failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo() error {
	svc, _, err := openService()
	if err != nil {
		return err
	}

	info, err := svc.Info(context.Background())
	if err != nil {
		return friendlyVaultError(err)
	}

	vlt := info.Vault
	fmt.Printf("Vault:          %s\n", vlt.Name)
	fmt.Printf("UUID:           %s\n", vlt.UUID)
	fmt.Printf("Owner:          %s", vlt.OwnerName)
	if vlt.OwnerEmail != "" {
		fmt.Printf(" <%s>", vlt.OwnerEmail)
	}
	fmt.Println()
	fmt.Printf("Created:        %s\n", vlt.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("KDF iterations: %d\n", vlt.KDFIterations)
	fmt.Printf("Session check:  %v", vlt.SessionCheck)
	if vlt.SessionCheck {
		fmt.Printf(" (ttl %ds)", vlt.SessionTTL)
	}
	fmt.Println()
	fmt.Println()
	fmt.Printf("Credentials: %d\n", info.Credentials)
	fmt.Printf("Mnemonics:   %d\n", info.Mnemonics)
	return nil
}
