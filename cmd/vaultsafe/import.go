package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/secretinput"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import credentials from a JSON bundle",
	Long: `Import credentials from a bundle produced by 'vaultsafe export'.

Encrypted bundles ask for the file password chosen at export time, and
the password is checked against the bundle before anything is written.
Every imported credential goes through the normal create path and gets a
fresh data key. Entries whose mnemonics are already taken are skipped
and reported; the rest still import.

Example:
  vaultsafe import ~/Downloads/credentials.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var bundle vault.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("not a credential bundle: %w", err)
	}

	var filePassword string
	if bundle.Metadata.FileEncrypted {
		filePassword, err = secretinput.Terminal{}.ReadSecret("File password: ")
		if err != nil {
			return err
		}
	}

	svc, _, err := openService()
	if err != nil {
		return err
	}

	ctx := context.Background()
	key, _, err := unlockVault(ctx, svc)
	if err != nil {
		return friendlyVaultError(err)
	}
	defer strongbox.Wipe(key)

	report, err := svc.Import(ctx, key, &bundle, filePassword)
	if err != nil {
		audit.Log(audit.TransferEvent{
			Actor:        currentActor(),
			Operation:    "import",
			Encrypted:    bundle.Metadata.FileEncrypted,
			Success:      false,
			ErrorMessage: err.Error(),
		})
		if bundle.Metadata.FileEncrypted && errors.Is(err, strongbox.ErrAuthentication) {
			return fmt.Errorf("wrong file password for this bundle")
		}
		return err
	}

	audit.Log(audit.TransferEvent{
		Actor:     currentActor(),
		Operation: "import",
		Count:     len(report.Imported),
		Skipped:   len(report.Skipped),
		Encrypted: bundle.Metadata.FileEncrypted,
		Success:   true,
	})

	fmt.Printf("Imported %d credential(s).\n", len(report.Imported))
	for _, name := range report.Imported {
		fmt.Printf("  + %s\n", name)
	}
	if len(report.Skipped) > 0 {
		fmt.Printf("Skipped %d credential(s) with mnemonics already in use:\n", len(report.Skipped))
		for _, s := range report.Skipped {
			fmt.Printf("  - %s (%s)\n", s.Name, strings.Join(s.Aliases, ", "))
		}
	}
	return nil
}
