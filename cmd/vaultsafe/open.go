package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cli/browser"
	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open <mnemonic>",
	Short: "Open a credential's URL in the browser",
	Long: `Retrieve a credential, display it, and open its url field in the
default web browser. A credential without a url field is only displayed.

Example:
  vaultsafe open gmail`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runOpen(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Open failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}

func runOpen(mnemonic string) error {
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

	cred, err := svc.Get(ctx, key, mnemonic, nil)

	event := audit.CredentialEvent{
		Actor:     currentActor(),
		Mnemonic:  mnemonic,
		Operation: "fetch",
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		audit.Log(event)
		return err
	}
	event.Name = cred.Name
	audit.Log(event)

	printCredential(cred)

	url, ok := cred.Fields[model.FieldURL]
	if !ok {
		fmt.Println("\nThis credential has no url field; nothing to open.")
		return nil
	}

	fmt.Printf("\nOpening %s ...\n", url)
	return browser.OpenURL(url)
}
