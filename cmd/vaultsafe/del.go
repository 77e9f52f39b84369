package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
)

// delCmd represents the del command
var delCmd = &cobra.Command{
	Use:     "del <mnemonic>",
	Aliases: []string{"delete"},
	Short:   "Delete a credential",
	Long: `Delete a credential and free all of its mnemonics.

The credential is shown and a confirmation is asked before anything is
removed; --yes skips the confirmation. Deletion requires the master
password even though nothing is decrypted.

Example:
  vaultsafe del gmail
  vaultsafe delete old-bank --yes`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")

		if err := runDel(args[0], yes); err != nil {
			fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(delCmd)
	delCmd.Flags().Bool("yes", false, "delete without asking for confirmation")
}

func runDel(mnemonic string, yes bool) error {
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

	// Nothing is decrypted for a delete; the lookup just shows what is
	// about to go.
	cred, err := svc.Get(ctx, key, mnemonic, []model.Field{})
	if err != nil {
		return err
	}

	if !yes {
		fmt.Printf("Deleting '%s' (mnemonics: %s).\n", cred.Name, strings.Join(cred.Mnemonics, ", "))
		if !confirm("Delete this credential?") {
			fmt.Println("Deletion cancelled.")
			return nil
		}
	}

	deleted, err := svc.Delete(ctx, mnemonic)

	event := audit.CredentialEvent{
		Actor:     currentActor(),
		Mnemonic:  mnemonic,
		Operation: "delete",
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		audit.Log(event)
		return err
	}
	event.Name = deleted.Name
	audit.Log(event)

	fmt.Printf("Deleted '%s' and freed %d mnemonic(s).\n", deleted.Name, len(deleted.Mnemonics))
	return nil
}
