package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/secretinput"
)

// changeMasterPasswordCmd represents the change-master-password command
var changeMasterPasswordCmd = &cobra.Command{
	Use:   "change-master-password",
	Short: "Change the vault's master password",
	Long: `Change the master password.

Every credential's sealed data key is re-sealed under the key derived
from the new password, in a single transaction; the encrypted field
values themselves are untouched. The vault also gets a fresh KDF salt,
which invalidates any outstanding unlock session.

Example:
  vaultsafe change-master-password`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runChangeMasterPassword(); err != nil {
			fmt.Fprintf(os.Stderr, "Password change failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(changeMasterPasswordCmd)
}

func runChangeMasterPassword() error {
	svc, _, err := openService()
	if err != nil {
		return err
	}

	current, err := masterPasswordSource().ReadSecret("Current master password: ")
	if err != nil {
		return err
	}
	next, err := secretinput.Terminal{}.ReadSecretConfirmed(
		"New master password: ", "Confirm new master password: ")
	if err != nil {
		return err
	}

	resealed, err := svc.ChangeMasterPassword(context.Background(), current, next)

	event := audit.RekeyEvent{
		Actor:    currentActor(),
		Resealed: resealed,
		Success:  err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		audit.Log(event)
		return friendlyVaultError(err)
	}
	audit.Log(event)

	// Sessions sealed under the old key are dead weight now.
	_ = clearSessionQuietly()

	fmt.Printf("Master password changed; %d credential envelope(s) re-sealed.\n", resealed)
	return nil
}
