package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// vaultUpdateCmd represents the vault update command
var vaultUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update vault metadata and session settings",
	Long: `Update the vault's name, owner, or unlock-session settings. Only the
flags you pass change; key material is untouched (see
'vaultsafe change-master-password' for that).

Session check keeps commands from re-prompting for the master password:
after one unlock a session token, valid for the session TTL, takes its
place. Turning it off also clears any current session.

Example:
  vaultsafe vault update --name personal --owner "Ada Lovelace"
  vaultsafe vault update --session-check y --session-ttl 1800
  vaultsafe vault update --session-check n`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runVaultUpdate(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Vault update failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	vaultCmd.AddCommand(vaultUpdateCmd)
	vaultUpdateCmd.Flags().StringP("name", "n", "", "new vault name")
	vaultUpdateCmd.Flags().StringP("owner", "o", "", "new owner name")
	vaultUpdateCmd.Flags().StringP("email", "e", "", "new owner email")
	vaultUpdateCmd.Flags().String("session-check", "", "enable unlock sessions (y or n)")
	vaultUpdateCmd.Flags().Int("session-ttl", 0, "unlock session lifetime in seconds")
}

func runVaultUpdate(cmd *cobra.Command) error {
	req := vault.UpdateVaultRequest{}
	var changed []string

	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		req.Name = &name
		changed = append(changed, "name")
	}
	if cmd.Flags().Changed("owner") {
		owner, _ := cmd.Flags().GetString("owner")
		req.OwnerName = &owner
		changed = append(changed, "owner_name")
	}
	if cmd.Flags().Changed("email") {
		email, _ := cmd.Flags().GetString("email")
		req.OwnerEmail = &email
		changed = append(changed, "owner_email")
	}
	if cmd.Flags().Changed("session-check") {
		value, _ := cmd.Flags().GetString("session-check")
		switch strings.ToLower(value) {
		case "y", "yes", "true", "1":
			enabled := true
			req.SessionCheck = &enabled
		case "n", "no", "false", "0":
			enabled := false
			req.SessionCheck = &enabled
		default:
			return fmt.Errorf("--session-check takes y or n, got %q", value)
		}
		changed = append(changed, "session_check")
	}
	if cmd.Flags().Changed("session-ttl") {
		ttl, _ := cmd.Flags().GetInt("session-ttl")
		req.SessionTTL = &ttl
		changed = append(changed, "session_ttl")
	}

	if len(changed) == 0 {
		return fmt.Errorf("nothing to update; see 'vaultsafe vault update --help'")
	}

	svc, _, err := openService()
	if err != nil {
		return err
	}

	// Changing the vault requires proving you can unlock it.
	ctx := context.Background()
	key, _, err := unlockVault(ctx, svc)
	if err != nil {
		return friendlyVaultError(err)
	}
	strongbox.Wipe(key)

	updated, err := svc.UpdateVault(ctx, req)

	event := audit.VaultUpdateEvent{
		Actor:   currentActor(),
		Changed: changed,
		Success: err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		audit.Log(event)
		return err
	}
	audit.Log(event)

	if req.SessionCheck != nil && !*req.SessionCheck {
		_ = clearSessionQuietly()
	}

	fmt.Printf("Vault '%s' updated (%s).\n", updated.Name, strings.Join(changed, ", "))
	return nil
}
