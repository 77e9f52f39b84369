package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/config"
	"github.com/indrajit912/vaultsafe/pkg/db"
	"github.com/indrajit912/vaultsafe/pkg/session"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new vault",
	Long: `Initialize a new vault.

Creates the vault directory and database, runs the schema migrations, and
records the key-derivation parameters for your master password. The
password itself is never stored; forget it and the vault is unrecoverable.

Re-running init on an existing vault erases it and every stored credential
after an explicit confirmation.

Example:
  vaultsafe init
  vaultsafe init --name personal --owner "Ada Lovelace" --email ada@example.net`,
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		owner, _ := cmd.Flags().GetString("owner")
		email, _ := cmd.Flags().GetString("email")

		if err := runInit(name, owner, email); err != nil {
			fmt.Fprintf(os.Stderr, "Initialization failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("name", "n", "", "vault name (default: hostname)")
	initCmd.Flags().StringP("owner", "o", "", "owner name (default: current OS user)")
	initCmd.Flags().StringP("email", "e", "", "owner email")
}

func runInit(name, owner, email string) error {
	if _, err := config.EnsureDir(); err != nil {
		return err
	}

	svc, gdb, err := openService()
	if err != nil {
		return err
	}
	if err := db.RunMigrations(gdb); err != nil {
		return err
	}

	ctx := context.Background()
	reinit, err := svc.Initialized(ctx)
	if err != nil {
		return err
	}
	if reinit {
		fmt.Println("A vault already exists here. Re-initializing erases it and every stored credential.")
		if !confirm("Erase the existing vault and start over?") {
			fmt.Println("Initialization cancelled.")
			return nil
		}
		// The old vault's unlock session is useless now.
		_ = session.NewManager().Clear()
	}

	if name == "" {
		if host, err := os.Hostname(); err == nil {
			name = host
		} else {
			name = "vaultsafe"
		}
	}
	if owner == "" {
		owner = currentActor()
	}

	password, err := masterPasswordSource().ReadSecretConfirmed(
		"Master password: ", "Confirm master password: ")
	if err != nil {
		return err
	}

	vlt, err := svc.Initialize(ctx, vault.InitRequest{
		MasterPassword: password,
		Name:           name,
		OwnerName:      owner,
		OwnerEmail:     email,
	})
	if err != nil {
		audit.Log(audit.InitEvent{
			Actor:        currentActor(),
			Reinit:       reinit,
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return err
	}
	audit.Log(audit.InitEvent{
		Actor:     currentActor(),
		VaultUUID: vlt.UUID,
		VaultName: vlt.Name,
		Reinit:    reinit,
		Success:   true,
	})

	fmt.Printf("Vault '%s' initialized (uuid %s)\n", vlt.Name, vlt.UUID)
	fmt.Printf("Database: %s\n", config.Get().ResolvedDatabaseURL())
	fmt.Println("Add your first credential with 'vaultsafe add'.")
	return nil
}
