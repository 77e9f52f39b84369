package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/passgen"
	"github.com/indrajit912/vaultsafe/pkg/secretinput"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <mnemonic>",
	Short: "Update an existing credential",
	Long: `Update a credential addressed by one of its mnemonics.

Only what you name changes: field flags overwrite single fields,
--remove-field drops them, --name renames the credential, and --mnemonic
(repeatable) replaces the whole alias set. Everything else keeps its
current value.

Example:
  vaultsafe update gmail -u newuser@gmail.com
  vaultsafe update gmail --password
  vaultsafe update gmail --remove-field token --remove-field notes
  vaultsafe update gmail -m gmail -m google-main`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runUpdate(cmd, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringP("name", "n", "", "new name for the credential")
	updateCmd.Flags().StringArrayP("mnemonic", "m", nil, "replacement mnemonic (repeatable, replaces the whole set)")
	updateCmd.Flags().StringP("username", "u", "", "new username")
	updateCmd.Flags().String("url", "", "new URL")
	updateCmd.Flags().String("primary-email", "", "new primary email")
	updateCmd.Flags().String("secondary-email", "", "new secondary email")
	updateCmd.Flags().String("notes", "", "new notes")
	updateCmd.Flags().BoolP("password", "p", false, "prompt for a new password")
	updateCmd.Flags().Bool("token", false, "prompt for a new token")
	updateCmd.Flags().Bool("recovery-key", false, "prompt for a new recovery key")
	updateCmd.Flags().Bool("generate", false, "store a generated password instead of prompting")
	updateCmd.Flags().StringArray("remove-field", nil, "field to remove (repeatable)")
}

func runUpdate(cmd *cobra.Command, mnemonic string) error {
	req := vault.UpdateRequest{}

	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		req.Name = &name
	}
	if cmd.Flags().Changed("mnemonic") {
		req.Mnemonics, _ = cmd.Flags().GetStringArray("mnemonic")
	}

	fields := map[model.Field]string{}
	for flag, f := range map[string]model.Field{
		"username":        model.FieldUsername,
		"url":             model.FieldURL,
		"primary-email":   model.FieldPrimaryEmail,
		"secondary-email": model.FieldSecondaryEmail,
		"notes":           model.FieldNotes,
	} {
		if value, _ := cmd.Flags().GetString(flag); value != "" {
			fields[f] = value
		}
	}

	promptPassword, _ := cmd.Flags().GetBool("password")
	generate, _ := cmd.Flags().GetBool("generate")
	if promptPassword && generate {
		return fmt.Errorf("--password and --generate are mutually exclusive")
	}

	terminal := secretinput.Terminal{}
	if generate {
		password, err := passgen.Generate(passgen.DefaultLength)
		if err != nil {
			return err
		}
		fields[model.FieldPassword] = password
	} else if promptPassword {
		password, err := terminal.ReadSecretConfirmed("New password: ", "Confirm new password: ")
		if err != nil {
			return err
		}
		fields[model.FieldPassword] = password
	}
	if promptToken, _ := cmd.Flags().GetBool("token"); promptToken {
		token, err := terminal.ReadSecretConfirmed("New token: ", "Confirm new token: ")
		if err != nil {
			return err
		}
		fields[model.FieldToken] = token
	}
	if promptRecoveryKey, _ := cmd.Flags().GetBool("recovery-key"); promptRecoveryKey {
		recoveryKey, err := terminal.ReadSecretConfirmed("New recovery key: ", "Confirm new recovery key: ")
		if err != nil {
			return err
		}
		fields[model.FieldRecoveryKey] = recoveryKey
	}
	if len(fields) > 0 {
		req.Fields = fields
	}

	removeNames, _ := cmd.Flags().GetStringArray("remove-field")
	remove, err := parseFields(removeNames)
	if err != nil {
		return err
	}
	req.RemoveFields = remove

	if req.Name == nil && req.Mnemonics == nil && req.Fields == nil && len(req.RemoveFields) == 0 {
		return fmt.Errorf("nothing to update; see 'vaultsafe update --help'")
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

	cred, err := svc.Update(ctx, key, mnemonic, req)

	event := audit.CredentialEvent{
		Actor:     currentActor(),
		Mnemonic:  mnemonic,
		Operation: "update",
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		audit.Log(event)
		return err
	}
	event.Name = cred.Name
	audit.Log(event)

	fmt.Println("Credential updated.")
	printCredential(cred)
	return nil
}
