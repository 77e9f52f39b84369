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

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new credential",
	Long: `Add a new credential to the vault.

Plain fields are given on the command line. Secret fields (password,
token, recovery key) are prompted for without echo so they never land in
the shell history; --generate stores a generated password instead of
prompting for one.

Every credential needs at least one mnemonic: a short alias, unique
across the whole vault, that later commands use to address it.

Example:
  vaultsafe add --name Gmail -m gmail -m google -u ada@gmail.com --password
  vaultsafe add --name Netflix -m netflix --generate
  vaultsafe add --name Router -m router --url http://192.168.1.1 --notes "admin login"`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAdd(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Add failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("name", "n", "", "name for the credential")
	addCmd.Flags().StringArrayP("mnemonic", "m", nil, "mnemonic for the credential (repeatable)")
	addCmd.Flags().StringP("username", "u", "", "username for the credential")
	addCmd.Flags().String("url", "", "URL for the credential")
	addCmd.Flags().String("primary-email", "", "primary email associated with the credential")
	addCmd.Flags().String("secondary-email", "", "secondary email associated with the credential")
	addCmd.Flags().String("notes", "", "notes stored along with the credential")
	addCmd.Flags().BoolP("password", "p", false, "prompt for a password")
	addCmd.Flags().Bool("token", false, "prompt for a token")
	addCmd.Flags().Bool("recovery-key", false, "prompt for a recovery key")
	addCmd.Flags().Bool("generate", false, "store a generated password instead of prompting")
}

func runAdd(cmd *cobra.Command) error {
	name, _ := cmd.Flags().GetString("name")
	mnemonics, _ := cmd.Flags().GetStringArray("mnemonic")
	promptPassword, _ := cmd.Flags().GetBool("password")
	promptToken, _ := cmd.Flags().GetBool("token")
	promptRecoveryKey, _ := cmd.Flags().GetBool("recovery-key")
	generate, _ := cmd.Flags().GetBool("generate")

	if promptPassword && generate {
		return fmt.Errorf("--password and --generate are mutually exclusive")
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

	terminal := secretinput.Terminal{}
	if generate {
		password, err := passgen.Generate(passgen.DefaultLength)
		if err != nil {
			return err
		}
		fields[model.FieldPassword] = password
	} else if promptPassword {
		password, err := terminal.ReadSecretConfirmed("Password: ", "Confirm password: ")
		if err != nil {
			return err
		}
		fields[model.FieldPassword] = password
	}
	if promptToken {
		token, err := terminal.ReadSecretConfirmed("Token: ", "Confirm token: ")
		if err != nil {
			return err
		}
		fields[model.FieldToken] = token
	}
	if promptRecoveryKey {
		recoveryKey, err := terminal.ReadSecretConfirmed("Recovery key: ", "Confirm recovery key: ")
		if err != nil {
			return err
		}
		fields[model.FieldRecoveryKey] = recoveryKey
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

	cred, err := svc.Create(ctx, key, vault.CreateRequest{
		Name:      name,
		Mnemonics: mnemonics,
		Fields:    fields,
	})

	event := audit.CredentialEvent{
		Actor:     currentActor(),
		Name:      name,
		Operation: "create",
		Success:   err == nil,
	}
	if len(mnemonics) > 0 {
		event.Mnemonic = mnemonics[0]
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		audit.Log(event)
		return err
	}
	audit.Log(event)

	fmt.Println("Credential added.")
	printCredential(cred)
	return nil
}
