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

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get [mnemonic]",
	Short: "Retrieve a credential",
	Long: `Retrieve and display a credential by one of its mnemonics.

Without a mnemonic (or with --all) it lists every credential: names,
aliases and which fields are present. The listing decrypts nothing and
needs no master password.

With --field only the named fields are decrypted; everything else stays
sealed.

Example:
  vaultsafe get gmail
  vaultsafe get gmail --field username --field password
  vaultsafe get --all`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		all, _ := cmd.Flags().GetBool("all")
		fieldNames, _ := cmd.Flags().GetStringArray("field")

		if len(args) == 0 || all {
			if err := runList(); err != nil {
				fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if err := runGet(args[0], fieldNames); err != nil {
			fmt.Fprintf(os.Stderr, "Get failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().Bool("all", false, "list every credential (no decryption)")
	getCmd.Flags().StringArray("field", nil, "decrypt only this field (repeatable)")
}

// parseFields turns --field values into the typed field list. A nil result
// means every present field.
func parseFields(names []string) ([]model.Field, error) {
	if len(names) == 0 {
		return nil, nil
	}
	fields := make([]model.Field, 0, len(names))
	for _, name := range names {
		f, err := model.FieldString(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return nil, fmt.Errorf("unknown field %q (one of: %s)", name, strings.Join(model.FieldStrings(), ", "))
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func runGet(mnemonic string, fieldNames []string) error {
	fields, err := parseFields(fieldNames)
	if err != nil {
		return err
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

	cred, err := svc.Get(ctx, key, mnemonic, fields)

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
	return nil
}

func runList() error {
	svc, _, err := openService()
	if err != nil {
		return err
	}

	summaries, err := svc.List(context.Background())
	if err != nil {
		return friendlyVaultError(err)
	}
	if len(summaries) == 0 {
		fmt.Println("No credentials stored yet. Add one with 'vaultsafe add'.")
		return nil
	}

	for i, s := range summaries {
		fields := make([]string, len(s.Fields))
		for j, f := range s.Fields {
			fields[j] = f.String()
		}
		fmt.Printf("%d. %s\n", i+1, s.Name)
		fmt.Printf("   Mnemonics: %s\n", strings.Join(s.Mnemonics, ", "))
		if len(fields) > 0 {
			fmt.Printf("   Fields:    %s\n", strings.Join(fields, ", "))
		}
	}
	fmt.Printf("\n%d credential(s). Use 'vaultsafe get <mnemonic>' to decrypt one.\n", len(summaries))
	return nil
}
