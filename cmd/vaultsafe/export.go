package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/secretinput"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export credentials to a file",
	Long: `Export every credential to a JSON bundle or a plain-text report.

By default the bundle stays encrypted: you choose a file password, each
credential's data key is re-sealed under it, and the field ciphertexts
travel as stored. With --decrypt the file holds plaintext instead —
guard it accordingly.

Only JSON bundles can be imported later; txt is a human-readable report.

Example:
  vaultsafe export
  vaultsafe export -o /tmp -f txt --decrypt`,
	Run: func(cmd *cobra.Command, args []string) {
		outputDir, _ := cmd.Flags().GetString("output-dir")
		fileFormat, _ := cmd.Flags().GetString("file-format")
		decrypt, _ := cmd.Flags().GetBool("decrypt")

		if err := runExport(outputDir, fileFormat, decrypt); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output-dir", "o", defaultExportDir(), "output directory for the exported file")
	exportCmd.Flags().StringP("file-format", "f", "json", "file format for export (json or txt)")
	exportCmd.Flags().BoolP("decrypt", "d", false, "export the data decrypted")
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

func runExport(outputDir, fileFormat string, decrypt bool) error {
	if fileFormat != "json" && fileFormat != "txt" {
		return fmt.Errorf("invalid file format %q: choose json or txt", fileFormat)
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

	summaries, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No credentials to export.")
		return nil
	}

	var filePassword string
	if decrypt {
		fmt.Println("Warning: the exported file will contain every secret in plaintext.")
	} else {
		filePassword, err = secretinput.Terminal{}.ReadSecretConfirmed(
			"File password (needed to import this file later): ",
			"Confirm file password: ")
		if err != nil {
			return err
		}
	}

	bundle, err := svc.Export(ctx, key, vault.ExportOptions{FilePassword: filePassword})
	if err != nil {
		audit.Log(audit.TransferEvent{
			Actor:        currentActor(),
			Operation:    "export",
			Encrypted:    !decrypt,
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return err
	}

	if err := os.MkdirAll(outputDir, 0o700); err != nil {
		return err
	}

	var outputFile string
	switch fileFormat {
	case "json":
		outputFile = filepath.Join(outputDir, "credentials.json")
		data, err := json.MarshalIndent(bundle, "", "    ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputFile, data, 0o600); err != nil {
			return err
		}
	case "txt":
		outputFile = filepath.Join(outputDir, "credentials.txt")
		if err := os.WriteFile(outputFile, []byte(formatBundleText(bundle)), 0o600); err != nil {
			return err
		}
	}

	audit.Log(audit.TransferEvent{
		Actor:     currentActor(),
		Operation: "export",
		Count:     len(bundle.Credentials),
		Encrypted: !decrypt,
		Success:   true,
	})

	fmt.Printf("Exported %d credential(s) to %s\n", len(bundle.Credentials), outputFile)
	if !decrypt {
		fmt.Println("Keep the file password safe; the bundle cannot be imported without it.")
	}
	return nil
}

// formatBundleText renders a bundle as the human-readable report format.
func formatBundleText(bundle *vault.Bundle) string {
	var b strings.Builder

	fmt.Fprintf(&b, "File Encrypted: %v\n", bundle.Metadata.FileEncrypted)
	fmt.Fprintf(&b, "Exported Date: %s\n", bundle.Metadata.ExportedDate)
	if bundle.Metadata.FileKeyHash != "" {
		fmt.Fprintf(&b, "File Key SHA256 Hash: %s\n", bundle.Metadata.FileKeyHash)
	}
	b.WriteString(strings.Repeat("=", 58) + "\n\n")

	value := func(v *string) string {
		if v == nil {
			return "N/A"
		}
		return *v
	}

	for i, cred := range bundle.Credentials {
		fmt.Fprintf(&b, "Credential %d\n", i+1)
		b.WriteString(strings.Repeat("=", 20) + "\n")
		fmt.Fprintf(&b, "UUID: %s\n", cred.UUID)
		fmt.Fprintf(&b, "Name: %s\n", cred.Name)
		fmt.Fprintf(&b, "Mnemonics: %s\n", cred.Mnemonics)
		for _, f := range model.FieldValues() {
			fmt.Fprintf(&b, "%s: %s\n", f.String(), value(cred.FieldValue(f)))
		}
		if cred.EncryptedKey != nil {
			fmt.Fprintf(&b, "encrypted_key: %s\n", *cred.EncryptedKey)
		}
		b.WriteString("\n")
	}
	return b.String()
}
