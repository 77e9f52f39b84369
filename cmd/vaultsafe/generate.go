package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/passgen"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate strong random passwords",
	Long: `Generate strong random passwords.

Passwords are drawn with crypto/rand from letters, digits and the
symbols @#$-%&. Nothing is stored; pair with 'vaultsafe add --generate'
to store one directly.

Example:
  vaultsafe generate
  vaultsafe generate -l 32 -c 5`,
	Run: func(cmd *cobra.Command, args []string) {
		length, _ := cmd.Flags().GetInt("length")
		count, _ := cmd.Flags().GetInt("count")

		passwords, err := passgen.GenerateMany(length, count)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Generate failed: %v\n", err)
			os.Exit(1)
		}
		for _, p := range passwords {
			fmt.Println(p)
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntP("length", "l", passgen.DefaultLength, "password length")
	generateCmd.Flags().IntP("count", "c", 1, "how many passwords to generate")
}
