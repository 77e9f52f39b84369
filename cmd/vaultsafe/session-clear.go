package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/session"
)

// sessionClearCmd represents the session clear command
var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Destroy the unlock session",
	Long: `Destroy the unlock session: the token file and the keyring entry.
The next command will prompt for the master password again. Clearing
when no session exists is not an error.

Example:
  vaultsafe session clear`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSessionClear(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to clear session: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Unlock session cleared.")
	},
}

func init() {
	sessionCmd.AddCommand(sessionClearCmd)
}

func runSessionClear() error {
	err := session.NewManager().Clear()

	event := audit.SessionEvent{
		Actor:     currentActor(),
		Operation: "clear",
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)

	return err
}

// clearSessionQuietly drops the unlock session without failing the caller;
// used when a settings change makes the session useless.
func clearSessionQuietly() error {
	if err := session.NewManager().Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not clear unlock session: %v\n", err)
		return err
	}
	return nil
}
