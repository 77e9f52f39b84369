package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"

	"gorm.io/gorm"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/config"
	"github.com/indrajit912/vaultsafe/pkg/db"
	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/secretinput"
	"github.com/indrajit912/vaultsafe/pkg/session"
	"github.com/indrajit912/vaultsafe/pkg/store"
	gormstore "github.com/indrajit912/vaultsafe/pkg/store/gorm"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// masterPasswordEnv supplies the master password for non-interactive use.
const masterPasswordEnv = "VAULTSAFE_MASTER_PASSWORD"

// openService connects to the configured database and wraps it in the
// vault service. The config file's database_url is honored; environment
// variables override it.
func openService() (*vault.Service, *gorm.DB, error) {
	gdb, err := db.Connect(db.Config{URL: config.Get().ResolvedDatabaseURL()})
	if err != nil {
		return nil, nil, err
	}
	return vault.NewService(gormstore.NewStore(gdb)), gdb, nil
}

// masterPasswordSource reads the master password from the environment when
// set, otherwise from the terminal without echo.
func masterPasswordSource() secretinput.Source {
	if pw := os.Getenv(masterPasswordEnv); pw != "" {
		// Confirmed reads consume one queued value, so this also serves
		// prompts that would ask twice on a terminal.
		return secretinput.NewStatic(pw)
	}
	return secretinput.Terminal{}
}

// unlockVault obtains the vault key. When the vault has session-check
// enabled and a usable unlock session exists, the key comes from there;
// otherwise the master password is read and, on success, a fresh session
// is issued. The caller owns the returned key and must strongbox.Wipe it.
func unlockVault(ctx context.Context, svc *vault.Service) ([]byte, *model.Vault, error) {
	vlt, err := svc.Vault(ctx)
	if err != nil {
		return nil, nil, err
	}

	if vlt.SessionCheck {
		mgr := session.NewManager()
		if key, err := mgr.Load(vlt); err == nil {
			// A master password change keeps the vault uuid but swaps the
			// key check, which orphans outstanding sessions.
			if strongbox.VerifyKey(key, vlt.KeyCheck) == nil {
				audit.Log(audit.SessionEvent{Actor: currentActor(), Operation: "resume", Success: true})
				return key, vlt, nil
			}
			strongbox.Wipe(key)
			_ = mgr.Clear()
		}
	}

	password, err := masterPasswordSource().ReadSecret("Master password: ")
	if err != nil {
		return nil, nil, err
	}

	key, unlocked, err := svc.Unlock(ctx, password)
	if err != nil {
		audit.Log(audit.UnlockEvent{
			Actor:        currentActor(),
			VaultUUID:    vlt.UUID,
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return nil, nil, err
	}
	audit.Log(audit.UnlockEvent{Actor: currentActor(), VaultUUID: unlocked.UUID, Success: true})

	if unlocked.SessionCheck {
		if err := session.NewManager().Issue(unlocked, key); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save unlock session: %v\n", err)
		} else {
			audit.Log(audit.SessionEvent{Actor: currentActor(), Operation: "issue", Success: true})
		}
	}
	return key, unlocked, nil
}

// currentActor names the OS user for audit events.
func currentActor() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

// confirm asks a yes/no question and reads the answer from stdin.
// Anything but y or yes is no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// printCredential writes one decrypted credential to stdout, fields in
// their declaration order.
func printCredential(cred *vault.Credential) {
	fmt.Printf("Name:      %s\n", cred.Name)
	fmt.Printf("UUID:      %s\n", cred.UUID)
	fmt.Printf("Mnemonics: %s\n", strings.Join(cred.Mnemonics, ", "))
	for _, f := range model.FieldValues() {
		if value, ok := cred.Fields[f]; ok {
			fmt.Printf("  %-16s %s\n", f.String()+":", value)
		}
	}
}

// friendlyVaultError rewrites the errors every unlocking command can hit
// into messages that tell the user what to do next.
func friendlyVaultError(err error) error {
	switch {
	case errors.Is(err, store.ErrVaultNotFound):
		return fmt.Errorf("no vault is initialized; run 'vaultsafe init' first")
	case errors.Is(err, strongbox.ErrAuthentication):
		return fmt.Errorf("incorrect master password")
	default:
		return err
	}
}
