package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"

	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/session"
	"github.com/indrajit912/vaultsafe/pkg/store"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// StepsContext holds state shared between step definitions within a single
// scenario.
type StepsContext struct {
	tc      *TestContext
	master  string // password the vault was initialized with
	lastErr error  // outcome of the last "I try to ..." step

	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context.
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions.
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Vault lifecycle
	sc.Step(`^a fresh vault initialized with master password "([^"]*)"$`, s.aFreshVaultInitializedWith)
	sc.Step(`^I add a credential "([^"]*)" with aliases "([^"]*)" and password "([^"]*)"$`, s.iAddACredential)
	sc.Step(`^I try to add a credential "([^"]*)" with aliases "([^"]*)" and password "([^"]*)"$`, s.iTryToAddACredential)
	sc.Step(`^I change the master password from "([^"]*)" to "([^"]*)"$`, s.iChangeTheMasterPassword)

	// Envelope assertions
	sc.Step(`^unlocking with "([^"]*)" and resolving "([^"]*)" decrypts the password "([^"]*)"$`, s.unlockingAndResolvingDecrypts)
	sc.Step(`^unlocking with master password "([^"]*)" fails authentication$`, s.unlockingFailsAuthentication)
	sc.Step(`^the attempt is rejected naming alias "([^"]*)" as taken$`, s.theAttemptIsRejectedNamingAlias)
	sc.Step(`^no credential named "([^"]*)" exists$`, s.noCredentialNamedExists)
	sc.Step(`^resolving "([^"]*)" finds nothing$`, s.resolvingFindsNothing)

	// Unlock sessions
	sc.Step(`^I issue an unlock session with master password "([^"]*)"$`, s.iIssueAnUnlockSession)
	sc.Step(`^resuming the session decrypts the password for "([^"]*)" as "([^"]*)"$`, s.resumingTheSessionDecrypts)
	sc.Step(`^clearing the session leaves nothing to resume$`, s.clearingTheSessionLeavesNothing)

	// Web vault
	sc.Step(`^I log in to the web vault with master password "([^"]*)"$`, s.iLogInToTheWebVault)
	sc.Step(`^the credential listing includes "([^"]*)"$`, s.theCredentialListingIncludes)
	sc.Step(`^fetching "([^"]*)" over the API returns the password "([^"]*)"$`, s.fetchingOverTheAPIReturns)
	sc.Step(`^the login is rejected$`, s.theLoginIsRejected)
	sc.Step(`^the API answers unauthorized for "([^"]*)"$`, s.theAPIAnswersUnauthorized)
	sc.Step(`^the health endpoint reports ok$`, s.theHealthEndpointReportsOk)
}

// Vault lifecycle steps

func (s *StepsContext) aFreshVaultInitializedWith(master string) error {
	// Initialize purges any vault left behind by an earlier scenario.
	_, err := s.tc.Service.Initialize(context.Background(), vault.InitRequest{
		MasterPassword: master,
		Name:           "integration",
		OwnerName:      "godog",
	})
	if err != nil {
		return err
	}
	s.master = master
	return session.NewManager().Clear()
}

func (s *StepsContext) iAddACredential(name, aliases, password string) error {
	key, _, err := s.tc.Service.Unlock(context.Background(), s.master)
	if err != nil {
		return err
	}
	defer strongbox.Wipe(key)

	_, err = s.tc.Service.Create(context.Background(), key, vault.CreateRequest{
		Name:      name,
		Mnemonics: splitAliases(aliases),
		Fields:    map[model.Field]string{model.FieldPassword: password},
	})
	return err
}

func (s *StepsContext) iTryToAddACredential(name, aliases, password string) error {
	s.lastErr = s.iAddACredential(name, aliases, password)
	return nil
}

func (s *StepsContext) iChangeTheMasterPassword(current, next string) error {
	if _, err := s.tc.Service.ChangeMasterPassword(context.Background(), current, next); err != nil {
		return err
	}
	s.master = next
	return nil
}

// Envelope assertion steps

func (s *StepsContext) unlockingAndResolvingDecrypts(master, alias, expected string) error {
	key, _, err := s.tc.Service.Unlock(context.Background(), master)
	if err != nil {
		return fmt.Errorf("unlock failed: %w", err)
	}
	defer strongbox.Wipe(key)

	cred, err := s.tc.Service.Get(context.Background(), key, alias, nil)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", alias, err)
	}
	if got := cred.Fields[model.FieldPassword]; got != expected {
		return fmt.Errorf("expected password %q, got %q", expected, got)
	}
	return nil
}

func (s *StepsContext) unlockingFailsAuthentication(master string) error {
	key, _, err := s.tc.Service.Unlock(context.Background(), master)
	if err == nil {
		strongbox.Wipe(key)
		return fmt.Errorf("unlock with %q should have failed", master)
	}
	if !errors.Is(err, strongbox.ErrAuthentication) {
		return fmt.Errorf("expected authentication failure, got %v", err)
	}
	return nil
}

func (s *StepsContext) theAttemptIsRejectedNamingAlias(alias string) error {
	if s.lastErr == nil {
		return fmt.Errorf("the attempt unexpectedly succeeded")
	}
	var dup *vault.DuplicateMnemonicError
	if !errors.As(s.lastErr, &dup) {
		return fmt.Errorf("expected a duplicate-mnemonic rejection, got %v", s.lastErr)
	}
	for _, taken := range dup.Aliases {
		if taken == alias {
			return nil
		}
	}
	return fmt.Errorf("rejection %v does not name alias %q", dup, alias)
}

func (s *StepsContext) noCredentialNamedExists(name string) error {
	summaries, err := s.tc.Service.List(context.Background())
	if err != nil {
		return err
	}
	for _, summary := range summaries {
		if summary.Name == name {
			return fmt.Errorf("credential %q exists with aliases %v", name, summary.Mnemonics)
		}
	}
	return nil
}

func (s *StepsContext) resolvingFindsNothing(alias string) error {
	key, _, err := s.tc.Service.Unlock(context.Background(), s.master)
	if err != nil {
		return err
	}
	defer strongbox.Wipe(key)

	_, err = s.tc.Service.Get(context.Background(), key, alias, nil)
	if !errors.Is(err, store.ErrMnemonicNotFound) {
		return fmt.Errorf("expected alias %q to be unknown, got %v", alias, err)
	}
	return nil
}

// Unlock session steps

func (s *StepsContext) iIssueAnUnlockSession(master string) error {
	key, vlt, err := s.tc.Service.Unlock(context.Background(), master)
	if err != nil {
		return err
	}
	defer strongbox.Wipe(key)

	return session.NewManager().Issue(vlt, key)
}

func (s *StepsContext) resumingTheSessionDecrypts(alias, expected string) error {
	vlt, err := s.tc.Service.Vault(context.Background())
	if err != nil {
		return err
	}

	key, err := session.NewManager().Load(vlt)
	if err != nil {
		return fmt.Errorf("failed to resume session: %w", err)
	}
	defer strongbox.Wipe(key)

	cred, err := s.tc.Service.Get(context.Background(), key, alias, nil)
	if err != nil {
		return fmt.Errorf("resumed key failed to open %q: %w", alias, err)
	}
	if got := cred.Fields[model.FieldPassword]; got != expected {
		return fmt.Errorf("expected password %q, got %q", expected, got)
	}
	return nil
}

func (s *StepsContext) clearingTheSessionLeavesNothing() error {
	if err := session.NewManager().Clear(); err != nil {
		return err
	}

	vlt, err := s.tc.Service.Vault(context.Background())
	if err != nil {
		return err
	}
	key, err := session.NewManager().Load(vlt)
	if err == nil {
		strongbox.Wipe(key)
		return fmt.Errorf("a cleared session should not resume")
	}
	if !errors.Is(err, session.ErrNoSession) {
		return fmt.Errorf("expected no session, got %v", err)
	}
	return nil
}

func splitAliases(aliases string) []string {
	parts := strings.Split(aliases, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
