package secretinput

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"
)

// ErrMismatch is returned when a confirmed read gives up after repeated
// mismatching entries.
var ErrMismatch = errors.New("entries did not match")

// Source supplies secret values. The vault core never prompts; commands
// and handlers inject whichever Source suits the invocation.
type Source interface {
	// ReadSecret obtains one secret value.
	ReadSecret(prompt string) (string, error)
	// ReadSecretConfirmed obtains a secret entered twice, re-prompting
	// until both entries agree.
	ReadSecretConfirmed(prompt, confirm string) (string, error)
}

// confirmAttempts bounds how often Terminal re-prompts on mismatch.
const confirmAttempts = 3

// Terminal reads secrets from the controlling terminal without echo.
type Terminal struct{}

var _ Source = Terminal{}

// ReadSecret prints the prompt and reads a line with echo disabled.
func (Terminal) ReadSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(secret), nil
}

// ReadSecretConfirmed prompts twice and re-prompts on mismatch.
func (t Terminal) ReadSecretConfirmed(prompt, confirm string) (string, error) {
	for i := 0; i < confirmAttempts; i++ {
		first, err := t.ReadSecret(prompt)
		if err != nil {
			return "", err
		}
		second, err := t.ReadSecret(confirm)
		if err != nil {
			return "", err
		}
		if first == second {
			return first, nil
		}
		fmt.Fprintln(os.Stderr, "Entries did not match, try again.")
	}
	return "", ErrMismatch
}

// Static serves queued values in order, for tests and non-interactive
// automation (environment-supplied passwords).
type Static struct {
	values []string
}

var _ Source = (*Static)(nil)

// NewStatic returns a Source that hands out the given values one per read.
func NewStatic(values ...string) *Static {
	return &Static{values: values}
}

func (s *Static) next() (string, error) {
	if len(s.values) == 0 {
		return "", errors.New("no more queued secrets")
	}
	value := s.values[0]
	s.values = s.values[1:]
	return value, nil
}

func (s *Static) ReadSecret(prompt string) (string, error) {
	return s.next()
}

// ReadSecretConfirmed consumes a single queued value; queued input needs
// no confirmation round.
func (s *Static) ReadSecretConfirmed(prompt, confirm string) (string, error) {
	return s.next()
}
