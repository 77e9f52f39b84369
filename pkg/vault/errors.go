package vault

import (
	"fmt"
	"strings"
)

// ValidationError reports a request rejected before touching the database.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// DuplicateMnemonicError rejects an operation that would register aliases
// already owned by another credential. It names every offending alias; the
// operation it aborts leaves no partial state behind.
type DuplicateMnemonicError struct {
	Aliases []string
}

func (e *DuplicateMnemonicError) Error() string {
	return fmt.Sprintf("mnemonic(s) already in use: %s", strings.Join(e.Aliases, ", "))
}
