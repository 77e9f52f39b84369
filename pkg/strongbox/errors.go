package strongbox

import "errors"

// Error messages are deliberately generic: callers can classify a failure
// (wrong key vs corrupted data) but never learn which check tripped or
// which value was involved.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrIntegrity      = errors.New("integrity check failed")
)
