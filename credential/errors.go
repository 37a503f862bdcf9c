package credential

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("credential: invalid credentials")
	ErrNotConfigured      = errors.New("credential: no user records configured")
)

type (
	// InvalidRecord is a configuration problem with a stored record. It
	// is never returned for a wrong password.
	InvalidRecord struct {
		Username string
		Reason   string
	}
)

func (i InvalidRecord) Error() string {
	return fmt.Sprintf("credential: record for %v is invalid: %v", i.Username, i.Reason)
}
