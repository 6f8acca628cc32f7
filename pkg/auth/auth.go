package auth

import (
	"strings"
	"unicode/utf8"

	"github.com/klokku/cleancal/internal/errs"
)

// MinCredentialLength is enforced locally before any credential exchange.
const MinCredentialLength = 3

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate rejects credentials that must never be sent to the backend.
func (c Credentials) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(c.Username)) < MinCredentialLength || utf8.RuneCountInString(c.Password) < MinCredentialLength {
		return errs.Validation("username and password must be at least %d characters long", MinCredentialLength)
	}
	return nil
}
