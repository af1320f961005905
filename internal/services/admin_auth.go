package services

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAdminCredentialMissing = errors.New("admin password required")
	ErrAdminCredentialInvalid = errors.New("invalid admin password")
)

// AdminAuthorizer checks the single shared admin secret.
type AdminAuthorizer struct {
	password     []byte
	passwordHash []byte
}

// NewAdminAuthorizer prefers a bcrypt hash when one is configured.
func NewAdminAuthorizer(password, passwordHash string) *AdminAuthorizer {
	a := &AdminAuthorizer{}
	if passwordHash != "" {
		a.passwordHash = []byte(passwordHash)
	} else {
		a.password = []byte(password)
	}
	return a
}

// Authorize picks the explicit parameter when it is non-empty, otherwise the header.
func (a *AdminAuthorizer) Authorize(param, header string) error {
	credential := param
	if credential == "" {
		credential = header
	}
	return a.Check(credential)
}

// Check compares a single credential against the configured secret.
func (a *AdminAuthorizer) Check(credential string) error {
	if credential == "" {
		return ErrAdminCredentialMissing
	}

	if len(a.passwordHash) > 0 {
		if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(credential)); err != nil {
			return ErrAdminCredentialInvalid
		}
		return nil
	}

	// An unset secret never matches.
	if len(a.password) == 0 || subtle.ConstantTimeCompare(a.password, []byte(credential)) != 1 {
		return ErrAdminCredentialInvalid
	}
	return nil
}
