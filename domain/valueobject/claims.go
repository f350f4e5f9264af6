package valueobject

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingSubject   = errors.New("claims: subject is required")
	ErrInvalidTimeframe = errors.New("claims: expiry must be after issued-at and issued-at must not precede not-before")
)

// Claims is the verified content of an access token. Values are produced by
// the token service and never modified afterwards.
type Claims struct {
	Subject     string
	Issuer      string
	Audience    string
	IssuedAt    time.Time
	NotBefore   time.Time
	ExpiresAt   time.Time
	ID          string
	Username    string
	Email       string
	Role        Role
	Authorities []string
}

// AuthoritiesFor derives the authorities list carried in a token for role.
func AuthoritiesFor(role Role) []string {
	return []string{role.Authority()}
}

// Validate checks the structural invariants of a claims value.
func (c Claims) Validate() error {
	if strings.TrimSpace(c.Subject) == "" {
		return ErrMissingSubject
	}
	if !c.Role.IsValid() {
		return ErrInvalidRole
	}
	if !c.ExpiresAt.After(c.IssuedAt) || c.IssuedAt.Before(c.NotBefore) {
		return ErrInvalidTimeframe
	}
	return nil
}

// ActiveAt reports whether the claims are inside their validity window at t:
// not-before <= t < expiry.
func (c Claims) ActiveAt(t time.Time) bool {
	return !t.Before(c.NotBefore) && t.Before(c.ExpiresAt)
}
