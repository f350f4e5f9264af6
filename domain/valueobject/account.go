package valueobject

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,50}$`)

	upperRegex   = regexp.MustCompile(`[A-Z]`)
	lowerRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex   = regexp.MustCompile(`[0-9]`)
	specialRegex = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>_\-]`)
)

// bcrypt ignores input past 72 bytes.
const MaxPasswordBytes = 72

func ValidEmail(email string) bool {
	if email == "" {
		return false
	}

	// net/mail accepts display names and quoted locals; the regex narrows it
	// to a bare address.
	if _, err := mail.ParseAddress(email); err != nil {
		return false
	}
	return emailRegex.MatchString(strings.ToLower(email))
}

func ValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// StrongPassword requires 8 to MaxPasswordBytes bytes with upper and lower
// case letters, a digit and a special character.
func StrongPassword(password string) bool {
	if len(password) < 8 || len(password) > MaxPasswordBytes {
		return false
	}
	return upperRegex.MatchString(password) &&
		lowerRegex.MatchString(password) &&
		digitRegex.MatchString(password) &&
		specialRegex.MatchString(password)
}
