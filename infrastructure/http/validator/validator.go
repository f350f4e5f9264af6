package validator

import "strings"

// ValidateJWT only checks the compact shape: three non-empty dot-separated
// segments. Signature checks belong to the token service.
func ValidateJWT(token string) bool {
	if token == "" {
		return false
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}
