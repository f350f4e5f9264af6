package outbound

import "github.com/fixora/expense-tracker/domain/valueobject"

// IssuedToken is the result of a successful issue: the compact token, its
// lifetime in seconds and the claims it carries.
type IssuedToken struct {
	Token     string
	ExpiresIn int64
	Claims    valueobject.Claims
}

// TokenService issues and validates signed access tokens.
//
// Validate never returns an error: malformed, forged, expired and
// not-yet-valid tokens all yield ok == false.
type TokenService interface {
	Issue(subject, username, email string, role valueobject.Role) (*IssuedToken, error)
	Validate(token string) (claims valueobject.Claims, ok bool)
}
