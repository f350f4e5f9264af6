package outbound

// PasswordService hashes credentials and checks them. VerifyPassword reports
// only match or no match.
type PasswordService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool
}
