package valueobject

import (
	"errors"
	"strings"
)

var (
	ErrMissingLogin    = errors.New("username or email is required")
	ErrMissingPassword = errors.New("password is required")
)

// Credentials is a login attempt. The login may be a username or an email
// address.
type Credentials struct {
	login    string
	password string
}

func NewCredentials(login, password string) (*Credentials, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, ErrMissingLogin
	}
	if password == "" {
		return nil, ErrMissingPassword
	}
	return &Credentials{
		login:    login,
		password: password,
	}, nil
}

func (c *Credentials) Login() string {
	return c.login
}

func (c *Credentials) Password() string {
	return c.password
}

// String never includes the password.
func (c *Credentials) String() string {
	return "Credentials{login=" + c.login + "}"
}
