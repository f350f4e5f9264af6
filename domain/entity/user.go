package entity

import (
	"time"

	"github.com/fixora/expense-tracker/domain/valueobject"
)

type User struct {
	ID           string           `json:"id"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Username     string           `json:"username"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"-"`
	Role         valueobject.Role `json:"role"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewUser builds a user, rejecting any role outside the closed role set.
func NewUser(id, username, email, passwordHash, role string) (*User, error) {
	parsed, err := valueobject.ParseRole(role)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         parsed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) IsAdmin() bool {
	return u.Role == valueobject.RoleAdmin
}
