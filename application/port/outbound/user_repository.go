package outbound

import (
	"context"
	"errors"

	"github.com/fixora/expense-tracker/domain/entity"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository is the slice of user persistence the auth core needs.
type UserRepository interface {
	// FindByLogin looks a user up by username, then by email. It returns
	// (nil, nil) when neither matches.
	FindByLogin(ctx context.Context, login string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
}
