package user_management

import (
	"context"
	"errors"
	"time"

	"github.com/fixora/expense-tracker/application/port/inbound"
	"github.com/fixora/expense-tracker/application/port/outbound"
	"github.com/fixora/expense-tracker/domain/entity"
	apperr "github.com/fixora/expense-tracker/domain/error"
)

type GetUserDetailUseCase struct {
	userRepo outbound.UserRepository
}

func NewGetUserDetailUseCase(userRepo outbound.UserRepository) *GetUserDetailUseCase {
	return &GetUserDetailUseCase{
		userRepo: userRepo,
	}
}

// Execute loads a user. Callers must have checked access to userID first.
func (uc *GetUserDetailUseCase) Execute(ctx context.Context, userID string) (*inbound.UserDetailResponse, error) {
	if userID == "" {
		return nil, apperr.ErrInvalidRequest("user ID cannot be empty")
	}

	user, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return nil, apperr.ErrUserNotFound(userID)
		}
		return nil, apperr.ErrDatabaseError("find user by id", err)
	}

	return toDetail(user), nil
}

func toDetail(user *entity.User) *inbound.UserDetailResponse {
	return &inbound.UserDetailResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
