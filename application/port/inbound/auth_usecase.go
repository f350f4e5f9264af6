package inbound

import (
	"context"

	"github.com/fixora/expense-tracker/domain/valueobject"
)

// LoginRequest accepts either a username or an email address as login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int64    `json:"expires_in"`
	User      UserInfo `json:"user"`
}

type AuthUseCase interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, claims *valueobject.Claims) (*UserInfo, error)
}
