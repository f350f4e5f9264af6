package user_management

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/fixora/expense-tracker/application/port/inbound"
	"github.com/fixora/expense-tracker/application/port/outbound"
	"github.com/fixora/expense-tracker/domain/entity"
	apperr "github.com/fixora/expense-tracker/domain/error"
	"github.com/fixora/expense-tracker/domain/valueobject"
)

type CreateUserUseCase struct {
	userRepo    outbound.UserRepository
	passwordSvc outbound.PasswordService
}

func NewCreateUserUseCase(
	userRepo outbound.UserRepository,
	passwordSvc outbound.PasswordService,
) *CreateUserUseCase {
	return &CreateUserUseCase{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
	}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, req inbound.CreateUserRequest) (*inbound.UserDetailResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validateCreateUserRequest(req); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordSvc.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.ErrInternalServerError("failed to hash password", err)
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	user, err := entity.NewUser(id, req.Username, req.Email, hashedPassword, req.Role)
	if err != nil {
		return nil, apperr.ErrInvalidRole(req.Role)
	}
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, outbound.ErrUserAlreadyExists) {
			return nil, apperr.ErrUserAlreadyExists(req.Username)
		}
		return nil, apperr.ErrDatabaseError("create user", err)
	}

	return toDetail(user), nil
}

func validateCreateUserRequest(req inbound.CreateUserRequest) error {
	if !valueobject.ValidUsername(req.Username) {
		return apperr.ErrInvalidRequest("username must be 3-50 letters, digits, '.', '_' or '-'")
	}
	if !valueobject.ValidEmail(req.Email) {
		return apperr.ErrInvalidRequest("invalid email format")
	}
	if !valueobject.StrongPassword(req.Password) {
		return apperr.ErrInvalidRequest("password must be 8-72 characters with upper, lower, digit and special characters")
	}
	if _, err := valueobject.ParseRole(req.Role); err != nil {
		return apperr.ErrInvalidRole(req.Role)
	}
	return nil
}
