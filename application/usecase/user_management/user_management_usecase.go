package user_management

import (
	"context"

	"github.com/fixora/expense-tracker/application/port/inbound"
	"github.com/fixora/expense-tracker/application/port/outbound"
)

type UserManagementUseCaseImpl struct {
	createUserUseCase    *CreateUserUseCase
	getUserDetailUseCase *GetUserDetailUseCase
}

func NewUserManagementUseCase(
	userRepo outbound.UserRepository,
	passwordSvc outbound.PasswordService,
) inbound.UserUseCase {
	return &UserManagementUseCaseImpl{
		createUserUseCase:    NewCreateUserUseCase(userRepo, passwordSvc),
		getUserDetailUseCase: NewGetUserDetailUseCase(userRepo),
	}
}

func (uc *UserManagementUseCaseImpl) CreateUser(ctx context.Context, req inbound.CreateUserRequest) (*inbound.UserDetailResponse, error) {
	return uc.createUserUseCase.Execute(ctx, req)
}

func (uc *UserManagementUseCaseImpl) GetUser(ctx context.Context, userID string) (*inbound.UserDetailResponse, error) {
	return uc.getUserDetailUseCase.Execute(ctx, userID)
}
