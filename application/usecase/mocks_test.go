package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fixora/expense-tracker/application/port/outbound"
	"github.com/fixora/expense-tracker/domain/entity"
	"github.com/fixora/expense-tracker/domain/valueobject"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(subject, username, email string, role valueobject.Role) (*outbound.IssuedToken, error) {
	args := m.Called(subject, username, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.IssuedToken), args.Error(1)
}

func (m *MockTokenService) Validate(token string) (valueobject.Claims, bool) {
	args := m.Called(token)
	return args.Get(0).(valueobject.Claims), args.Bool(1)
}

type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) VerifyPassword(password, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}

type MockLoginRecorder struct {
	mock.Mock
}

func (m *MockLoginRecorder) LoginAttempt(outcome string) {
	m.Called(outcome)
}
