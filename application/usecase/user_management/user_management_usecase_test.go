package user_management

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fixora/expense-tracker/application/port/inbound"
	"github.com/fixora/expense-tracker/application/port/outbound"
	"github.com/fixora/expense-tracker/domain/entity"
	apperr "github.com/fixora/expense-tracker/domain/error"
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

type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) VerifyPassword(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

func codeOf(t *testing.T, err error) apperr.ErrorCode {
	t.Helper()
	var appErr *apperr.AppError
	require.True(t, errors.As(err, &appErr), "expected *AppError, got %T", err)
	return appErr.Code
}

func validRequest() inbound.CreateUserRequest {
	return inbound.CreateUserRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     " Ada@Example.com ",
		Password:  "SecurePass123!",
		Role:      "ADMIN",
	}
}

func TestCreateUser_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	hasher := new(MockPasswordService)
	useCase := NewUserManagementUseCase(repo, hasher)

	hasher.On("HashPassword", "SecurePass123!").Return("$2a$hash", nil)
	repo.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Username == "ada" &&
			u.Email == "ada@example.com" &&
			u.PasswordHash == "$2a$hash" &&
			u.Role == valueobject.RoleAdmin &&
			u.ID != ""
	})).Return(nil)

	resp, err := useCase.CreateUser(ctx, validRequest())

	require.NoError(t, err)
	assert.Equal(t, "ada", resp.Username)
	assert.Equal(t, "ADMIN", resp.Role)
	assert.Equal(t, "Ada", resp.FirstName)
	assert.NotEmpty(t, resp.ID)
	repo.AssertExpectations(t)
	hasher.AssertExpectations(t)
}

func TestCreateUser_RejectsBeforeHashing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*inbound.CreateUserRequest)
		code   apperr.ErrorCode
	}{
		{name: "unknown role", mutate: func(r *inbound.CreateUserRequest) { r.Role = "SUPERADMIN" }, code: apperr.ErrCodeInvalidRole},
		{name: "lowercase role", mutate: func(r *inbound.CreateUserRequest) { r.Role = "admin" }, code: apperr.ErrCodeInvalidRole},
		{name: "bad email", mutate: func(r *inbound.CreateUserRequest) { r.Email = "not-an-email" }, code: apperr.ErrCodeInvalidRequest},
		{name: "weak password", mutate: func(r *inbound.CreateUserRequest) { r.Password = "password" }, code: apperr.ErrCodeInvalidRequest},
		{name: "bad username", mutate: func(r *inbound.CreateUserRequest) { r.Username = "a b" }, code: apperr.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			hasher := new(MockPasswordService)
			req := validRequest()
			tt.mutate(&req)

			_, err := NewCreateUserUseCase(repo, hasher).Execute(context.Background(), req)

			assert.Equal(t, tt.code, codeOf(t, err))
			hasher.AssertNotCalled(t, "HashPassword", mock.Anything)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	hasher := new(MockPasswordService)
	hasher.On("HashPassword", mock.Anything).Return("$2a$hash", nil)
	repo.On("Create", ctx, mock.Anything).Return(outbound.ErrUserAlreadyExists)

	_, err := NewCreateUserUseCase(repo, hasher).Execute(ctx, validRequest())

	assert.Equal(t, apperr.ErrCodeUserExists, codeOf(t, err))
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.On("FindByID", ctx, "u1").Return(&entity.User{
		ID:        "u1",
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      valueobject.RoleUser,
		CreatedAt: created,
	}, nil)
	repo.On("FindByID", ctx, "missing").Return(nil, outbound.ErrUserNotFound)
	repo.On("FindByID", ctx, "broken").Return(nil, errors.New("timeout"))
	useCase := NewGetUserDetailUseCase(repo)

	resp, err := useCase.Execute(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "2026-03-01T10:00:00Z", resp.CreatedAt)

	_, err = useCase.Execute(ctx, "missing")
	assert.Equal(t, apperr.ErrCodeUserNotFound, codeOf(t, err))

	_, err = useCase.Execute(ctx, "broken")
	assert.Equal(t, apperr.ErrCodeDatabaseError, codeOf(t, err))

	_, err = useCase.Execute(ctx, "")
	assert.Equal(t, apperr.ErrCodeInvalidRequest, codeOf(t, err))
}
