package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixora/expense-tracker/application/port/inbound"
	"github.com/fixora/expense-tracker/application/port/outbound"
	"github.com/fixora/expense-tracker/application/usecase"
	"github.com/fixora/expense-tracker/domain/entity"
	apperr "github.com/fixora/expense-tracker/domain/error"
	"github.com/fixora/expense-tracker/domain/valueobject"
	"github.com/fixora/expense-tracker/infrastructure/service/logger"
)

type loginFixture struct {
	users    *MockUserRepository
	tokens   *MockTokenService
	password *MockPasswordService
	recorder *MockLoginRecorder
	logs     *bytes.Buffer
	useCase  *usecase.LoginUseCase
}

func newLoginFixture() *loginFixture {
	f := &loginFixture{
		users:    new(MockUserRepository),
		tokens:   new(MockTokenService),
		password: new(MockPasswordService),
		recorder: new(MockLoginRecorder),
		logs:     &bytes.Buffer{},
	}
	log := logger.NewStructuredLogger(logger.LoggerConfig{Level: "debug", Format: "json", Output: f.logs})
	f.useCase = usecase.NewLoginUseCase(f.users, f.tokens, f.password, log, f.recorder)
	return f
}

func (f *loginFixture) assertExpectations(t *testing.T) {
	f.users.AssertExpectations(t)
	f.tokens.AssertExpectations(t)
	f.password.AssertExpectations(t)
	f.recorder.AssertExpectations(t)
}

func alice() *entity.User {
	return &entity.User{
		ID:           "user-123",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed-password",
		Role:         valueobject.RoleUser,
	}
}

func appErrorCode(t *testing.T, err error) apperr.ErrorCode {
	t.Helper()
	var appErr *apperr.AppError
	require.True(t, errors.As(err, &appErr), "expected *AppError, got %T", err)
	return appErr.Code
}

func TestLoginUseCase_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newLoginFixture()
	user := alice()

	f.users.On("FindByLogin", ctx, "alice").Return(user, nil)
	f.password.On("VerifyPassword", "SecurePass123!", "hashed-password").Return(true)
	f.tokens.On("Issue", "user-123", "alice", "alice@example.com", valueobject.RoleUser).
		Return(&outbound.IssuedToken{Token: "signed-token", ExpiresIn: 3600}, nil)
	f.recorder.On("LoginAttempt", "success").Once()

	// Act
	resp, err := f.useCase.Login(ctx, inbound.LoginRequest{Login: "  alice ", Password: "SecurePass123!"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, inbound.UserInfo{ID: "user-123", Username: "alice", Email: "alice@example.com", Role: "USER"}, resp.User)
	assert.NotContains(t, f.logs.String(), "SecurePass123!")
	f.assertExpectations(t)
}

func TestLoginUseCase_ByEmail(t *testing.T) {
	ctx := context.Background()
	f := newLoginFixture()

	f.users.On("FindByLogin", ctx, "alice@example.com").Return(alice(), nil)
	f.password.On("VerifyPassword", "SecurePass123!", "hashed-password").Return(true)
	f.tokens.On("Issue", "user-123", "alice", "alice@example.com", valueobject.RoleUser).
		Return(&outbound.IssuedToken{Token: "signed-token", ExpiresIn: 3600}, nil)
	f.recorder.On("LoginAttempt", "success").Once()

	resp, err := f.useCase.Login(ctx, inbound.LoginRequest{Login: "alice@example.com", Password: "SecurePass123!"})

	require.NoError(t, err)
	assert.Equal(t, "user-123", resp.User.ID)
	f.assertExpectations(t)
}

func TestLoginUseCase_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  inbound.LoginRequest
		code apperr.ErrorCode
	}{
		{name: "missing login", req: inbound.LoginRequest{Login: " ", Password: "x"}, code: apperr.ErrCodeMissingLogin},
		{name: "missing password", req: inbound.LoginRequest{Login: "alice"}, code: apperr.ErrCodeMissingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLoginFixture()
			f.recorder.On("LoginAttempt", "invalid_request").Once()

			resp, err := f.useCase.Login(context.Background(), tt.req)

			assert.Nil(t, resp)
			assert.Equal(t, tt.code, appErrorCode(t, err))
			f.users.AssertNotCalled(t, "FindByLogin")
			f.assertExpectations(t)
		})
	}
}

func TestLoginUseCase_UnknownLoginAndWrongPasswordLookAlike(t *testing.T) {
	ctx := context.Background()

	unknown := newLoginFixture()
	unknown.users.On("FindByLogin", ctx, "nobody").Return(nil, nil)
	unknown.recorder.On("LoginAttempt", "failure").Once()

	_, errUnknown := unknown.useCase.Login(ctx, inbound.LoginRequest{Login: "nobody", Password: "whatever"})

	wrong := newLoginFixture()
	wrong.users.On("FindByLogin", ctx, "alice").Return(alice(), nil)
	wrong.password.On("VerifyPassword", "wrong-password", "hashed-password").Return(false)
	wrong.recorder.On("LoginAttempt", "failure").Once()

	_, errWrong := wrong.useCase.Login(ctx, inbound.LoginRequest{Login: "alice", Password: "wrong-password"})

	assert.Equal(t, apperr.ErrCodeInvalidCredentials, appErrorCode(t, errUnknown))
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
	assert.NotContains(t, wrong.logs.String(), "wrong-password")
	wrong.tokens.AssertNotCalled(t, "Issue")
	unknown.assertExpectations(t)
	wrong.assertExpectations(t)
}

func TestLoginUseCase_RepositoryFailure(t *testing.T) {
	ctx := context.Background()
	f := newLoginFixture()
	f.users.On("FindByLogin", ctx, "alice").Return(nil, errors.New("connection refused"))
	f.recorder.On("LoginAttempt", "error").Once()

	resp, err := f.useCase.Login(ctx, inbound.LoginRequest{Login: "alice", Password: "SecurePass123!"})

	assert.Nil(t, resp)
	assert.Equal(t, apperr.ErrCodeDatabaseError, appErrorCode(t, err))
	f.assertExpectations(t)
}

func TestLoginUseCase_TokenIssueFailure(t *testing.T) {
	ctx := context.Background()
	f := newLoginFixture()
	f.users.On("FindByLogin", ctx, "alice").Return(alice(), nil)
	f.password.On("VerifyPassword", "SecurePass123!", "hashed-password").Return(true)
	f.tokens.On("Issue", "user-123", "alice", "alice@example.com", valueobject.RoleUser).
		Return(nil, errors.New("sign failed"))
	f.recorder.On("LoginAttempt", "error").Once()

	resp, err := f.useCase.Login(ctx, inbound.LoginRequest{Login: "alice", Password: "SecurePass123!"})

	assert.Nil(t, resp)
	assert.Equal(t, apperr.ErrCodeInternalServerError, appErrorCode(t, err))
	f.assertExpectations(t)
}

func TestLoginUseCase_Me(t *testing.T) {
	f := newLoginFixture()

	info, err := f.useCase.Me(context.Background(), &valueobject.Claims{
		Subject:  "user-123",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     valueobject.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, &inbound.UserInfo{ID: "user-123", Username: "alice", Email: "alice@example.com", Role: "ADMIN"}, info)

	_, err = f.useCase.Me(context.Background(), nil)
	assert.Equal(t, apperr.ErrCodeInvalidToken, appErrorCode(t, err))
}
