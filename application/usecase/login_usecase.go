package usecase

import (
	"context"
	"errors"

	"github.com/fixora/expense-tracker/application/access"
	"github.com/fixora/expense-tracker/application/port/inbound"
	"github.com/fixora/expense-tracker/application/port/outbound"
	apperr "github.com/fixora/expense-tracker/domain/error"
	"github.com/fixora/expense-tracker/domain/valueobject"
	"github.com/fixora/expense-tracker/infrastructure/service/logger"
)

const TokenTypeBearer = "Bearer"

// LoginRecorder counts login outcomes.
type LoginRecorder interface {
	LoginAttempt(outcome string)
}

type LoginUseCase struct {
	userRepo        outbound.UserRepository
	tokenService    outbound.TokenService
	passwordService outbound.PasswordService
	logger          logger.Logger
	recorder        LoginRecorder
}

func NewLoginUseCase(
	userRepo outbound.UserRepository,
	tokenService outbound.TokenService,
	passwordService outbound.PasswordService,
	log logger.Logger,
	recorder LoginRecorder,
) *LoginUseCase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &LoginUseCase{
		userRepo:        userRepo,
		tokenService:    tokenService,
		passwordService: passwordService,
		logger:          log,
		recorder:        recorder,
	}
}

// Login authenticates by username or email. Unknown login and wrong password
// produce the same error.
func (uc *LoginUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	credentials, err := valueobject.NewCredentials(req.Login, req.Password)
	if err != nil {
		uc.record("invalid_request")
		if errors.Is(err, valueobject.ErrMissingLogin) {
			return nil, apperr.ErrMissingField(apperr.ErrCodeMissingLogin, "login")
		}
		return nil, apperr.ErrMissingField(apperr.ErrCodeMissingPassword, "password")
	}

	user, err := uc.userRepo.FindByLogin(ctx, credentials.Login())
	if err != nil {
		uc.record("error")
		uc.logger.Error(ctx, "Failed to look up user for login", err, nil)
		return nil, apperr.ErrDatabaseError("find user by login", err)
	}
	if user == nil {
		uc.record("failure")
		logger.LogAuthEvent(ctx, uc.logger, "login", "", false, map[string]interface{}{"reason": "unknown_login"})
		return nil, apperr.ErrInvalidCredentials()
	}

	if !uc.passwordService.VerifyPassword(credentials.Password(), user.PasswordHash) {
		uc.record("failure")
		logger.LogAuthEvent(ctx, uc.logger, "login", user.ID, false, map[string]interface{}{"reason": "password_mismatch"})
		return nil, apperr.ErrInvalidCredentials()
	}

	issued, err := uc.tokenService.Issue(user.ID, user.Username, user.Email, user.Role)
	if err != nil {
		uc.record("error")
		return nil, apperr.ErrInternalServerError("failed to issue access token", err)
	}

	uc.record("success")
	logger.LogAuthEvent(ctx, uc.logger, "login", user.ID, true, map[string]interface{}{"role": string(user.Role)})

	return &inbound.LoginResponse{
		Token:     issued.Token,
		TokenType: TokenTypeBearer,
		ExpiresIn: issued.ExpiresIn,
		User: inbound.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     string(user.Role),
		},
	}, nil
}

// Me describes the authenticated principal from its claims alone.
func (uc *LoginUseCase) Me(ctx context.Context, claims *valueobject.Claims) (*inbound.UserInfo, error) {
	userID, ok := access.CurrentUserID(claims)
	if !ok {
		return nil, apperr.ErrInvalidToken()
	}
	role, _ := access.CurrentRole(claims)

	return &inbound.UserInfo{
		ID:       userID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     string(role),
	}, nil
}

func (uc *LoginUseCase) record(outcome string) {
	if uc.recorder != nil {
		uc.recorder.LoginAttempt(outcome)
	}
}
