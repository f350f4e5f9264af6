package jwt

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fixora/expense-tracker/application/port/outbound"
	"github.com/fixora/expense-tracker/domain/valueobject"
	"github.com/fixora/expense-tracker/infrastructure/config"
	"github.com/fixora/expense-tracker/infrastructure/service/logger"
)

var (
	ErrEmptySubject       = errors.New("token subject must not be empty")
	ErrInvalidConfig      = errors.New("invalid token service configuration")
	errMissingKeyID       = errors.New("missing kid header")
	errUnknownKeyID       = errors.New("unknown kid")
	errMissingClaim       = errors.New("required claim missing")
	errInconsistentClaims = errors.New("inconsistent claims")
	errOutsideWindow      = errors.New("claims not active")
)

// SigningKeys is the read-only view of the process key material.
type SigningKeys interface {
	PrivateKey() *rsa.PrivateKey
	PublicKey() *rsa.PublicKey
	KeyID() string
}

// Recorder receives token outcomes. Implementations must not block.
type Recorder interface {
	TokenIssued(role string)
	TokenRejected(reason string)
}

type nopRecorder struct{}

func (nopRecorder) TokenIssued(string)   {}
func (nopRecorder) TokenRejected(string) {}

// tokenClaims is the wire payload.
type tokenClaims struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// JWTService issues and validates RS256 access tokens. It holds no mutable
// state and is safe for concurrent use.
type JWTService struct {
	keys       SigningKeys
	issuer     string
	audience   string
	expiration time.Duration
	now        func() time.Time
	logger     logger.Logger
	recorder   Recorder
	parser     *jwt.Parser
}

type Option func(*JWTService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

func WithRecorder(r Recorder) Option {
	return func(s *JWTService) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *JWTService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewJWTService(cfg *config.Config, keys SigningKeys, opts ...Option) (*JWTService, error) {
	if keys == nil || keys.PrivateKey() == nil || keys.PublicKey() == nil {
		return nil, fmt.Errorf("%w: key material is required", ErrInvalidConfig)
	}
	if cfg.JWTExpiration <= 0 {
		return nil, fmt.Errorf("%w: expiration must be positive", ErrInvalidConfig)
	}
	if cfg.JWTIssuer == "" || cfg.JWTAudience == "" {
		return nil, fmt.Errorf("%w: issuer and audience are required", ErrInvalidConfig)
	}

	s := &JWTService{
		keys:       keys,
		issuer:     cfg.JWTIssuer,
		audience:   cfg.JWTAudience,
		expiration: cfg.JWTExpiration,
		now:        time.Now,
		logger:     logger.NewNopLogger(),
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithFields(map[string]interface{}{"component": "token_service"})

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	return s, nil
}

// ExpiresIn is the configured token lifetime in seconds.
func (s *JWTService) ExpiresIn() int64 {
	return int64(s.expiration / time.Second)
}

// Issue signs a token for the given principal.
func (s *JWTService) Issue(subject, username, email string, role valueobject.Role) (*outbound.IssuedToken, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, ErrEmptySubject
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: %q", valueobject.ErrInvalidRole, string(role))
	}

	// NumericDate has second precision; truncate so the returned claims
	// equal what Validate will decode.
	now := s.now().Truncate(time.Second)
	expiresAt := now.Add(s.expiration)

	claims := valueobject.Claims{
		Subject:     subject,
		Issuer:      s.issuer,
		Audience:    s.audience,
		IssuedAt:    now,
		NotBefore:   now,
		ExpiresAt:   expiresAt,
		ID:          uuid.NewString(),
		Username:    username,
		Email:       email,
		Role:        role,
		Authorities: valueobject.AuthoritiesFor(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, tokenClaims{
		UserID:      subject,
		Username:    username,
		Email:       email,
		Role:        string(role),
		Authorities: claims.Authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        claims.ID,
		},
	})
	token.Header["kid"] = s.keys.KeyID()

	tokenString, err := token.SignedString(s.keys.PrivateKey())
	if err != nil {
		s.logger.Error(context.Background(), "Failed to sign JWT token", err, nil)
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	s.recorder.TokenIssued(string(role))
	return &outbound.IssuedToken{
		Token:     tokenString,
		ExpiresIn: s.ExpiresIn(),
		Claims:    claims,
	}, nil
}

// Validate verifies signature, algorithm, key id, issuer, audience and the
// validity window. Every failure collapses to ok == false; the reason is
// only logged.
func (s *JWTService) Validate(tokenString string) (claims valueobject.Claims, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.reject("panic", fmt.Errorf("recovered: %v", r))
			claims, ok = valueobject.Claims{}, false
		}
	}()

	parsed := &tokenClaims{}
	_, err := s.parser.ParseWithClaims(tokenString, parsed, s.keyFunc)
	if err != nil {
		s.reject(classify(err), err)
		return valueobject.Claims{}, false
	}

	claims, err = s.toClaims(parsed)
	if err != nil {
		s.reject("claims", err)
		return valueobject.Claims{}, false
	}
	return claims, true
}

// UserID returns the subject of a valid token.
func (s *JWTService) UserID(tokenString string) (string, bool) {
	claims, ok := s.Validate(tokenString)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}

// Role returns the role of a valid token.
func (s *JWTService) Role(tokenString string) (valueobject.Role, bool) {
	claims, ok := s.Validate(tokenString)
	if !ok {
		return "", false
	}
	return claims.Role, true
}

func (s *JWTService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, errMissingKeyID
	}
	if kid != s.keys.KeyID() {
		return nil, errUnknownKeyID
	}
	return s.keys.PublicKey(), nil
}

func (s *JWTService) toClaims(tc *tokenClaims) (valueobject.Claims, error) {
	if tc.Subject == "" || tc.ID == "" || tc.IssuedAt == nil || tc.NotBefore == nil || tc.ExpiresAt == nil {
		return valueobject.Claims{}, errMissingClaim
	}
	if tc.UserID != "" && tc.UserID != tc.Subject {
		return valueobject.Claims{}, errInconsistentClaims
	}
	role, err := valueobject.ParseRole(tc.Role)
	if err != nil {
		return valueobject.Claims{}, err
	}

	claims := valueobject.Claims{
		Subject:     tc.Subject,
		Issuer:      tc.Issuer,
		Audience:    s.audience,
		IssuedAt:    tc.IssuedAt.Time,
		NotBefore:   tc.NotBefore.Time,
		ExpiresAt:   tc.ExpiresAt.Time,
		ID:          tc.ID,
		Username:    tc.Username,
		Email:       tc.Email,
		Role:        role,
		Authorities: tc.Authorities,
	}
	if err := claims.Validate(); err != nil {
		return valueobject.Claims{}, err
	}
	if !claims.ActiveAt(s.now()) {
		return valueobject.Claims{}, errOutsideWindow
	}
	return claims, nil
}

func (s *JWTService) reject(reason string, err error) {
	s.recorder.TokenRejected(reason)
	fields := map[string]interface{}{"reason": reason}
	switch reason {
	case "expired", "not_yet_valid":
		s.logger.Debug(context.Background(), "JWT rejected", fields)
	default:
		fields["detail"] = err.Error()
		s.logger.Warn(context.Background(), "JWT rejected", fields)
	}
}

func classify(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return "not_yet_valid"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "issuer"
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return "audience"
	case errors.Is(err, errMissingKeyID), errors.Is(err, errUnknownKeyID):
		return "key_id"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	default:
		return "invalid"
	}
}
