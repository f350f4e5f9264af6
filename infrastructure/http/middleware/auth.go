package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fixora/expense-tracker/application/access"
	"github.com/fixora/expense-tracker/application/port/outbound"
	apperr "github.com/fixora/expense-tracker/domain/error"
	"github.com/fixora/expense-tracker/domain/valueobject"
	"github.com/fixora/expense-tracker/infrastructure/http/response"
	"github.com/fixora/expense-tracker/infrastructure/http/validator"
)

type claimsKey struct{}

type AuthMiddleware struct {
	tokenService outbound.TokenService
	policy       *access.Policy
}

func NewAuthMiddleware(tokenService outbound.TokenService, policy *access.Policy) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		policy:       policy,
	}
}

// RequireAuth validates the bearer token and stores its claims in the
// request context. Every token failure gets the same 401.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, apperr.ErrMissingToken("Authorization header required"))
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			response.Unauthorized(w, apperr.ErrMissingToken("Expected: Bearer <token>"))
			return
		}

		claims, ok := m.tokenService.Validate(token)
		if !ok {
			response.Unauthorized(w, apperr.ErrInvalidToken())
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	}
}

// RequireAdmin ensures that the caller has the ADMIN role.
func (m *AuthMiddleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !m.policy.HasAdminRole(r.Context(), GetUserClaims(r.Context())) {
			response.Forbidden(w, apperr.ErrAccessDenied("admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUserAccess guards routes whose path variable param names a user:
// admins pass, everyone else only for their own id.
func (m *AuthMiddleware) RequireUserAccess(param string, next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		target := mux.Vars(r)[param]
		if !m.policy.CanAccessUserData(r.Context(), target, GetUserClaims(r.Context())) {
			response.Forbidden(w, apperr.ErrAccessDenied("not the owner of this resource"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, validator.ValidateJWT(token)
}

func WithClaims(ctx context.Context, claims valueobject.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, &claims)
}

// GetUserClaims returns the claims stored by RequireAuth, or nil.
func GetUserClaims(ctx context.Context) *valueobject.Claims {
	if claims, ok := ctx.Value(claimsKey{}).(*valueobject.Claims); ok {
		return claims
	}
	return nil
}
