package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/fixora/expense-tracker/domain/error"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{name: "invalid credentials", err: apperr.ErrInvalidCredentials(), status: http.StatusUnauthorized, code: "AUTH_1001", message: "Invalid username, email or password"},
		{name: "user not found", err: apperr.ErrUserNotFound("u1"), status: http.StatusNotFound, code: "AUTH_1002", message: "User not found"},
		{name: "access denied", err: apperr.ErrAccessDenied("admin only"), status: http.StatusForbidden, code: "SEC_7003", message: "Access denied"},
		{name: "conflict", err: apperr.ErrUserAlreadyExists("ada"), status: http.StatusConflict, code: "VALID_2005", message: "User already exists"},
		{name: "database", err: apperr.ErrDatabaseError("find", errors.New("dial tcp: refused")), status: http.StatusServiceUnavailable, code: "DB_5001", message: "Service Unavailable"},
		{name: "plain error", err: errors.New("boom"), status: http.StatusInternalServerError, code: "", message: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			FromError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Status)
			assert.Equal(t, tt.code, env.Code)
			assert.Equal(t, tt.message, env.Message)
			assert.NotContains(t, rec.Body.String(), "refused")
			assert.NotContains(t, rec.Body.String(), "boom")
		})
	}
}

func TestUnauthorizedSetsChallenge(t *testing.T) {
	rec := httptest.NewRecorder()

	Unauthorized(rec, apperr.ErrMissingToken("Authorization header required"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_1004", decode(t, rec).Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, http.StatusOK, "success", map[string]string{"k": "v"})

	env := decode(t, rec)
	assert.True(t, env.Status)
	assert.Equal(t, map[string]interface{}{"k": "v"}, env.Data)
}
