package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticJWKS struct {
	body []byte
	err  error
}

func (s staticJWKS) JWKSJSON() ([]byte, error) { return s.body, s.err }

func TestJWKSHandler(t *testing.T) {
	doc := []byte(`{"keys":[{"kty":"RSA","kid":"k"}]}`)
	h := NewJWKSHandler(staticJWKS{body: doc}, nil)

	tests := []struct {
		method string
		status int
		body   string
	}{
		{method: http.MethodGet, status: http.StatusOK, body: string(doc)},
		{method: http.MethodHead, status: http.StatusOK, body: ""},
		{method: http.MethodPost, status: http.StatusMethodNotAllowed},
		{method: http.MethodDelete, status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, JWKSPath, nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
				assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			} else {
				assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
			}
		})
	}
}

func TestJWKSHandler_SourceError(t *testing.T) {
	h := NewJWKSHandler(staticJWKS{err: errors.New("encode failed")}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, JWKSPath, nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "encode failed")
}
