package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fixora/expense-tracker/infrastructure/http/response"
	"github.com/fixora/expense-tracker/infrastructure/service/logger"
)

const JWKSPath = "/.well-known/jwks.json"

// JWKSSource renders the public key set.
type JWKSSource interface {
	JWKSJSON() ([]byte, error)
}

type JWKSHandler struct {
	source JWKSSource
	logger logger.Logger
}

func NewJWKSHandler(source JWKSSource, log logger.Logger) *JWKSHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &JWKSHandler{source: source, logger: log}
}

func (h *JWKSHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(JWKSPath, h.ServeHTTP).Methods(http.MethodGet, http.MethodHead)
}

// ServeHTTP writes the raw key set, without the response envelope, since
// JWKS consumers expect the document at the top level.
func (h *JWKSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		response.MethodNotAllowed(w)
		return
	}

	body, err := h.source.JWKSJSON()
	if err != nil {
		h.logger.Error(r.Context(), "Failed to render JWKS", err, nil)
		response.InternalServerError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	w.Write(body)
}
