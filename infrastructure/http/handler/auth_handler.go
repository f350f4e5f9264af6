package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fixora/expense-tracker/application/port/inbound"
	"github.com/fixora/expense-tracker/infrastructure/http/middleware"
	"github.com/fixora/expense-tracker/infrastructure/http/response"
)

type AuthHandler struct {
	authUseCase    inbound.AuthUseCase
	authMiddleware *middleware.AuthMiddleware
}

func NewAuthHandler(authUseCase inbound.AuthUseCase, authMiddleware *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{
		authUseCase:    authUseCase,
		authMiddleware: authMiddleware,
	}
}

func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/v1/auth/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/v1/auth/me", h.authMiddleware.RequireAuth(h.Me)).Methods(http.MethodGet)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req inbound.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	loginRes, err := h.authUseCase.Login(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	response.Success(w, http.StatusOK, "success", loginRes)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	me, err := h.authUseCase.Me(r.Context(), middleware.GetUserClaims(r.Context()))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", me)
}
