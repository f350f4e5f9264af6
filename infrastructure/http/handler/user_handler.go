package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fixora/expense-tracker/application/port/inbound"
	"github.com/fixora/expense-tracker/infrastructure/http/middleware"
	"github.com/fixora/expense-tracker/infrastructure/http/response"
)

const maxBodyBytes = 1 << 20

type UserHandler struct {
	userUseCase    inbound.UserUseCase
	authMiddleware *middleware.AuthMiddleware
}

func NewUserHandler(
	userUseCase inbound.UserUseCase,
	authMiddleware *middleware.AuthMiddleware,
) *UserHandler {
	return &UserHandler{
		userUseCase:    userUseCase,
		authMiddleware: authMiddleware,
	}
}

func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/v1/users/{id}", h.authMiddleware.RequireUserAccess("id", h.GetUser)).Methods(http.MethodGet)
	router.HandleFunc("/v1/admin/users", h.authMiddleware.RequireAdmin(h.CreateUser)).Methods(http.MethodPost)
	router.HandleFunc("/v1/admin/ping", h.authMiddleware.RequireAdmin(h.AdminPing)).Methods(http.MethodGet)
}

// GetUser returns a user's profile. Access is checked by RequireUserAccess.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUseCase.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", user)
}

// CreateUser creates a user with an explicit role. Admin only.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateUserRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	// Ids are always server-assigned over HTTP.
	req.ID = ""

	user, err := h.userUseCase.CreateUser(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "User created", user)
}

func (h *UserHandler) AdminPing(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserClaims(r.Context())
	response.Success(w, http.StatusOK, "pong", map[string]string{"admin_id": claims.Subject})
}
