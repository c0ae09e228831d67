package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/platform/auth"
	"github.com/loomhaven/api/internal/services"
)

// UserService is the account surface the auth handlers need.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, auth.TokenPair, error)
	Login(ctx context.Context, username, password string) (*domain.User, auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
}

// AuthHandlers exposes registration, login and token refresh.
type AuthHandlers struct {
	users UserService
}

func NewAuthHandlers(users UserService) *AuthHandlers {
	return &AuthHandlers{users: users}
}

// Routes registers the /auth endpoints.
func (h *AuthHandlers) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/refresh", h.refresh)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	User   userPayload    `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}

type userPayload struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
	CreatedAt string `json:"created_at"`
}

func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if !decodeBody(w, r, &req) {
		return
	}
	user, tokens, err := h.users.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, authResponse{User: buildUserPayload(user), Tokens: tokens})
}

func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, tokens, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, authResponse{User: buildUserPayload(user), Tokens: tokens})
}

func (h *AuthHandlers) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tokens, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]auth.TokenPair{"tokens": tokens})
}

func buildUserPayload(u *domain.User) userPayload {
	return userPayload{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
		CreatedAt: formatTime(u.CreatedAt),
	}
}
