package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boardhub/backend/internal/middleware"
	"github.com/boardhub/backend/internal/models"
	"github.com/boardhub/backend/internal/sessions"
	"github.com/boardhub/backend/internal/shared"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register creates a new user account with the default role.
	//
	// If the email is already taken, shared.ErrDuplicateEmail will be returned together with "nil" value.
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	// Method VerifyCredentials checks an email/password pair and returns the matching user.
	//
	// Returns shared.ErrNotFound for an unknown email and shared.ErrInvalidCredential for a mismatch.
	VerifyCredentials(ctx context.Context, email, password string) (*models.User, error)
	// Method RolesFor returns the role-name set for a user id.
	RolesFor(ctx context.Context, userID int) ([]string, error)
}

// AuthHandler handles registration, login and logout HTTP requests
type AuthHandler struct {
	BaseHandler
	authService  AuthService
	sessionStore *sessions.Store
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, sessionStore *sessions.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		authService:  authService,
		sessionStore: sessionStore,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Register a new user with name, email and password. The new user gets the default role.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		h.RespondError(w, http.StatusBadRequest, "name, email, and password are required")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateEmail) {
			h.RespondError(w, http.StatusConflict, "email already registered")
			return
		}
		h.Logger.Error("failed to register user", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.RespondJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with email and password. On success a server-side session is created and its id is set as an HTTP-only cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.SessionContext
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unknown email or wrong password"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		h.RespondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.authService.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password are distinguishable errors from the
		// service; the response deliberately collapses them into one message.
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrInvalidCredential) {
			h.RespondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Logger.Error("failed to verify credentials", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	roles, err := h.authService.RolesFor(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("failed to resolve roles", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	identity := models.SessionContext{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Roles:  roles,
	}

	sessionID := h.sessionStore.Create(identity)
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.RespondJSON(w, http.StatusOK, identity)
}

// Logout handles POST /auth/logout
// @Summary Logout user
// @Description Destroy the current session and clear the session cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.sessionStore.Destroy(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
