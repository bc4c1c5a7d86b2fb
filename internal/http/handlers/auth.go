package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/codemorph-be/internal/http/respond"
	"github.com/hongminglow/codemorph-be/internal/logging"
	"github.com/hongminglow/codemorph-be/internal/middleware"
	"github.com/hongminglow/codemorph-be/internal/models"
	"github.com/hongminglow/codemorph-be/internal/models/dto"
)

const maxBodyBytes = 1 << 20

// Authenticator is the slice of the auth service the handlers call.
type Authenticator interface {
	Register(ctx context.Context, req dto.RegisterRequest) (models.User, string, error)
	Login(ctx context.Context, req dto.LoginRequest) (models.User, string, error)
}

// SessionCookie sets and clears the session cookie.
type SessionCookie interface {
	Attach(w http.ResponseWriter, token string)
	Detach(w http.ResponseWriter)
}

// SessionGate verifies sessions before a handler runs.
type SessionGate interface {
	Require(next http.Handler) http.Handler
	Optional(next http.Handler) http.Handler
}

// AuthHandler owns the /auth endpoints.
type AuthHandler struct {
	auth    Authenticator
	cookies SessionCookie
	gate    SessionGate
	errs    errorMapper
	log     logging.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth Authenticator, cookies SessionCookie, gate SessionGate, log logging.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies, gate: gate, errs: errorMapper{log: log}, log: log}
}

// Routes attaches auth routes to r. Mount it under /api/v1/auth.
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/register", h.errs.wrap("Error creating user", h.handleRegister))
	r.Post("/login", h.errs.wrap("Error logging in user", h.handleLogin))
	r.With(h.gate.Optional).Post("/logout", h.errs.wrap("Error logging out user", h.handleLogout))
	r.With(h.gate.Require).Get("/check", h.errs.wrap("Error checking user", h.handleCheck))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) error {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	user, token, err := h.auth.Register(r.Context(), req)
	if err != nil {
		return err
	}
	h.cookies.Attach(w, token)
	respond.JSON(w, http.StatusCreated, "User created successfully", dto.NewPublicUser(user))
	return nil
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) error {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	user, token, err := h.auth.Login(r.Context(), req)
	if err != nil {
		return err
	}
	h.cookies.Attach(w, token)
	respond.JSON(w, http.StatusOK, "User logged in successfully", dto.NewPublicUser(user))
	return nil
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) error {
	h.cookies.Detach(w)
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		h.log.Info(r.Context(), "user logged out", "user_id", user.ID)
	}
	respond.JSON(w, http.StatusOK, "User logged out successfully", nil)
	return nil
}

func (h *AuthHandler) handleCheck(w http.ResponseWriter, r *http.Request) error {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return errors.New("check: no identity on request context")
	}
	respond.JSON(w, http.StatusOK, "User authenticated successfully", user)
	return nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}
