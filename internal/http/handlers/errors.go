package handlers

import (
	"errors"
	"net/http"

	"github.com/hongminglow/codemorph-be/internal/http/respond"
	"github.com/hongminglow/codemorph-be/internal/logging"
	"github.com/hongminglow/codemorph-be/internal/service"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

var errBadPayload = errors.New("invalid JSON payload")

// handlerFunc is an http.HandlerFunc that reports failure instead of writing it.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// errorMapper is the single place handler errors become HTTP responses.
type errorMapper struct {
	log logging.Logger
}

// wrap adapts fn; internal failures are logged and answered with fallback.
func (m errorMapper) wrap(fallback string, fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		status, message := classify(err)
		if status == http.StatusInternalServerError {
			m.log.Error(r.Context(), fallback,
				"error", err,
				"path", r.URL.Path,
				"request_id", chiMiddleware.GetReqID(r.Context()),
			)
			message = fallback
		}
		respond.Error(w, status, message)
	}
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errBadPayload):
		return http.StatusBadRequest, errBadPayload.Error()
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrAlreadyExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusUnauthorized, "User not found"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	default:
		return http.StatusInternalServerError, ""
	}
}
