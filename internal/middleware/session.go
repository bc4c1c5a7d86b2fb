package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/hongminglow/codemorph-be/internal/auth"
	"github.com/hongminglow/codemorph-be/internal/http/respond"
	"github.com/hongminglow/codemorph-be/internal/logging"
	"github.com/hongminglow/codemorph-be/internal/models"
	"github.com/hongminglow/codemorph-be/internal/models/dto"
	"github.com/hongminglow/codemorph-be/internal/service"
)

type contextKey string

const userCtxKey contextKey = "user"

var errNoToken = errors.New("no session token")

// IdentityResolver turns a verified token subject into a user.
type IdentityResolver interface {
	Identify(ctx context.Context, userID string) (models.User, error)
}

// TokenVerifier checks a session token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// TokenSource pulls the raw session token off a request.
type TokenSource interface {
	Token(r *http.Request) string
}

// Session is the session verification gate.
type Session struct {
	source   TokenSource
	verifier TokenVerifier
	resolver IdentityResolver
	log      logging.Logger
}

// NewSession builds a gate that reads tokens from source, checks them with
// verifier and loads the user through resolver.
func NewSession(source TokenSource, verifier TokenVerifier, resolver IdentityResolver, log logging.Logger) *Session {
	return &Session{source: source, verifier: verifier, resolver: resolver, log: log}
}

// Require rejects requests without a valid session with 401 and attaches the
// resolved user to the context otherwise.
func (s *Session) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolve(r)
		if err != nil {
			switch {
			case errors.Is(err, errNoToken):
				respond.Error(w, http.StatusUnauthorized, "Unauthorized - No token provided")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, service.ErrUnauthorized):
				respond.Error(w, http.StatusUnauthorized, "Unauthorized - Invalid token")
			default:
				s.log.Error(r.Context(), "session verification failed", "error", err)
				respond.Error(w, http.StatusInternalServerError, "Error authenticating user")
			}
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Optional attaches the user when the session is valid and passes every
// request through regardless.
func (s *Session) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolve(r)
		switch {
		case err == nil:
			r = r.WithContext(WithUser(r.Context(), user))
		case errors.Is(err, errNoToken):
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, service.ErrUnauthorized):
			s.log.Debug(r.Context(), "ignoring stale session", "error", err)
		default:
			s.log.Warn(r.Context(), "optional session lookup failed", "error", err)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Session) resolve(r *http.Request) (dto.PublicUser, error) {
	token := s.source.Token(r)
	if token == "" {
		return dto.PublicUser{}, errNoToken
	}
	userID, err := s.verifier.Verify(token)
	if err != nil {
		return dto.PublicUser{}, err
	}
	user, err := s.resolver.Identify(r.Context(), userID)
	if err != nil {
		return dto.PublicUser{}, err
	}
	return dto.NewPublicUser(user), nil
}

// WithUser stores the authenticated user on ctx.
func WithUser(ctx context.Context, user dto.PublicUser) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext returns the user attached by the session gate.
func UserFromContext(ctx context.Context) (dto.PublicUser, bool) {
	user, ok := ctx.Value(userCtxKey).(dto.PublicUser)
	return user, ok
}
