package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/codemorph-be/internal/auth"
	"github.com/hongminglow/codemorph-be/internal/logging"
	"github.com/hongminglow/codemorph-be/internal/models"
	"github.com/hongminglow/codemorph-be/internal/service"
)

type stubResolver struct {
	users map[string]models.User
	err   error
}

func (s stubResolver) Identify(_ context.Context, id string) (models.User, error) {
	if s.err != nil {
		return models.User{}, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return models.User{}, service.ErrUnauthorized
	}
	return u, nil
}

type gateFixture struct {
	gate   *Session
	tokens *auth.TokenManager
}

func newGate(t *testing.T, resolver IdentityResolver) gateFixture {
	t.Helper()
	tokens, err := auth.NewTokenManager("secret", "codemorph", time.Hour)
	require.NoError(t, err)
	cookies := auth.NewCookiePolicy(false, time.Hour)
	return gateFixture{gate: NewSession(cookies, tokens, resolver, logging.Discard()), tokens: tokens}
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_ = json.NewEncoder(w).Encode(user)
}

func requestWithCookie(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/check", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	}
	return r
}

func alice() models.User {
	return models.User{ID: "u-1", Email: "a@x.com", Name: "Alice", Role: models.RoleUser, PasswordHash: "hash"}
}

func TestRequire_NoCookie(t *testing.T) {
	f := newGate(t, stubResolver{})
	rec := httptest.NewRecorder()

	f.gate.Require(http.HandlerFunc(echoUser)).ServeHTTP(rec, requestWithCookie(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestRequire_InvalidToken(t *testing.T) {
	f := newGate(t, stubResolver{})
	rec := httptest.NewRecorder()

	f.gate.Require(http.HandlerFunc(echoUser)).ServeHTTP(rec, requestWithCookie("not.a.jwt"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestRequire_UnknownUser(t *testing.T) {
	f := newGate(t, stubResolver{users: map[string]models.User{}})
	tok, err := f.tokens.Generate("deleted-user")
	require.NoError(t, err)
	rec := httptest.NewRecorder()

	f.gate.Require(http.HandlerFunc(echoUser)).ServeHTTP(rec, requestWithCookie(tok))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequire_StoreFailureIs500(t *testing.T) {
	f := newGate(t, stubResolver{err: errors.New("db down")})
	tok, err := f.tokens.Generate("u-1")
	require.NoError(t, err)
	rec := httptest.NewRecorder()

	f.gate.Require(http.HandlerFunc(echoUser)).ServeHTTP(rec, requestWithCookie(tok))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestRequire_AttachesPublicUser(t *testing.T) {
	f := newGate(t, stubResolver{users: map[string]models.User{"u-1": alice()}})
	tok, err := f.tokens.Generate("u-1")
	require.NoError(t, err)
	rec := httptest.NewRecorder()

	f.gate.Require(http.HandlerFunc(echoUser)).ServeHTTP(rec, requestWithCookie(tok))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u-1", body["id"])
	assert.Equal(t, "USER", body["role"])
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestOptional_PassesThroughWithoutSession(t *testing.T) {
	f := newGate(t, stubResolver{err: errors.New("db down")})

	for _, tok := range []string{"", "garbage"} {
		rec := httptest.NewRecorder()
		f.gate.Optional(http.HandlerFunc(echoUser)).ServeHTTP(rec, requestWithCookie(tok))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	valid, err := f.tokens.Generate("u-1")
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	f.gate.Optional(http.HandlerFunc(echoUser)).ServeHTTP(rec, requestWithCookie(valid))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestOptional_AttachesUserWhenValid(t *testing.T) {
	f := newGate(t, stubResolver{users: map[string]models.User{"u-1": alice()}})
	tok, err := f.tokens.Generate("u-1")
	require.NoError(t, err)
	rec := httptest.NewRecorder()

	f.gate.Optional(http.HandlerFunc(echoUser)).ServeHTTP(rec, requestWithCookie(tok))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"u-1"`)
}
