package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

// SessionCookieName is the cookie carrying the session token. jwtauth reads the same name.
const SessionCookieName = "jwt"

// CookiePolicy owns the attributes of the session cookie. Setting and clearing
// go through the same policy so browsers see identical attributes and drop the cookie.
type CookiePolicy struct {
	Path   string
	Secure bool
	MaxAge time.Duration
	now    func() time.Time
}

// NewCookiePolicy builds the policy. secure should be false only in local development.
func NewCookiePolicy(secure bool, maxAge time.Duration) *CookiePolicy {
	return &CookiePolicy{
		Path:   "/",
		Secure: secure,
		MaxAge: maxAge,
		now:    time.Now,
	}
}

// Attach writes the session cookie carrying token.
func (p *CookiePolicy) Attach(w http.ResponseWriter, token string) {
	c := p.base()
	c.Value = token
	c.MaxAge = int(p.MaxAge / time.Second)
	c.Expires = p.now().Add(p.MaxAge).UTC()
	http.SetCookie(w, c)
}

// Detach tells the client to discard the session cookie.
func (p *CookiePolicy) Detach(w http.ResponseWriter) {
	c := p.base()
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0).UTC()
	http.SetCookie(w, c)
}

// Token returns the session token sent with r, or "" when there is none.
func (p *CookiePolicy) Token(r *http.Request) string {
	return jwtauth.TokenFromCookie(r)
}

func (p *CookiePolicy) base() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Path:     p.Path,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
