// AngelaMos | 2026
// session.go

package auth

import (
	"net/http"
	"time"

	"github.com/carterperez-dev/trailrace/internal/middleware"
)

type Session struct {
	User    middleware.Identity `json:"user"`
	Expires time.Time           `json:"expires"`
}

// SessionResolver carries the session token in a cookie. Expires on a
// resolved session is the token's own exp, not a rolling window.
type SessionResolver struct {
	codec      *TokenCodec
	cookieName string
	secure     bool
}

func NewSessionResolver(
	codec *TokenCodec,
	cookieName string,
	production bool,
) *SessionResolver {
	return &SessionResolver{
		codec:      codec,
		cookieName: cookieName,
		secure:     production,
	}
}

func (s *SessionResolver) ResolveFromCookie(value string) *Session {
	if value == "" {
		return nil
	}

	id, expires, err := s.codec.Verify(value)
	if err != nil {
		return nil
	}

	return &Session{User: *id, Expires: expires}
}

func (s *SessionResolver) Resolve(r *http.Request) *Session {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil
	}
	return s.ResolveFromCookie(cookie.Value)
}

// ResolveRequest satisfies middleware.IdentityResolver.
func (s *SessionResolver) ResolveRequest(r *http.Request) *middleware.Identity {
	sess := s.Resolve(r)
	if sess == nil {
		return nil
	}
	return &sess.User
}

func (s *SessionResolver) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.codec.TTL().Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *SessionResolver) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
