// AngelaMos | 2026
// token.go

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/trailrace/internal/config"
	"github.com/carterperez-dev/trailrace/internal/core"
	"github.com/carterperez-dev/trailrace/internal/middleware"
)

// TokenCodec mints and checks the HS256 session token. The token is the
// whole session: nothing about it is stored server-side.
type TokenCodec struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

func NewTokenCodec(cfg config.AuthConfig) *TokenCodec {
	return &TokenCodec{
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TokenTTL,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		now:      time.Now,
	}
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

func (c *TokenCodec) Issue(id middleware.Identity) (string, time.Time, error) {
	now := c.now().Truncate(time.Second)
	expiresAt := now.Add(c.ttl)

	b := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(c.issuer).
		Audience([]string{c.audience}).
		Subject(id.ID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim("email", id.Email).
		Claim("name", id.Name).
		Claim("role", id.Role)
	if id.Image != "" {
		b = b.Claim("image", id.Image)
	}

	token, err := b.Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), c.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return string(signed), expiresAt, nil
}

func (c *TokenCodec) Verify(
	tokenString string,
) (*middleware.Identity, time.Time, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), c.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithClock(jwt.ClockFunc(c.now)),
	)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, time.Time{}, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, time.Time{}, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, time.Time{}, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	expiresAt, ok := token.Expiration()
	if !ok {
		return nil, time.Time{}, fmt.Errorf(
			"verify token: missing exp: %w",
			core.ErrTokenInvalid,
		)
	}

	id := &middleware.Identity{ID: subject}

	if err := token.Get("email", &id.Email); err != nil || id.Email == "" {
		return nil, time.Time{}, fmt.Errorf(
			"verify token: missing email claim: %w",
			core.ErrTokenInvalid,
		)
	}

	if err := token.Get("role", &id.Role); err != nil || !validRole(id.Role) {
		return nil, time.Time{}, fmt.Errorf(
			"verify token: bad role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	//nolint:errcheck // name and image are optional claims
	_ = token.Get("name", &id.Name)
	//nolint:errcheck // name and image are optional claims
	_ = token.Get("image", &id.Image)

	return id, expiresAt, nil
}

func validRole(role string) bool {
	return role == middleware.RoleUser || role == middleware.RoleAdmin
}
