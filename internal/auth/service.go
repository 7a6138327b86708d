// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/trailrace/internal/core"
	"github.com/carterperez-dev/trailrace/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidRole        = errors.New("invalid role")
)

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	Image        string
	PasswordHash string
	Role         string
}

func (u *UserInfo) Identity() middleware.Identity {
	return middleware.Identity{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Image: u.Image,
		Role:  u.Role,
	}
}

// UserProvider is the credential store as seen by authentication.
// GetByEmail matches case-insensitively and returns core.ErrNotFound when
// there is no such account; Create returns core.ErrDuplicateKey on a taken
// e-mail.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, name, role string,
	) (*UserInfo, error)
	UpdateRole(ctx context.Context, userID, role string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	users  UserProvider
	tokens *TokenCodec
	admins *AdminAllowList
}

func NewService(
	users UserProvider,
	tokens *TokenCodec,
	admins *AdminAllowList,
) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		admins: admins,
	}
}

type SignInResult struct {
	User    UserResponse
	Token   string
	Expires time.Time
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*UserResponse, error) {
	email := normalizeEmail(req.Email)

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(
		ctx,
		email,
		passwordHash,
		req.Name,
		s.admins.RoleFor(email),
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	resp := ToUserResponse(user.Identity())
	return &resp, nil
}

// SignIn verifies credentials and mints a session token. Unknown e-mails
// run a dummy verification so both failure paths cost the same.
func (s *Service) SignIn(
	ctx context.Context,
	req SignInRequest,
) (*SignInResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	var hash *string
	if user.PasswordHash != "" {
		hash = &user.PasswordHash
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(req.Password, hash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	if role := s.admins.RoleFor(user.Email); role != user.Role {
		if err := s.users.UpdateRole(ctx, user.ID, role); err != nil {
			return nil, fmt.Errorf("update role: %w", err)
		}
		user.Role = role
	}

	return s.issue(user.Identity())
}

// SwitchRole reissues the caller's token with another role claim. The
// stored role is left alone; the next sign-in derives it again.
func (s *Service) SwitchRole(
	ctx context.Context,
	current middleware.Identity,
	role string,
) (*SignInResult, error) {
	if !validRole(role) {
		return nil, ErrInvalidRole
	}

	user, err := s.users.GetByID(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	id := user.Identity()
	id.Role = role
	return s.issue(id)
}

func (s *Service) issue(id middleware.Identity) (*SignInResult, error) {
	token, expires, err := s.tokens.Issue(id)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &SignInResult{
		User:    ToUserResponse(id),
		Token:   token,
		Expires: expires,
	}, nil
}
