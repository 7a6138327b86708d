// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/carterperez-dev/trailrace/internal/middleware"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type SwitchRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Role  string `json:"role"`
}

func ToUserResponse(id middleware.Identity) UserResponse {
	return UserResponse{
		ID:    id.ID,
		Email: id.Email,
		Name:  id.Name,
		Image: id.Image,
		Role:  id.Role,
	}
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type SessionView struct {
	User    UserResponse `json:"user"`
	Expires time.Time    `json:"expires"`
}

// SessionResponse serializes a missing session as {"session":null}.
type SessionResponse struct {
	Session *SessionView `json:"session"`
}

type SwitchRoleResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
