// AngelaMos | 2026
// dto.go

package contact

import (
	"strings"
)

type CreateMessageRequest struct {
	Name    string `json:"name"              validate:"required,min=1,max=100"`
	Email   string `json:"email"             validate:"required,email"`
	Subject string `json:"subject,omitempty" validate:"max=150"`
	Message string `json:"message"           validate:"required,min=10,max=5000"`
}

func (r *CreateMessageRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
}

type CreateMessageResponse struct {
	ID string `json:"id"`
}
