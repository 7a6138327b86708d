// AngelaMos | 2026
// service.go

package contact

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit stores a message. userID links it to the sender's account and may
// be empty for anonymous visitors.
func (s *Service) Submit(
	ctx context.Context,
	req CreateMessageRequest,
	userID string,
) (*Message, error) {
	req.Normalize()

	msg := &Message{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	if req.Subject != "" {
		msg.Subject = &req.Subject
	}
	if userID != "" {
		msg.UserID = &userID
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "contact message received",
		"message_id", msg.ID,
		"authenticated", userID != "",
	)

	return msg, nil
}
