// AngelaMos | 2026
// repository.go

package contact

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/trailrace/internal/core"
)

type Repository interface {
	Create(ctx context.Context, msg *Message) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO contact_messages (id, name, email, subject, message, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, msg, query,
		msg.ID,
		msg.Name,
		msg.Email,
		msg.Subject,
		msg.Message,
		msg.UserID,
	)
	if err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}

	return nil
}
