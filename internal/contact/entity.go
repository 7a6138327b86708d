// AngelaMos | 2026
// entity.go

package contact

import (
	"time"
)

type Message struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Subject   *string   `db:"subject"`
	Message   string    `db:"message"`
	UserID    *string   `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
