// AngelaMos | 2026
// entity.go

package registration

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Registration is a user's entry in a race. (UserID, RaceID) is unique.
type Registration struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	RaceID       string    `db:"race_id"`
	RegisteredAt time.Time `db:"registered_at"`
	Status       string    `db:"status"`
	FinishTime   *int      `db:"finish_time"`
	Position     *int      `db:"position"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type RegistrationWithDetails struct {
	Registration
	UserName      string    `db:"user_name"`
	UserEmail     string    `db:"user_email"`
	UserImage     *string   `db:"user_image"`
	RaceName      string    `db:"race_name"`
	RaceLocation  string    `db:"race_location"`
	RaceStartDate time.Time `db:"race_start_date"`
	RaceStatus    string    `db:"race_status"`
}
