// AngelaMos | 2026
// entity.go

package race

import (
	"time"
)

const (
	StatusUpcoming           = "upcoming"
	StatusRegistrationOpen   = "registration_open"
	StatusRegistrationClosed = "registration_closed"
	StatusOngoing            = "ongoing"
	StatusCompleted          = "completed"
)

var Statuses = []string{
	StatusUpcoming,
	StatusRegistrationOpen,
	StatusRegistrationClosed,
	StatusOngoing,
	StatusCompleted,
}

func ValidStatus(s string) bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

type Race struct {
	ID                   string    `db:"id"`
	Name                 string    `db:"name"`
	Description          string    `db:"description"`
	Image                *string   `db:"image"`
	Location             string    `db:"location"`
	StartDate            time.Time `db:"start_date"`
	EndDate              time.Time `db:"end_date"`
	RegistrationDeadline time.Time `db:"registration_deadline"`
	MaxParticipants      *int      `db:"max_participants"`
	Status               string    `db:"status"`
	CreatedBy            string    `db:"created_by"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

// HasCapacity reports whether another approved entrant fits.
func (r *Race) HasCapacity(approved int) bool {
	return r.MaxParticipants == nil || approved < *r.MaxParticipants
}

// RaceWithCreator is a race joined with the creating admin's public fields.
type RaceWithCreator struct {
	Race
	CreatorName  string `db:"creator_name"`
	CreatorEmail string `db:"creator_email"`
}

// RegistrationSummary is the caller's own registration as shown on a race.
type RegistrationSummary struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
	FinishTime   *int      `json:"finishTime"`
	Position     *int      `json:"position"`
}
