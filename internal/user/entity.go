// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/trailrace/internal/middleware"
)

// User is a row of the users table. PasswordHash is nil for accounts
// that were not created with a password.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash *string   `db:"password_hash"`
	Name         string    `db:"name"`
	Image        *string   `db:"image"`
	Bio          *string   `db:"bio"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == middleware.RoleAdmin
}

// ProfileRegistration is one race in a user's history, joined with the
// race fields the profile shows.
type ProfileRegistration struct {
	ID            string    `db:"id"             json:"id"`
	RaceID        string    `db:"race_id"        json:"raceId"`
	RaceName      string    `db:"race_name"      json:"raceName"`
	RaceLocation  string    `db:"race_location"  json:"raceLocation"`
	RaceStartDate time.Time `db:"race_start_date" json:"raceStartDate"`
	RaceStatus    string    `db:"race_status"    json:"raceStatus"`
	Status        string    `db:"status"         json:"status"`
	RegisteredAt  time.Time `db:"registered_at"  json:"registeredAt"`
	FinishTime    *int      `db:"finish_time"    json:"finishTime"`
	Position      *int      `db:"position"       json:"position"`
}

type Stats struct {
	TotalRaces     int      `json:"totalRaces"`
	CompletedRaces int      `json:"completedRaces"`
	AvgPosition    *float64 `json:"avgPosition"`
	BestTime       *int     `json:"bestTime"`
}

// ComputeStats summarizes a registration history. A race counts as
// completed once it has a finish time; averages skip unplaced entries.
func ComputeStats(regs []ProfileRegistration) Stats {
	stats := Stats{TotalRaces: len(regs)}

	positionSum, placed := 0, 0
	for _, r := range regs {
		if r.FinishTime != nil {
			stats.CompletedRaces++
			if stats.BestTime == nil || *r.FinishTime < *stats.BestTime {
				best := *r.FinishTime
				stats.BestTime = &best
			}
		}
		if r.Position != nil {
			positionSum += *r.Position
			placed++
		}
	}

	if placed > 0 {
		avg := float64(positionSum) / float64(placed)
		stats.AvgPosition = &avg
	}

	return stats
}
