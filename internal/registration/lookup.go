// AngelaMos | 2026
// lookup.go

package registration

import (
	"context"
	"errors"

	"github.com/carterperez-dev/trailrace/internal/core"
	"github.com/carterperez-dev/trailrace/internal/race"
)

// RaceLookup serves race detail views from the registrations table.
type RaceLookup struct {
	repo Repository
}

func NewRaceLookup(repo Repository) *RaceLookup {
	return &RaceLookup{repo: repo}
}

func (l *RaceLookup) CountApproved(ctx context.Context, raceID string) (int, error) {
	return l.repo.CountByStatus(ctx, raceID, StatusApproved)
}

func (l *RaceLookup) FindForUser(
	ctx context.Context,
	raceID, userID string,
) (*race.RegistrationSummary, error) {
	reg, err := l.repo.FindForUser(ctx, raceID, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &race.RegistrationSummary{
		ID:           reg.ID,
		Status:       reg.Status,
		RegisteredAt: reg.RegisteredAt,
		FinishTime:   reg.FinishTime,
		Position:     reg.Position,
	}, nil
}
