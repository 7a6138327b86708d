// AngelaMos | 2026
// admission.go

package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/trailrace/internal/core"
	"github.com/carterperez-dev/trailrace/internal/events"
	"github.com/carterperez-dev/trailrace/internal/metrics"
	"github.com/carterperez-dev/trailrace/internal/race"
)

var (
	ErrRegistrationNotOpen = errors.New("registration is not open for this race")
	ErrDeadlinePassed      = errors.New("registration deadline has passed")
	ErrAlreadyRegistered   = errors.New("already registered for this race")
	ErrRaceFull            = errors.New("race is full")
)

type DecisionRecorder interface {
	RecordAdmission(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAdmission(string) {}

// Admission decides self-service registrations. The race row is locked for
// the whole decision so the approved count cannot move underneath it, and
// the (user, race) unique constraint has the final word on duplicates.
type Admission struct {
	repo      Repository
	publisher events.Publisher
	recorder  DecisionRecorder
	now       func() time.Time
}

func NewAdmission(
	repo Repository,
	publisher events.Publisher,
	recorder DecisionRecorder,
) *Admission {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Admission{
		repo:      repo,
		publisher: publisher,
		recorder:  recorder,
		now:       time.Now,
	}
}

// Admit runs the checks in a fixed order and reports only the first that
// fails: race exists, status is registration_open, deadline not passed,
// no existing entry, capacity left. A passing request is stored approved.
func (a *Admission) Admit(
	ctx context.Context,
	raceID, userID string,
) (*Registration, error) {
	ctx, span := core.StartSpan(ctx, "registration.admit",
		attribute.String("race.id", raceID),
		attribute.String("user.id", userID),
	)
	defer span.End()

	var reg *Registration
	err := a.repo.Atomically(ctx, func(tx Repository) error {
		var decideErr error
		reg, decideErr = a.decide(ctx, tx, raceID, userID)
		return decideErr
	})

	outcome := outcomeOf(err)
	a.recorder.RecordAdmission(outcome)
	core.AddSpanEvent(ctx, "admission.decision",
		attribute.String("outcome", outcome),
	)

	if err != nil {
		if outcome == metrics.OutcomeError {
			core.SetSpanError(ctx, err)
			return nil, fmt.Errorf("admit: %w", err)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "registration admitted",
		"registration_id", reg.ID,
		"race_id", raceID,
		"user_id", userID,
	)

	if pubErr := a.publisher.PublishRegistrationCreated(ctx, events.RegistrationCreated{
		RegistrationID: reg.ID,
		RaceID:         reg.RaceID,
		UserID:         reg.UserID,
		Status:         reg.Status,
		RegisteredAt:   reg.RegisteredAt,
	}); pubErr != nil {
		slog.WarnContext(ctx, "publish registration event failed",
			"registration_id", reg.ID,
			"error", pubErr,
		)
	}

	return reg, nil
}

func (a *Admission) decide(
	ctx context.Context,
	tx Repository,
	raceID, userID string,
) (*Registration, error) {
	rc, err := tx.LockRace(ctx, raceID)
	if err != nil {
		return nil, err
	}

	if rc.Status != race.StatusRegistrationOpen {
		return nil, ErrRegistrationNotOpen
	}

	now := a.now()
	if now.After(rc.RegistrationDeadline) {
		return nil, ErrDeadlinePassed
	}

	exists, err := tx.ExistsForUserAndRace(ctx, userID, raceID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	if rc.MaxParticipants != nil {
		approved, err := tx.CountByStatus(ctx, raceID, StatusApproved)
		if err != nil {
			return nil, err
		}
		if !rc.HasCapacity(approved) {
			return nil, ErrRaceFull
		}
	}

	reg := &Registration{
		ID:           uuid.New().String(),
		UserID:       userID,
		RaceID:       raceID,
		RegisteredAt: now.UTC(),
		Status:       StatusApproved,
	}

	if err := tx.Create(ctx, reg); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	return reg, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeAdmitted
	case errors.Is(err, core.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrRegistrationNotOpen):
		return metrics.OutcomeNotOpen
	case errors.Is(err, ErrDeadlinePassed):
		return metrics.OutcomeDeadlinePassed
	case errors.Is(err, ErrAlreadyRegistered):
		return metrics.OutcomeAlreadyRegistered
	case errors.Is(err, ErrRaceFull):
		return metrics.OutcomeRaceFull
	default:
		return metrics.OutcomeError
	}
}
