// AngelaMos | 2026
// service.go

package race

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/trailrace/internal/core"
)

// RegistrationLookup gives the race detail view its registration data
// without this package depending on registrations.
type RegistrationLookup interface {
	CountApproved(ctx context.Context, raceID string) (int, error)
	// FindForUser returns nil, nil when the user holds no registration.
	FindForUser(
		ctx context.Context,
		raceID, userID string,
	) (*RegistrationSummary, error)
}

type Service struct {
	repo          Repository
	registrations RegistrationLookup
}

func NewService(repo Repository, registrations RegistrationLookup) *Service {
	return &Service{repo: repo, registrations: registrations}
}

// ValidateSchedule enforces end >= start and deadline <= start.
func ValidateSchedule(start, end, deadline time.Time) error {
	if end.Before(start) {
		return core.ValidationError("endDate must not be before startDate")
	}
	if deadline.After(start) {
		return core.ValidationError("registrationDeadline must not be after startDate")
	}
	return nil
}

func (s *Service) List(
	ctx context.Context,
	filter ListFilter,
) ([]RaceWithCreator, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*RaceWithCreator, error) {
	return s.repo.GetByID(ctx, id)
}

// Detail returns the race with its approved count and, when userID is set,
// that user's own registration.
func (s *Service) Detail(
	ctx context.Context,
	id, userID string,
) (*RaceDetailResponse, error) {
	race, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.registrations.CountApproved(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("race detail: %w", err)
	}

	detail := &RaceDetailResponse{
		RaceResponse:      ToRaceResponse(race),
		RegistrationCount: count,
	}

	if userID != "" {
		detail.UserRegistration, err = s.registrations.FindForUser(ctx, id, userID)
		if err != nil {
			return nil, fmt.Errorf("race detail: %w", err)
		}
	}

	return detail, nil
}

func (s *Service) Create(
	ctx context.Context,
	creatorID string,
	req CreateRaceRequest,
) (*RaceWithCreator, error) {
	if err := ValidateSchedule(
		req.StartDate,
		req.EndDate,
		req.RegistrationDeadline,
	); err != nil {
		return nil, err
	}

	race := &Race{
		ID:                   uuid.New().String(),
		Name:                 strings.TrimSpace(req.Name),
		Description:          strings.TrimSpace(req.Description),
		Image:                req.Image,
		Location:             strings.TrimSpace(req.Location),
		StartDate:            req.StartDate.UTC(),
		EndDate:              req.EndDate.UTC(),
		RegistrationDeadline: req.RegistrationDeadline.UTC(),
		MaxParticipants:      req.MaxParticipants,
		Status:               StatusUpcoming,
		CreatedBy:            creatorID,
	}
	if req.Status != nil {
		race.Status = *req.Status
	}

	if err := s.repo.Create(ctx, race); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "race created",
		"race_id", race.ID,
		"status", race.Status,
		"created_by", creatorID,
	)

	return s.repo.GetByID(ctx, race.ID)
}

// Update applies a partial change. Schedule rules are checked against the
// merged values, so moving only one date can still be rejected.
func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateRaceRequest,
) (*RaceWithCreator, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	race := current.Race
	if req.Name != nil {
		race.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		race.Description = strings.TrimSpace(*req.Description)
	}
	if req.Image != nil {
		race.Image = req.Image
	}
	if req.Location != nil {
		race.Location = strings.TrimSpace(*req.Location)
	}
	if req.StartDate != nil {
		race.StartDate = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		race.EndDate = req.EndDate.UTC()
	}
	if req.RegistrationDeadline != nil {
		race.RegistrationDeadline = req.RegistrationDeadline.UTC()
	}
	if req.MaxParticipants != nil {
		race.MaxParticipants = req.MaxParticipants
	}
	if req.Status != nil {
		race.Status = *req.Status
	}

	if err := ValidateSchedule(
		race.StartDate,
		race.EndDate,
		race.RegistrationDeadline,
	); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &race); err != nil {
		return nil, err
	}

	current.Race = race
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "race deleted",
		"race_id", id,
		"registrations_removed", removed,
	)
	return nil
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}
