// AngelaMos | 2026
// service.go

package registration

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/trailrace/internal/core"
	"github.com/carterperez-dev/trailrace/internal/middleware"
)

type Service struct {
	repo      Repository
	admission *Admission
	now       func() time.Time
}

func NewService(repo Repository, admission *Admission) *Service {
	return &Service{
		repo:      repo,
		admission: admission,
		now:       time.Now,
	}
}

// Register admits the caller and returns the stored registration joined
// with its user and race.
func (s *Service) Register(
	ctx context.Context,
	raceID, userID string,
) (*RegistrationWithDetails, error) {
	reg, err := s.admission.Admit(ctx, raceID, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetDetail(ctx, reg.ID)
}

// ScopeFilter narrows a listing to what the caller may see. Non-admins are
// always confined to their own registrations.
func ScopeFilter(caller *middleware.Identity, filter ListFilter) (ListFilter, error) {
	if caller == nil {
		return filter, core.ErrUnauthorized
	}
	if caller.IsAdmin() {
		return filter, nil
	}
	if filter.UserID != "" && filter.UserID != caller.ID {
		return filter, core.ErrForbidden
	}
	filter.UserID = caller.ID
	return filter, nil
}

func (s *Service) List(
	ctx context.Context,
	caller *middleware.Identity,
	filter ListFilter,
) ([]RegistrationWithDetails, error) {
	scoped, err := ScopeFilter(caller, filter)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scoped)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateRegistrationRequest,
) (*Registration, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		reg.Status = *req.Status
	}
	if req.FinishTime != nil {
		reg.FinishTime = req.FinishTime
	}
	if req.Position != nil {
		reg.Position = req.Position
	}

	if err := s.repo.Update(ctx, reg); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "registration updated",
		"registration_id", reg.ID,
		"status", reg.Status,
	)

	return reg, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "registration deleted", "registration_id", id)
	return nil
}

// AdminCreate records a registration on a user's behalf without running
// admission rules. The (user, race) pair must still be unique.
func (s *Service) AdminCreate(
	ctx context.Context,
	req AdminCreateRequest,
) (*Registration, error) {
	reg := &Registration{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		RaceID:       req.RaceID,
		RegisteredAt: s.now().UTC(),
		Status:       StatusPending,
	}
	if req.Status != nil {
		reg.Status = *req.Status
	}

	if err := s.repo.Create(ctx, reg); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	slog.InfoContext(ctx, "registration created by admin",
		"registration_id", reg.ID,
		"race_id", reg.RaceID,
		"user_id", reg.UserID,
		"status", reg.Status,
	)

	return reg, nil
}

// CountPending is the moderation backlog shown on the admin overview.
func (s *Service) CountPending(ctx context.Context) (int, error) {
	return s.repo.CountAllByStatus(ctx, StatusPending)
}
