// AngelaMos | 2026
// repository.go

package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/trailrace/internal/core"
	"github.com/carterperez-dev/trailrace/internal/race"
	"github.com/carterperez-dev/trailrace/internal/user"
)

const userRaceConstraint = "registrations_user_race_key"

type Repository interface {
	// Atomically runs fn against a repository bound to one transaction.
	// Nested calls reuse the outer transaction.
	Atomically(ctx context.Context, fn func(tx Repository) error) error

	// LockRace loads a race and holds its row lock until the transaction
	// ends, serializing admissions to that race.
	LockRace(ctx context.Context, raceID string) (*race.Race, error)
	ExistsForUserAndRace(ctx context.Context, userID, raceID string) (bool, error)
	CountByStatus(ctx context.Context, raceID, status string) (int, error)
	CountAllByStatus(ctx context.Context, status string) (int, error)

	// Create returns core.ErrDuplicateKey when the user already holds a
	// registration for the race and core.ErrNotFound when either side of
	// the pair does not exist.
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetDetail(ctx context.Context, id string) (*RegistrationWithDetails, error)
	FindForUser(ctx context.Context, raceID, userID string) (*Registration, error)
	List(ctx context.Context, filter ListFilter) ([]RegistrationWithDetails, error)
	ListForUser(ctx context.Context, userID string) ([]user.ProfileRegistration, error)
	Update(ctx context.Context, reg *Registration) error
	Delete(ctx context.Context, id string) error
}

const registrationColumns = `id, user_id, race_id, registered_at, status,
		       finish_time, position, created_at, updated_at`

const detailSelect = `
		SELECT g.id, g.user_id, g.race_id, g.registered_at, g.status,
		       g.finish_time, g.position, g.created_at, g.updated_at,
		       u.name AS user_name, u.email AS user_email, u.image AS user_image,
		       r.name AS race_name, r.location AS race_location,
		       r.start_date AS race_start_date, r.status AS race_status
		FROM registrations g
		JOIN users u ON u.id = g.user_id
		JOIN races r ON r.id = g.race_id`

type repository struct {
	db   core.DBTX
	conn *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db, conn: db}
}

func (r *repository) Atomically(
	ctx context.Context,
	fn func(tx Repository) error,
) error {
	if r.conn == nil {
		return fn(r)
	}
	return core.InTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) LockRace(ctx context.Context, raceID string) (*race.Race, error) {
	query := `
		SELECT id, name, description, image, location, start_date, end_date,
		       registration_deadline, max_participants, status, created_by,
		       created_at, updated_at
		FROM races
		WHERE id = $1
		FOR UPDATE`

	var rc race.Race
	err := r.db.GetContext(ctx, &rc, query, raceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock race: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock race: %w", err)
	}

	return &rc, nil
}

func (r *repository) ExistsForUserAndRace(
	ctx context.Context,
	userID, raceID string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM registrations WHERE user_id = $1 AND race_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, raceID); err != nil {
		return false, fmt.Errorf("check registration exists: %w", err)
	}

	return exists, nil
}

func (r *repository) CountByStatus(
	ctx context.Context,
	raceID, status string,
) (int, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE race_id = $1 AND status = $2`

	var n int
	if err := r.db.GetContext(ctx, &n, query, raceID, status); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}

	return n, nil
}

func (r *repository) CountAllByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM registrations WHERE status = $1`, status)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}

	return n, nil
}

func (r *repository) Create(ctx context.Context, reg *Registration) error {
	query := `
		INSERT INTO registrations (id, user_id, race_id, registered_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, reg, query,
		reg.ID,
		reg.UserID,
		reg.RaceID,
		reg.RegisteredAt,
		reg.Status,
	)
	switch {
	case err == nil:
		return nil
	case core.IsUniqueViolation(err, userRaceConstraint):
		return fmt.Errorf("create registration: %w", core.ErrDuplicateKey)
	case core.IsForeignKeyViolation(err):
		return fmt.Errorf("create registration: %w", core.ErrNotFound)
	default:
		return fmt.Errorf("create registration: %w", err)
	}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	var reg Registration
	err := r.db.GetContext(ctx, &reg, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get registration: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	return &reg, nil
}

func (r *repository) GetDetail(
	ctx context.Context,
	id string,
) (*RegistrationWithDetails, error) {
	query := detailSelect + `
		WHERE g.id = $1`

	var row RegistrationWithDetails
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get registration detail: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get registration detail: %w", err)
	}

	return &row, nil
}

func (r *repository) FindForUser(
	ctx context.Context,
	raceID, userID string,
) (*Registration, error) {
	query := `SELECT ` + registrationColumns + `
		FROM registrations
		WHERE race_id = $1 AND user_id = $2`

	var reg Registration
	err := r.db.GetContext(ctx, &reg, query, raceID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find registration: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find registration: %w", err)
	}

	return &reg, nil
}

func (r *repository) List(
	ctx context.Context,
	filter ListFilter,
) ([]RegistrationWithDetails, error) {
	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("g.user_id = $%d", argIdx))
		args = append(args, filter.UserID)
		argIdx++
	}

	if filter.RaceID != "" {
		conditions = append(conditions, fmt.Sprintf("g.race_id = $%d", argIdx))
		args = append(args, filter.RaceID)
		argIdx++
	}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("g.status = $%d", argIdx))
		args = append(args, filter.Status)
	}

	query := fmt.Sprintf(detailSelect+`
		WHERE %s
		ORDER BY g.registered_at DESC`,
		strings.Join(conditions, " AND "))

	rows := []RegistrationWithDetails{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	return rows, nil
}

// ListForUser satisfies user.RegistrationHistory.
func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
) ([]user.ProfileRegistration, error) {
	query := `
		SELECT g.id, g.race_id, r.name AS race_name,
		       r.location AS race_location, r.start_date AS race_start_date,
		       r.status AS race_status, g.status, g.registered_at,
		       g.finish_time, g.position
		FROM registrations g
		JOIN races r ON r.id = g.race_id
		WHERE g.user_id = $1
		ORDER BY r.start_date DESC`

	rows := []user.ProfileRegistration{}
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list user registrations: %w", err)
	}

	return rows, nil
}

func (r *repository) Update(ctx context.Context, reg *Registration) error {
	query := `
		UPDATE registrations
		SET status = $2, finish_time = $3, position = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &reg.UpdatedAt, query,
		reg.ID,
		reg.Status,
		reg.FinishTime,
		reg.Position,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update registration: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete registration: %w", core.ErrNotFound)
	}

	return nil
}
