// AngelaMos | 2026
// repository.go

package race

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/trailrace/internal/core"
)

type Repository interface {
	Create(ctx context.Context, race *Race) error
	GetByID(ctx context.Context, id string) (*RaceWithCreator, error)
	List(ctx context.Context, filter ListFilter) ([]RaceWithCreator, error)
	Update(ctx context.Context, race *Race) error
	Delete(ctx context.Context, id string) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

const raceWithCreatorSelect = `
		SELECT r.id, r.name, r.description, r.image, r.location,
		       r.start_date, r.end_date, r.registration_deadline,
		       r.max_participants, r.status, r.created_by,
		       r.created_at, r.updated_at,
		       COALESCE(u.name, '') AS creator_name,
		       COALESCE(u.email, '') AS creator_email
		FROM races r
		LEFT JOIN users u ON u.id = r.created_by`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, race *Race) error {
	query := `
		INSERT INTO races (
			id, name, description, image, location, start_date, end_date,
			registration_deadline, max_participants, status, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, race, query,
		race.ID,
		race.Name,
		race.Description,
		race.Image,
		race.Location,
		race.StartDate,
		race.EndDate,
		race.RegistrationDeadline,
		race.MaxParticipants,
		race.Status,
		race.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create race: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*RaceWithCreator, error) {
	query := raceWithCreatorSelect + ` WHERE r.id = $1`

	var race RaceWithCreator
	err := r.db.GetContext(ctx, &race, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get race: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get race: %w", err)
	}

	return &race, nil
}

func (r *repository) List(
	ctx context.Context,
	filter ListFilter,
) ([]RaceWithCreator, error) {
	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Location != "" {
		conditions = append(conditions, fmt.Sprintf("r.location ILIKE $%d", argIdx))
		args = append(args, "%"+core.EscapeLike(filter.Location)+"%")
		argIdx++
	}

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("r.start_date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}

	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("r.start_date <= $%d", argIdx))
		args = append(args, *filter.To)
	}

	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY r.start_date ASC`,
		raceWithCreatorSelect, strings.Join(conditions, " AND "))

	races := []RaceWithCreator{}
	if err := r.db.SelectContext(ctx, &races, query, args...); err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}

	return races, nil
}

func (r *repository) Update(ctx context.Context, race *Race) error {
	query := `
		UPDATE races
		SET name = $2, description = $3, image = $4, location = $5,
		    start_date = $6, end_date = $7, registration_deadline = $8,
		    max_participants = $9, status = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &race.UpdatedAt, query,
		race.ID,
		race.Name,
		race.Description,
		race.Image,
		race.Location,
		race.StartDate,
		race.EndDate,
		race.RegistrationDeadline,
		race.MaxParticipants,
		race.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update race: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update race: %w", err)
	}

	return nil
}

// Delete removes the race and its registrations together and reports how
// many registrations went with it.
func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	var removed int64

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var locked string
		err := tx.GetContext(ctx, &locked,
			`SELECT id FROM races WHERE id = $1 FOR UPDATE`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM registrations WHERE race_id = $1`, id)
		if err != nil {
			return err
		}
		if removed, err = res.RowsAffected(); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM races WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete race: %w", err)
	}

	return removed, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}

	err := r.db.SelectContext(ctx, &rows,
		`SELECT status, COUNT(*) AS count FROM races GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count races by status: %w", err)
	}

	counts := make(map[string]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
