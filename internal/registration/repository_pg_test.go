// AngelaMos | 2026
// repository_pg_test.go

package registration

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/trailrace/internal/core"
	"github.com/carterperez-dev/trailrace/internal/race"
	"github.com/carterperez-dev/trailrace/internal/user"
)

// These tests run against a real Postgres when TRAILRACE_TEST_DATABASE_URL
// is set and are skipped otherwise.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv("TRAILRACE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TRAILRACE_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "pgx", url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := core.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUsers(t *testing.T, db *sqlx.DB, n int) []string {
	t.Helper()

	users := user.NewRepository(db)
	ids := make([]string, 0, n)
	for range n {
		id := uuid.New().String()
		err := users.Create(t.Context(), &user.User{
			ID:    id,
			Email: id + "@example.com",
			Name:  "Runner",
			Role:  "user",
		})
		if err != nil {
			t.Fatalf("seed user: %v", err)
		}
		ids = append(ids, id)
	}
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(),
			`DELETE FROM users WHERE id = ANY($1)`, ids)
	})
	return ids
}

func seedRace(t *testing.T, db *sqlx.DB, creatorID string, limit *int) string {
	t.Helper()

	now := time.Now().UTC()
	rc := &race.Race{
		ID:                   uuid.New().String(),
		Name:                 "Col du Test",
		Description:          "Integration fixture race",
		Location:             "Annecy",
		StartDate:            now.Add(30 * 24 * time.Hour),
		EndDate:              now.Add(31 * 24 * time.Hour),
		RegistrationDeadline: now.Add(7 * 24 * time.Hour),
		MaxParticipants:      limit,
		Status:               race.StatusRegistrationOpen,
		CreatedBy:            creatorID,
	}
	if err := race.NewRepository(db).Create(t.Context(), rc); err != nil {
		t.Fatalf("seed race: %v", err)
	}
	t.Cleanup(func() { _, _ = race.NewRepository(db).Delete(context.Background(), rc.ID) })
	return rc.ID
}

func TestPostgresAdmissionUnderContention(t *testing.T) {
	db := openTestDB(t)
	users := seedUsers(t, db, 8)
	raceID := seedRace(t, db, users[0], intPtr(3))

	repo := NewRepository(db)
	a := NewAdmission(repo, nil, nil)

	var wg sync.WaitGroup
	results := make([]error, len(users))
	for i, uid := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = a.Admit(context.Background(), raceID, uid)
		}()
	}
	wg.Wait()

	admitted := 0
	for _, err := range results {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, ErrRaceFull):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if admitted != 3 {
		t.Fatalf("admitted = %d, want 3", admitted)
	}

	n, err := repo.CountByStatus(t.Context(), raceID, StatusApproved)
	if err != nil || n != 3 {
		t.Fatalf("stored approved = %d, %v; want 3", n, err)
	}
}

func TestPostgresSameUserFanOut(t *testing.T) {
	db := openTestDB(t)
	users := seedUsers(t, db, 1)
	raceID := seedRace(t, db, users[0], nil)

	repo := NewRepository(db)
	a := NewAdmission(repo, nil, nil)

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = a.Admit(context.Background(), raceID, users[0])
		}()
	}
	wg.Wait()

	admitted, duplicates := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, ErrAlreadyRegistered):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if admitted != 1 || duplicates != attempts-1 {
		t.Fatalf("admitted = %d, duplicates = %d; want 1 and %d",
			admitted, duplicates, attempts-1)
	}

	rows, err := repo.List(t.Context(), ListFilter{UserID: users[0], RaceID: raceID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("stored registrations for pair = %d, want 1", len(rows))
	}
}

func TestPostgresGetDetailJoinsUserAndRace(t *testing.T) {
	db := openTestDB(t)
	users := seedUsers(t, db, 1)
	raceID := seedRace(t, db, users[0], nil)
	repo := NewRepository(db)

	reg, err := NewAdmission(repo, nil, nil).Admit(t.Context(), raceID, users[0])
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}

	row, err := repo.GetDetail(t.Context(), reg.ID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if row.UserEmail != users[0]+"@example.com" || row.UserName != "Runner" {
		t.Errorf("user fields = %q %q", row.UserName, row.UserEmail)
	}
	if row.RaceName != "Col du Test" || row.RaceLocation != "Annecy" ||
		row.RaceStatus != race.StatusRegistrationOpen {
		t.Errorf("race fields = %q %q %q", row.RaceName, row.RaceLocation, row.RaceStatus)
	}

	if _, err := repo.GetDetail(t.Context(), uuid.New().String()); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("GetDetail unknown = %v, want ErrNotFound", err)
	}
}

func TestPostgresUniquePairIsAuthoritative(t *testing.T) {
	db := openTestDB(t)
	users := seedUsers(t, db, 1)
	raceID := seedRace(t, db, users[0], nil)
	repo := NewRepository(db)

	first := &Registration{ID: uuid.New().String(), UserID: users[0], RaceID: raceID,
		RegisteredAt: time.Now().UTC(), Status: StatusApproved}
	if err := repo.Create(t.Context(), first); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	second := &Registration{ID: uuid.New().String(), UserID: users[0], RaceID: raceID,
		RegisteredAt: time.Now().UTC(), Status: StatusPending}
	if err := repo.Create(t.Context(), second); !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("second insert err = %v, want ErrDuplicateKey", err)
	}
}

func TestPostgresRaceDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	users := seedUsers(t, db, 2)
	raceID := seedRace(t, db, users[0], nil)
	repo := NewRepository(db)
	a := NewAdmission(repo, nil, nil)

	for _, uid := range users {
		if _, err := a.Admit(t.Context(), raceID, uid); err != nil {
			t.Fatalf("Admit: %v", err)
		}
	}

	removed, err := race.NewRepository(db).Delete(t.Context(), raceID)
	if err != nil {
		t.Fatalf("delete race: %v", err)
	}
	if removed != 2 {
		t.Errorf("registrations removed = %d, want 2", removed)
	}

	rows, err := repo.List(t.Context(), ListFilter{RaceID: raceID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("registrations left = %d, want 0", len(rows))
	}
}
