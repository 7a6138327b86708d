// AngelaMos | 2026
// service_test.go

package race

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/carterperez-dev/trailrace/internal/core"
)

type fakeRepo struct {
	mu    sync.Mutex
	races map[string]*Race
}

func newFakeRepo(races ...*Race) *fakeRepo {
	f := &fakeRepo{races: make(map[string]*Race)}
	for _, r := range races {
		f.races[r.ID] = r
	}
	return f
}

func (f *fakeRepo) Create(_ context.Context, race *Race) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	race.CreatedAt = time.Now()
	race.UpdatedAt = race.CreatedAt
	cp := *race
	f.races[race.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*RaceWithCreator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.races[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &RaceWithCreator{Race: *r, CreatorName: "Root", CreatorEmail: "root@example.com"}, nil
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]RaceWithCreator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []RaceWithCreator{}
	for _, r := range f.races {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Location != "" &&
			!strings.Contains(strings.ToLower(r.Location), strings.ToLower(filter.Location)) {
			continue
		}
		if filter.From != nil && r.StartDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && r.StartDate.After(*filter.To) {
			continue
		}
		out = append(out, RaceWithCreator{Race: *r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, race *Race) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.races[race.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *race
	f.races[race.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.races[id]; !ok {
		return 0, core.ErrNotFound
	}
	delete(f.races, id)
	return 0, nil
}

func (f *fakeRepo) CountByStatus(context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, r := range f.races {
		counts[r.Status]++
	}
	return counts, nil
}

type fakeLookup struct {
	approved map[string]int
	mine     map[string]*RegistrationSummary
}

func (f fakeLookup) CountApproved(_ context.Context, raceID string) (int, error) {
	return f.approved[raceID], nil
}

func (f fakeLookup) FindForUser(_ context.Context, raceID, userID string) (*RegistrationSummary, error) {
	return f.mine[raceID+"/"+userID], nil
}

const (
	raceID  = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	userID  = "11111111-1111-1111-1111-111111111111"
	adminID = "33333333-3333-3333-3333-333333333333"
)

var baseStart = time.Date(2026, 9, 12, 7, 0, 0, 0, time.UTC)

func sampleRace() *Race {
	limit := 150
	return &Race{
		ID:                   raceID,
		Name:                 "Vertical K",
		Description:          "One kilometre of climbing in five kilometres.",
		Location:             "Chamonix",
		StartDate:            baseStart,
		EndDate:              baseStart.Add(6 * time.Hour),
		RegistrationDeadline: baseStart.Add(-7 * 24 * time.Hour),
		MaxParticipants:      &limit,
		Status:               StatusRegistrationOpen,
		CreatedBy:            adminID,
	}
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name     string
		end      time.Time
		deadline time.Time
		ok       bool
	}{
		{"valid", baseStart.Add(time.Hour), baseStart.Add(-time.Hour), true},
		{"same instants", baseStart, baseStart, true},
		{"end before start", baseStart.Add(-time.Minute), baseStart.Add(-time.Hour), false},
		{"deadline after start", baseStart.Add(time.Hour), baseStart.Add(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(baseStart, tt.end, tt.deadline)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				appErr, ok := core.AsAppError(err)
				if !ok || appErr.StatusCode != http.StatusBadRequest {
					t.Fatalf("err = %v, want 400 validation error", err)
				}
			}
		})
	}
}

func TestUpdateChecksMergedSchedule(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(sampleRace()), fakeLookup{})

	lateDeadline := baseStart.Add(time.Hour)
	_, err := svc.Update(ctx, raceID, UpdateRaceRequest{RegistrationDeadline: &lateDeadline})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("Update(deadline after start) = %v, want validation error", err)
	}

	earlyStart := baseStart.Add(-30 * 24 * time.Hour)
	_, err = svc.Update(ctx, raceID, UpdateRaceRequest{StartDate: &earlyStart})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("Update(start before deadline) = %v, want validation error", err)
	}

	closed := StatusCompleted
	name := "Vertical K 2026"
	updated, err := svc.Update(ctx, raceID, UpdateRaceRequest{Status: &closed, Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != StatusCompleted || updated.Name != name {
		t.Fatalf("updated = %+v", updated.Race)
	}

	reopened := StatusRegistrationOpen
	if _, err := svc.Update(ctx, raceID, UpdateRaceRequest{Status: &reopened}); err != nil {
		t.Fatalf("any status may follow any status: %v", err)
	}

	if _, err := svc.Update(ctx, "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb", UpdateRaceRequest{}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Update(missing) = %v, want ErrNotFound", err)
	}
}

func TestCreateDefaultsStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), fakeLookup{})

	created, err := svc.Create(ctx, adminID, CreateRaceRequest{
		Name:                 " Skyrace ",
		Description:          "Ridge line race over three summits.",
		Location:             "Zermatt",
		StartDate:            baseStart,
		EndDate:              baseStart.Add(8 * time.Hour),
		RegistrationDeadline: baseStart.Add(-24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != StatusUpcoming || created.Name != "Skyrace" || created.CreatedBy != adminID {
		t.Fatalf("created = %+v", created.Race)
	}

	_, err = svc.Create(ctx, adminID, CreateRaceRequest{
		Name:                 "Backwards",
		Description:          "Ends before it begins, which is odd.",
		Location:             "Nowhere",
		StartDate:            baseStart,
		EndDate:              baseStart.Add(-time.Hour),
		RegistrationDeadline: baseStart.Add(-24 * time.Hour),
	})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("Create(end before start) = %v, want validation error", err)
	}
}

func TestDetailIncludesRegistrationData(t *testing.T) {
	ctx := context.Background()
	mine := &RegistrationSummary{ID: "reg-1", Status: "approved"}
	svc := NewService(newFakeRepo(sampleRace()), fakeLookup{
		approved: map[string]int{raceID: 42},
		mine:     map[string]*RegistrationSummary{raceID + "/" + userID: mine},
	})

	anon, err := svc.Detail(ctx, raceID, "")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if anon.RegistrationCount != 42 || anon.UserRegistration != nil {
		t.Fatalf("anonymous detail = %+v", anon)
	}

	own, err := svc.Detail(ctx, raceID, userID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if own.UserRegistration == nil || own.UserRegistration.ID != "reg-1" {
		t.Fatalf("own registration = %+v", own.UserRegistration)
	}
}

func TestHasCapacity(t *testing.T) {
	r := sampleRace()
	two := 2
	r.MaxParticipants = &two

	if !r.HasCapacity(1) || r.HasCapacity(2) || r.HasCapacity(3) {
		t.Fatal("capacity of 2 computed wrong")
	}

	r.MaxParticipants = nil
	if !r.HasCapacity(10000) {
		t.Fatal("unlimited race reported full")
	}
}
