// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/trailrace/internal/health"
	"github.com/carterperez-dev/trailrace/internal/middleware"
)

type stubResolver struct {
	id *middleware.Identity
}

func (s stubResolver) ResolveRequest(*http.Request) *middleware.Identity {
	return s.id
}

type staticRaces map[string]int

func (s staticRaces) CountByStatus(context.Context) (map[string]int, error) {
	return s, nil
}

type staticPending struct {
	n   int
	err error
}

func (s staticPending) CountPending(context.Context) (int, error) {
	return s.n, s.err
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newOverviewRouter(caller *middleware.Identity, pending PendingCounter) http.Handler {
	deps := health.NewHandler(
		health.Dependency{Name: "database", Checker: pingFunc(func(context.Context) error { return nil })},
		health.Dependency{Name: "redis", Checker: pingFunc(func(context.Context) error { return errors.New("down") })},
	)

	h := NewHandler(HandlerConfig{
		Dependencies: deps,
		DBStats:      func() sql.DBStats { return sql.DBStats{MaxOpenConnections: 25, InUse: 3} },
		Races:        staticRaces{"registration_open": 2, "completed": 5},
		Pending:      pending,
	})

	r := chi.NewRouter()
	r.Use(middleware.Session(stubResolver{id: caller}))
	h.RegisterRoutes(r)
	return r
}

func getOverview(h http.Handler) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/overview", nil))
	return rec
}

func TestOverviewAccess(t *testing.T) {
	tests := []struct {
		name   string
		caller *middleware.Identity
		want   int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"runner", &middleware.Identity{ID: "u1", Role: middleware.RoleUser}, http.StatusForbidden},
		{"admin", &middleware.Identity{ID: "a1", Role: middleware.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getOverview(newOverviewRouter(tt.caller, staticPending{n: 4}))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestOverviewBody(t *testing.T) {
	admin := &middleware.Identity{ID: "a1", Role: middleware.RoleAdmin}
	rec := getOverview(newOverviewRouter(admin, staticPending{n: 4}))

	var body OverviewResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if body.Healthy {
		t.Error("healthy = true with redis down")
	}
	if len(body.Dependencies) != 2 || body.Dependencies[1].Healthy {
		t.Errorf("dependencies = %+v", body.Dependencies)
	}
	if body.PendingRegistrations != 4 {
		t.Errorf("pending = %d, want 4", body.PendingRegistrations)
	}
	if body.RacesByStatus["completed"] != 5 {
		t.Errorf("racesByStatus = %v", body.RacesByStatus)
	}
	if body.Database == nil || body.Database.InUse != 3 {
		t.Errorf("database = %+v", body.Database)
	}
	if body.Redis != nil {
		t.Errorf("redis stats = %+v, want omitted", body.Redis)
	}
}

func TestOverviewCountFailure(t *testing.T) {
	admin := &middleware.Identity{ID: "a1", Role: middleware.RoleAdmin}
	rec := getOverview(newOverviewRouter(admin, staticPending{err: errors.New("db gone")}))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
