// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/trailrace/internal/core"
	"github.com/carterperez-dev/trailrace/internal/health"
	"github.com/carterperez-dev/trailrace/internal/middleware"
)

type DependencyChecker interface {
	Check(ctx context.Context) []health.HealthCheck
}

type RaceCounter interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type PendingCounter interface {
	CountPending(ctx context.Context) (int, error)
}

type Handler struct {
	deps       DependencyChecker
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	races      RaceCounter
	pending    PendingCounter
}

type HandlerConfig struct {
	Dependencies DependencyChecker
	DBStats      func() sql.DBStats
	RedisStats   func() *redis.PoolStats
	Races        RaceCounter
	Pending      PendingCounter
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		deps:       cfg.Dependencies,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		races:      cfg.Races,
		pending:    cfg.Pending,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/overview", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)

		r.Get("/", h.GetOverview)
	})
}

// GetOverview is the operator's landing view: dependency health, pool
// usage and the moderation backlog.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	racesByStatus := map[string]int{}
	if h.races != nil {
		counts, err := h.races.CountByStatus(ctx)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		racesByStatus = counts
	}

	pending := 0
	if h.pending != nil {
		n, err := h.pending.CountPending(ctx)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		pending = n
	}

	var checks []health.HealthCheck
	if h.deps != nil {
		checks = h.deps.Check(ctx)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	core.OK(w, OverviewResponse{
		Healthy:              health.AllHealthy(checks),
		Dependencies:         checks,
		Database:             h.getDBStats(),
		Redis:                h.getRedisStats(),
		RacesByStatus:        racesByStatus,
		PendingRegistrations: pending,
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     memStats.Alloc,
			NumGC:        memStats.NumGC,
		},
	})
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}

type OverviewResponse struct {
	Healthy              bool                 `json:"healthy"`
	Dependencies         []health.HealthCheck `json:"dependencies"`
	Database             *DBPoolStats         `json:"database,omitempty"`
	Redis                *RedisPoolStats      `json:"redis,omitempty"`
	RacesByStatus        map[string]int       `json:"racesByStatus"`
	PendingRegistrations int                  `json:"pendingRegistrations"`
	Runtime              RuntimeStats         `json:"runtime"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"maxOpenConnections"`
	OpenConnections    int    `json:"openConnections"`
	InUse              int    `json:"inUse"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"waitCount"`
	WaitDuration       string `json:"waitDuration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	MemAlloc     uint64 `json:"memAllocBytes"`
	NumGC        uint32 `json:"numGc"`
}
