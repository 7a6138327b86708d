// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/carterperez-dev/trailrace/internal/config"
	"github.com/carterperez-dev/trailrace/internal/core"
)

type flagDrainer struct {
	down atomic.Bool
}

func (d *flagDrainer) SetShutdown(shutdown bool) { d.down.Store(shutdown) }

func TestUnknownRoutesUseErrorEnvelope(t *testing.T) {
	srv := New(Config{ServerConfig: config.ServerConfig{Host: "127.0.0.1", Port: 0}})
	srv.Router().Get("/api/races", func(w http.ResponseWriter, r *http.Request) {
		core.OK(w, []string{})
	})

	tests := []struct {
		method string
		path   string
		want   int
		code   string
	}{
		{http.MethodGet, "/api/nowhere", http.StatusNotFound, "NOT_FOUND"},
		{http.MethodDelete, "/api/races", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Fatalf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}

		var body core.ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error.Code != tt.code {
			t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
		}
	}
}

func TestShutdownMarksDraining(t *testing.T) {
	drainer := &flagDrainer{}
	srv := New(Config{
		ServerConfig:  config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second},
		HealthHandler: drainer,
	})

	if err := srv.Shutdown(context.Background(), 0); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !drainer.down.Load() {
		t.Fatal("health handler was not told about shutdown")
	}
}

func TestShutdownHonoursContextDuringDrain(t *testing.T) {
	srv := New(Config{ServerConfig: config.ServerConfig{Host: "127.0.0.1"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := srv.Shutdown(ctx, time.Minute); err == nil {
		t.Fatal("expected context error while draining")
	}
}
