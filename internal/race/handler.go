// AngelaMos | 2026
// handler.go

package race

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/trailrace/internal/core"
	"github.com/carterperez-dev/trailrace/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/races", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{raceID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/", h.Create)
			r.Put("/{raceID}", h.Update)
			r.Delete("/{raceID}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	races, err := h.service.List(r.Context(), filter)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToRaceResponseList(races))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	raceID := chi.URLParam(r, "raceID")
	if !core.ValidUUID(raceID) {
		core.NotFound(w, "race")
		return
	}

	detail, err := h.service.Detail(
		r.Context(),
		raceID,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		writeRaceError(w, err)
		return
	}

	core.OK(w, detail)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRaceRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	race, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		writeRaceError(w, err)
		return
	}

	core.Created(w, ToRaceResponse(race))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	raceID := chi.URLParam(r, "raceID")
	if !core.ValidUUID(raceID) {
		core.NotFound(w, "race")
		return
	}

	var req UpdateRaceRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	race, err := h.service.Update(r.Context(), raceID, req)
	if err != nil {
		writeRaceError(w, err)
		return
	}

	core.OK(w, ToRaceResponse(race))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	raceID := chi.URLParam(r, "raceID")
	if !core.ValidUUID(raceID) {
		core.NotFound(w, "race")
		return
	}

	if err := h.service.Delete(r.Context(), raceID); err != nil {
		writeRaceError(w, err)
		return
	}

	core.OK(w, map[string]string{"message": "Race deleted successfully"})
}

func writeRaceError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "race")
		return
	}
	core.InternalServerError(w, err)
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{
		Status:   q.Get("status"),
		Location: q.Get("location"),
	}

	if filter.Status != "" && !ValidStatus(filter.Status) {
		return filter, core.ValidationError("status is not a known race status")
	}

	var err error
	if filter.From, err = parseDateQuery(q.Get("startDate"), false); err != nil {
		return filter, core.ValidationError("startDate must be RFC3339 or YYYY-MM-DD")
	}
	if filter.To, err = parseDateQuery(q.Get("endDate"), true); err != nil {
		return filter, core.ValidationError("endDate must be RFC3339 or YYYY-MM-DD")
	}

	return filter, nil
}

// parseDateQuery accepts RFC3339 or a bare date. A bare upper bound covers
// the whole day.
func parseDateQuery(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}

	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
