// AngelaMos | 2026
// handler.go

package registration

import (
	"errors"
	"net/http"

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
	r.Route("/registrations", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/", h.Create)
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Patch("/{registrationID}", h.Update)
			r.Delete("/{registrationID}", h.Delete)
		})
	})
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/admin/registrations", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)

		r.Post("/", h.AdminCreate)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRegistrationRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reg, err := h.service.Register(
		r.Context(),
		req.RaceID,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		writeRegistrationError(w, err, "race")
		return
	}

	core.Created(w, ToDetailResponse(reg))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		UserID: q.Get("userId"),
		RaceID: q.Get("raceId"),
		Status: q.Get("status"),
	}

	scoped, err := ScopeFilter(middleware.GetIdentity(r.Context()), filter)
	if err != nil {
		writeRegistrationError(w, err, "registration")
		return
	}

	if scoped.UserID != "" && !core.ValidUUID(scoped.UserID) {
		core.JSONError(w, core.ValidationError("userId must be a valid id"))
		return
	}
	if scoped.RaceID != "" && !core.ValidUUID(scoped.RaceID) {
		core.JSONError(w, core.ValidationError("raceId must be a valid id"))
		return
	}
	if scoped.Status != "" && !validStatus(scoped.Status) {
		core.JSONError(w, core.ValidationError("status must be one of [pending approved rejected]"))
		return
	}

	rows, err := h.service.List(r.Context(), middleware.GetIdentity(r.Context()), scoped)
	if err != nil {
		writeRegistrationError(w, err, "registration")
		return
	}

	core.OK(w, ToDetailResponseList(rows))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "registrationID")
	if !core.ValidUUID(id) {
		core.NotFound(w, "registration")
		return
	}

	var req UpdateRegistrationRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reg, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeRegistrationError(w, err, "registration")
		return
	}

	core.OK(w, ToRegistrationResponse(reg))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "registrationID")
	if !core.ValidUUID(id) {
		core.NotFound(w, "registration")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeRegistrationError(w, err, "registration")
		return
	}

	core.OK(w, map[string]string{"message": "Registration deleted successfully"})
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req AdminCreateRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reg, err := h.service.AdminCreate(r.Context(), req)
	if err != nil {
		writeRegistrationError(w, err, "user or race")
		return
	}

	core.Created(w, ToRegistrationResponse(reg))
}

func validStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// writeRegistrationError maps admission and storage errors onto the
// response envelope. resource names what a NotFound refers to.
func writeRegistrationError(w http.ResponseWriter, err error, resource string) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "cannot view another user's registrations")
	case errors.Is(err, ErrAlreadyRegistered):
		core.JSONError(w, core.ConflictError(
			"ALREADY_REGISTERED",
			"You are already registered for this race",
		))
	case errors.Is(err, ErrRegistrationNotOpen):
		core.JSONError(w, core.RejectionError(err,
			"REGISTRATION_NOT_OPEN",
			"Registration is not open for this race",
		))
	case errors.Is(err, ErrDeadlinePassed):
		core.JSONError(w, core.RejectionError(err,
			"DEADLINE_PASSED",
			"Registration deadline has passed",
		))
	case errors.Is(err, ErrRaceFull):
		core.JSONError(w, core.RejectionError(err,
			"RACE_FULL",
			"Race is full",
		))
	default:
		core.InternalServerError(w, err)
	}
}
