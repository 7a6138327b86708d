// AngelaMos | 2026
// handler.go

package auth

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
	sessions  *SessionResolver
	validator *validator.Validate
}

func NewHandler(service *Service, sessions *SessionResolver) *Handler {
	return &Handler{
		service:   service,
		sessions:  sessions,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts /auth. authLimit guards the credential endpoints
// and may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authLimit func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if authLimit != nil {
				r.Use(authLimit)
			}
			r.Post("/register", h.Register)
			r.Post("/signin", h.SignIn)
		})

		r.Post("/signout", h.SignOut)
		r.Get("/session", h.GetSession)

		r.With(middleware.RequireAdmin).Post("/switch-role", h.SwitchRole)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			core.JSONError(w, core.DuplicateError("email"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, AuthResponse{
		Message: "User created successfully",
		User:    *user,
	})
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.service.SignIn(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(w, core.NewAppError(
				core.ErrUnauthorized,
				"invalid email or password",
				http.StatusUnauthorized,
				"INVALID_CREDENTIALS",
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.sessions.SetCookie(w, res.Token)
	core.OK(w, AuthResponse{
		Message: "Signed in successfully",
		User:    res.User,
	})
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	core.OK(w, MessageResponse{Message: "Signed out successfully"})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Resolve(r)
	if sess == nil {
		core.OK(w, SessionResponse{})
		return
	}

	core.OK(w, SessionResponse{Session: &SessionView{
		User:    ToUserResponse(sess.User),
		Expires: sess.Expires,
	}})
}

func (h *Handler) SwitchRole(w http.ResponseWriter, r *http.Request) {
	var req SwitchRoleRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	current := middleware.GetIdentity(r.Context())

	res, err := h.service.SwitchRole(r.Context(), *current, req.Role)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.sessions.SetCookie(w, res.Token)
	core.OK(w, SwitchRoleResponse{
		Message: "Role switched successfully",
		Role:    res.User.Role,
	})
}
