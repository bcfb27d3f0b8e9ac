package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
	"github.com/shelfspace/shelfspace/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	throttle  *Throttler
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, throttle *Throttler) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		throttle:  throttle,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router. The guard wraps
// only the routes that require an authenticated caller.
func (h *Handler) MountRoutes(r chi.Router, guard *Guard) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth)
		r.Post("/logout", h.handleLogout)
		r.Post("/refresh", h.handleRefresh)
		r.Get("/me", h.handleMe)
	})
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required,min=6,max=100"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *Handler) fieldErrors(req any) map[string]string {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		fields[fieldErr.Field()] = fieldErr.Error()
	}
	return fields
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	// Throttle before validation and credential work, mirroring the guard
	// order at the boundary.
	if h.throttle.LimitRegister(w, r, req.Email) {
		return
	}
	fields := h.fieldErrors(req)
	if !UsernameRE.MatchString(req.Username) {
		if fields == nil {
			fields = make(map[string]string)
		}
		fields["Username"] = "must be 3-20 characters of letters, digits, '-' or '_'"
	}
	if len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		h.logError("register", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if h.throttle.LimitLogin(w, r, req.Identifier) {
		return
	}
	if fields := h.fieldErrors(req); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	pair, err := h.service.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pair)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	if err := h.service.Logout(r.Context(), userID); err != nil {
		h.logError("logout", err)
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if fields := h.fieldErrors(req); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	pair, err := h.service.Refresh(r.Context(), userID, req.RefreshToken)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pair)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

// logError records failures server-side; the response body never carries
// internals beyond what RespondError maps.
func (h *Handler) logError(op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err))
	}
}
