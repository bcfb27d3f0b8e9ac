package items

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
	"github.com/shelfspace/shelfspace/internal/shared"
)

// Handler wires HTTP endpoints for item CRUD and listing.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers item routes; callers mount these behind the guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type itemRequest struct {
	CategoryID      *uuid.UUID `json:"categoryId,omitempty"`
	Title           string     `json:"title" validate:"required,min=1,max=120"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	ImageURL        *string    `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Price           float64    `json:"price" validate:"gte=0"`
	AcquisitionDate *time.Time `json:"acquisitionDate,omitempty"`
}

func (req itemRequest) toInput() CreateInput {
	return CreateInput{
		CategoryID:      req.CategoryID,
		Title:           req.Title,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		Price:           req.Price,
		AcquisitionDate: req.AcquisitionDate,
	}
}

// parseListFilter maps query parameters onto a ListFilter. Unparseable
// numeric or date values are ignored rather than rejected, matching the
// lenient listing behavior of the web client.
func parseListFilter(r *http.Request) ListFilter {
	q := r.URL.Query()
	filter := ListFilter{
		Search: q.Get("search"),
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	if id, err := uuid.Parse(q.Get("category")); err == nil {
		filter.CategoryID = &id
	}
	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if t, err := time.Parse("2006-01-02", q.Get("startDate")); err == nil {
		filter.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", q.Get("endDate")); err == nil {
		filter.EndDate = &t
	}
	return filter
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	page, err := h.service.List(r.Context(), userID, parseListFilter(r))
	if err != nil {
		h.logger.Error("list items", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	item, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req itemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	item, err := h.service.Create(r.Context(), userID, req.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req itemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	item, err := h.service.Update(r.Context(), id, userID, req.toInput())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
