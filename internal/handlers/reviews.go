package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/platform/httpx"
	"github.com/loomhaven/api/internal/services"
)

// ReviewService is the review surface the handlers need.
type ReviewService interface {
	Create(ctx context.Context, in services.ReviewInput, creatorID *uint, staff bool) (*domain.Review, error)
	List(ctx context.Context, productID uint, staff bool) ([]domain.Review, error)
	Moderate(ctx context.Context, id uint, in services.ReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, id uint) error
}

// ReviewHandlers exposes the review endpoints. Anyone may submit a review;
// moderation is staff-only.
type ReviewHandlers struct {
	reviews  ReviewService
	optional func(http.Handler) http.Handler
	staff    func(http.Handler) http.Handler
}

func NewReviewHandlers(reviews ReviewService, optional, staff func(http.Handler) http.Handler) *ReviewHandlers {
	return &ReviewHandlers{reviews: reviews, optional: optional, staff: staff}
}

// Routes registers the /reviews endpoints.
func (h *ReviewHandlers) Routes(r chi.Router) {
	r.Group(func(g chi.Router) {
		if h.optional != nil {
			g.Use(h.optional)
		}
		g.Post("/", h.create)
		g.Get("/", h.list)
	})
	r.Group(func(g chi.Router) {
		if h.staff != nil {
			g.Use(h.staff)
		}
		g.Put("/{id}", h.moderate)
		g.Delete("/{id}", h.delete)
	})
}

func (h *ReviewHandlers) create(w http.ResponseWriter, r *http.Request) {
	var in services.ReviewInput
	if !decodeBody(w, r, &in) {
		return
	}
	userID, staff := callerIdentity(r)
	review, err := h.reviews.Create(r.Context(), in, userID, staff)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, review)
}

func (h *ReviewHandlers) list(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("product_id")
	productID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || productID == 0 {
		httpx.BadRequest(w, r, "product_id is required")
		return
	}
	_, staff := callerIdentity(r)
	reviews, err := h.reviews.List(r.Context(), uint(productID), staff)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"reviews": reviews})
}

func (h *ReviewHandlers) moderate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var in services.ReviewInput
	if !decodeBody(w, r, &in) {
		return
	}
	review, err := h.reviews.Moderate(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, review)
}

func (h *ReviewHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.reviews.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
