package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/platform/auth"
	"github.com/loomhaven/api/internal/services"
)

// OrderService is the order surface the handlers need.
type OrderService interface {
	Create(ctx context.Context, in services.OrderInput, userID *uint) (*domain.Order, error)
	Get(ctx context.Context, id uint, userID *uint, staff bool) (*domain.Order, error)
	GetByReference(ctx context.Context, reference string, userID *uint, staff bool) (*domain.Order, error)
	List(ctx context.Context, userID *uint, staff bool) ([]domain.Order, error)
	MarkPaid(ctx context.Context, id uint) error
	MarkShipped(ctx context.Context, id uint) error
	MarkDelivered(ctx context.Context, id uint) error
	MarkCancelled(ctx context.Context, id uint) error
}

// OrderHandlers exposes the order endpoints. Creation is open to anonymous
// callers; reads are owner-or-staff; status actions are staff-only.
type OrderHandlers struct {
	orders   OrderService
	optional func(http.Handler) http.Handler
	staff    func(http.Handler) http.Handler
}

func NewOrderHandlers(orders OrderService, optional, staff func(http.Handler) http.Handler) *OrderHandlers {
	return &OrderHandlers{orders: orders, optional: optional, staff: staff}
}

// Routes registers the /orders endpoints.
func (h *OrderHandlers) Routes(r chi.Router) {
	r.Group(func(g chi.Router) {
		if h.optional != nil {
			g.Use(h.optional)
		}
		g.Post("/", h.create)
		g.Get("/", h.list)
		g.Get("/{id}", h.get)
		g.Get("/reference/{reference}", h.getByReference)
	})
	r.Group(func(g chi.Router) {
		if h.staff != nil {
			g.Use(h.staff)
		}
		g.Post("/{id}/mark-paid", h.statusAction(h.orders.MarkPaid))
		g.Post("/{id}/mark-shipped", h.statusAction(h.orders.MarkShipped))
		g.Post("/{id}/mark-delivered", h.statusAction(h.orders.MarkDelivered))
		g.Post("/{id}/mark-cancelled", h.statusAction(h.orders.MarkCancelled))
	})
}

func (h *OrderHandlers) create(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	if !decodeBody(w, r, &in) {
		return
	}
	userID, _ := callerIdentity(r)
	order, err := h.orders.Create(r.Context(), in, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, order)
}

func (h *OrderHandlers) list(w http.ResponseWriter, r *http.Request) {
	userID, staff := callerIdentity(r)
	orders, err := h.orders.List(r.Context(), userID, staff)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *OrderHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	userID, staff := callerIdentity(r)
	order, err := h.orders.Get(r.Context(), id, userID, staff)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, order)
}

func (h *OrderHandlers) getByReference(w http.ResponseWriter, r *http.Request) {
	userID, staff := callerIdentity(r)
	order, err := h.orders.GetByReference(r.Context(), chi.URLParam(r, "reference"), userID, staff)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, order)
}

func (h *OrderHandlers) statusAction(action func(ctx context.Context, id uint) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		if err := action(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// callerIdentity extracts the authenticated user, if any.
func callerIdentity(r *http.Request) (*uint, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return nil, false
	}
	userID := id.UserID
	return &userID, id.Staff
}
