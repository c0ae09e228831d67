package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loomhaven/api/internal/domain"
)

// DimensionService is the measurement-template surface the handlers need.
type DimensionService interface {
	ListTemplates(ctx context.Context) ([]domain.DimensionTemplate, error)
	GetTemplate(ctx context.Context, id uint) (*domain.DimensionTemplate, error)
	CreateTemplate(ctx context.Context, t *domain.DimensionTemplate) error
	UpdateTemplate(ctx context.Context, t *domain.DimensionTemplate) error
	DeleteTemplate(ctx context.Context, id uint) error
	LinkProduct(ctx context.Context, productID, templateID uint, allowOverrides bool) error
	UnlinkProduct(ctx context.Context, productID uint) error
	MergedForProduct(ctx context.Context, productID uint) ([]domain.MergedDimensionRow, error)
}

// DimensionHandlers exposes dimension-template endpoints plus the per-product
// link endpoints mounted under /products.
type DimensionHandlers struct {
	dimensions DimensionService
	staff      func(http.Handler) http.Handler
}

func NewDimensionHandlers(dimensions DimensionService, staff func(http.Handler) http.Handler) *DimensionHandlers {
	return &DimensionHandlers{dimensions: dimensions, staff: staff}
}

// Routes registers the /dimension-templates endpoints. Mutations are
// staff-only.
func (h *DimensionHandlers) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Group(func(g chi.Router) {
		if h.staff != nil {
			g.Use(h.staff)
		}
		g.Post("/", h.create)
		g.Put("/{id}", h.update)
		g.Delete("/{id}", h.delete)
	})
}

// ProductRoutes registers the template-link endpoints inside the /products
// group.
func (h *DimensionHandlers) ProductRoutes(r chi.Router) {
	r.Get("/{id}/dimensions", h.merged)
	r.Group(func(g chi.Router) {
		if h.staff != nil {
			g.Use(h.staff)
		}
		g.Put("/{id}/dimension-template", h.link)
		g.Delete("/{id}/dimension-template", h.unlink)
	})
}

type linkTemplateRequest struct {
	TemplateID     uint  `json:"template_id"`
	AllowOverrides *bool `json:"allow_overrides"`
}

func (h *DimensionHandlers) list(w http.ResponseWriter, r *http.Request) {
	templates, err := h.dimensions.ListTemplates(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"templates": templates})
}

func (h *DimensionHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	template, err := h.dimensions.GetTemplate(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, template)
}

func (h *DimensionHandlers) create(w http.ResponseWriter, r *http.Request) {
	var template domain.DimensionTemplate
	if !decodeBody(w, r, &template) {
		return
	}
	if err := h.dimensions.CreateTemplate(r.Context(), &template); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, template)
}

func (h *DimensionHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var template domain.DimensionTemplate
	if !decodeBody(w, r, &template) {
		return
	}
	template.ID = id
	if err := h.dimensions.UpdateTemplate(r.Context(), &template); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, template)
}

func (h *DimensionHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.dimensions.DeleteTemplate(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DimensionHandlers) merged(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	rows, err := h.dimensions.MergedForProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"dimensions": rows})
}

func (h *DimensionHandlers) link(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req linkTemplateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	allowOverrides := true
	if req.AllowOverrides != nil {
		allowOverrides = *req.AllowOverrides
	}
	if err := h.dimensions.LinkProduct(r.Context(), id, req.TemplateID, allowOverrides); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DimensionHandlers) unlink(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.dimensions.UnlinkProduct(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
