package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/repositories"
)

// CatalogService is the taxonomy surface the category handlers need.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, slug string) (*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id uint) error
	ListSubCategories(ctx context.Context, categoryID uint) ([]domain.SubCategory, error)
	GetSubCategory(ctx context.Context, slug string) (*domain.SubCategory, error)
	CreateSubCategory(ctx context.Context, sc *domain.SubCategory) error
	UpdateSubCategory(ctx context.Context, sc *domain.SubCategory) error
	DeleteSubCategory(ctx context.Context, id uint) error
}

// FacetService answers facet-sidebar queries for a taxonomy scope.
type FacetService interface {
	FacetsForCategory(ctx context.Context, categorySlug string) ([]repositories.Facet, error)
	FacetsForSubCategory(ctx context.Context, slug string) ([]repositories.Facet, error)
}

// CategoryHandlers exposes the category endpoints.
type CategoryHandlers struct {
	catalog CatalogService
	facets  FacetService
	staff   func(http.Handler) http.Handler
}

func NewCategoryHandlers(catalog CatalogService, facets FacetService, staff func(http.Handler) http.Handler) *CategoryHandlers {
	return &CategoryHandlers{catalog: catalog, facets: facets, staff: staff}
}

// Routes registers the /categories endpoints. Mutations are staff-only.
func (h *CategoryHandlers) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.get)
	r.Get("/{slug}/filters", h.filters)
	r.Get("/{slug}/subcategories", h.subcategories)
	r.Group(func(g chi.Router) {
		if h.staff != nil {
			g.Use(h.staff)
		}
		g.Post("/", h.create)
		g.Put("/{id}", h.update)
		g.Delete("/{id}", h.delete)
	})
}

func (h *CategoryHandlers) list(w http.ResponseWriter, r *http.Request) {
	// Exact-slug lookup short-circuits the full listing.
	if slug := r.URL.Query().Get("slug"); slug != "" {
		category, err := h.catalog.GetCategory(r.Context(), slug)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, map[string]any{"categories": []domain.Category{*category}})
		return
	}
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *CategoryHandlers) get(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.GetCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, category)
}

func (h *CategoryHandlers) filters(w http.ResponseWriter, r *http.Request) {
	facets, err := h.facets.FacetsForCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"filters": facets})
}

func (h *CategoryHandlers) subcategories(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.GetCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	subcategories, err := h.catalog.ListSubCategories(r.Context(), category.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"subcategories": subcategories})
}

func (h *CategoryHandlers) create(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if !decodeBody(w, r, &category) {
		return
	}
	if err := h.catalog.CreateCategory(r.Context(), &category); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, category)
}

func (h *CategoryHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var category domain.Category
	if !decodeBody(w, r, &category) {
		return
	}
	category.ID = id
	if err := h.catalog.UpdateCategory(r.Context(), &category); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, category)
}

func (h *CategoryHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
