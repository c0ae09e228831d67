package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/platform/httpx"
)

// SubCategoryHandlers exposes the subcategory endpoints.
type SubCategoryHandlers struct {
	catalog CatalogService
	facets  FacetService
	staff   func(http.Handler) http.Handler
}

func NewSubCategoryHandlers(catalog CatalogService, facets FacetService, staff func(http.Handler) http.Handler) *SubCategoryHandlers {
	return &SubCategoryHandlers{catalog: catalog, facets: facets, staff: staff}
}

// Routes registers the /subcategories endpoints. Mutations are staff-only.
func (h *SubCategoryHandlers) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.get)
	r.Get("/{slug}/filters", h.filters)
	r.Group(func(g chi.Router) {
		if h.staff != nil {
			g.Use(h.staff)
		}
		g.Post("/", h.create)
		g.Put("/{id}", h.update)
		g.Delete("/{id}", h.delete)
	})
}

func (h *SubCategoryHandlers) list(w http.ResponseWriter, r *http.Request) {
	// Exact-slug lookup short-circuits the scoped listing.
	if slug := r.URL.Query().Get("slug"); slug != "" {
		subcategory, err := h.catalog.GetSubCategory(r.Context(), slug)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, map[string]any{"subcategories": []domain.SubCategory{*subcategory}})
		return
	}
	raw := r.URL.Query().Get("category_id")
	if raw == "" {
		httpx.BadRequest(w, r, "category_id is required")
		return
	}
	categoryID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || categoryID == 0 {
		httpx.BadRequest(w, r, "invalid category_id")
		return
	}
	subcategories, err := h.catalog.ListSubCategories(r.Context(), uint(categoryID))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"subcategories": subcategories})
}

func (h *SubCategoryHandlers) get(w http.ResponseWriter, r *http.Request) {
	subcategory, err := h.catalog.GetSubCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, subcategory)
}

func (h *SubCategoryHandlers) filters(w http.ResponseWriter, r *http.Request) {
	facets, err := h.facets.FacetsForSubCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"filters": facets})
}

func (h *SubCategoryHandlers) create(w http.ResponseWriter, r *http.Request) {
	var subcategory domain.SubCategory
	if !decodeBody(w, r, &subcategory) {
		return
	}
	if err := h.catalog.CreateSubCategory(r.Context(), &subcategory); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, subcategory)
}

func (h *SubCategoryHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var subcategory domain.SubCategory
	if !decodeBody(w, r, &subcategory) {
		return
	}
	subcategory.ID = id
	if err := h.catalog.UpdateSubCategory(r.Context(), &subcategory); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, subcategory)
}

func (h *SubCategoryHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteSubCategory(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
