package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/loomhaven/api/internal/domain"
)

// FilterAdminService is the facet-taxonomy surface the filter handlers need.
type FilterAdminService interface {
	ListFilterTypes(ctx context.Context, activeOnly bool) ([]domain.FilterType, error)
	GetFilterType(ctx context.Context, id uint) (*domain.FilterType, error)
	CreateFilterType(ctx context.Context, ft *domain.FilterType) error
	UpdateFilterType(ctx context.Context, ft *domain.FilterType) error
	DeleteFilterType(ctx context.Context, id uint) error
	GetFilterOption(ctx context.Context, id uint) (*domain.FilterOption, error)
	CreateFilterOption(ctx context.Context, fo *domain.FilterOption) error
	UpdateFilterOption(ctx context.Context, fo *domain.FilterOption) error
	DeleteFilterOption(ctx context.Context, id uint) error
	ListCategoryFilters(ctx context.Context, categoryID, subCategoryID *uint) ([]domain.CategoryFilter, error)
	CreateCategoryFilter(ctx context.Context, cf *domain.CategoryFilter) error
	UpdateCategoryFilter(ctx context.Context, cf *domain.CategoryFilter) error
	DeleteCategoryFilter(ctx context.Context, id uint) error
}

// FilterHandlers exposes the filter taxonomy admin endpoints.
type FilterHandlers struct {
	filters FilterAdminService
	staff   func(http.Handler) http.Handler
}

func NewFilterHandlers(filters FilterAdminService, staff func(http.Handler) http.Handler) *FilterHandlers {
	return &FilterHandlers{filters: filters, staff: staff}
}

// Routes registers the /filters endpoints. Mutations are staff-only.
func (h *FilterHandlers) Routes(r chi.Router) {
	r.Get("/types", h.listTypes)
	r.Get("/types/{id}", h.getType)
	r.Get("/options/{id}", h.getOption)
	r.Get("/category-links", h.listCategoryFilters)
	r.Group(func(g chi.Router) {
		if h.staff != nil {
			g.Use(h.staff)
		}
		g.Post("/types", h.createType)
		g.Put("/types/{id}", h.updateType)
		g.Delete("/types/{id}", h.deleteType)
		g.Post("/options", h.createOption)
		g.Put("/options/{id}", h.updateOption)
		g.Delete("/options/{id}", h.deleteOption)
		g.Post("/category-links", h.createCategoryFilter)
		g.Put("/category-links/{id}", h.updateCategoryFilter)
		g.Delete("/category-links/{id}", h.deleteCategoryFilter)
	})
}

func (h *FilterHandlers) listTypes(w http.ResponseWriter, r *http.Request) {
	activeOnly := queryFlag(r.URL.Query().Get("active"))
	types, err := h.filters.ListFilterTypes(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"filter_types": types})
}

func (h *FilterHandlers) getType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	ft, err := h.filters.GetFilterType(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, ft)
}

func (h *FilterHandlers) createType(w http.ResponseWriter, r *http.Request) {
	var ft domain.FilterType
	if !decodeBody(w, r, &ft) {
		return
	}
	if err := h.filters.CreateFilterType(r.Context(), &ft); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, ft)
}

func (h *FilterHandlers) updateType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var ft domain.FilterType
	if !decodeBody(w, r, &ft) {
		return
	}
	ft.ID = id
	if err := h.filters.UpdateFilterType(r.Context(), &ft); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, ft)
}

func (h *FilterHandlers) deleteType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.filters.DeleteFilterType(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FilterHandlers) getOption(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	fo, err := h.filters.GetFilterOption(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, fo)
}

func (h *FilterHandlers) createOption(w http.ResponseWriter, r *http.Request) {
	var fo domain.FilterOption
	if !decodeBody(w, r, &fo) {
		return
	}
	if err := h.filters.CreateFilterOption(r.Context(), &fo); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, fo)
}

func (h *FilterHandlers) updateOption(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var fo domain.FilterOption
	if !decodeBody(w, r, &fo) {
		return
	}
	fo.ID = id
	if err := h.filters.UpdateFilterOption(r.Context(), &fo); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, fo)
}

func (h *FilterHandlers) deleteOption(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.filters.DeleteFilterOption(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FilterHandlers) listCategoryFilters(w http.ResponseWriter, r *http.Request) {
	categoryID := optionalUintQuery(r, "category_id")
	subCategoryID := optionalUintQuery(r, "subcategory_id")
	links, err := h.filters.ListCategoryFilters(r.Context(), categoryID, subCategoryID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"category_filters": links})
}

func (h *FilterHandlers) createCategoryFilter(w http.ResponseWriter, r *http.Request) {
	var cf domain.CategoryFilter
	if !decodeBody(w, r, &cf) {
		return
	}
	if err := h.filters.CreateCategoryFilter(r.Context(), &cf); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, cf)
}

func (h *FilterHandlers) updateCategoryFilter(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var cf domain.CategoryFilter
	if !decodeBody(w, r, &cf) {
		return
	}
	cf.ID = id
	if err := h.filters.UpdateCategoryFilter(r.Context(), &cf); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, cf)
}

func (h *FilterHandlers) deleteCategoryFilter(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.filters.DeleteCategoryFilter(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func optionalUintQuery(r *http.Request, name string) *uint {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return nil
	}
	v := uint(n)
	return &v
}
