package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/repositories"
	"github.com/loomhaven/api/internal/services"
)

// ProductService is the catalog surface the product handlers need.
type ProductService interface {
	List(ctx context.Context, q repositories.ProductQuery) ([]domain.Product, int64, error)
	Get(ctx context.Context, slug string) (*services.ProductView, error)
	GetByID(ctx context.Context, id uint) (*services.ProductView, error)
	Create(ctx context.Context, in services.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uint, in services.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uint) error
}

// FilterParamsParser extracts facet selections from raw query parameters.
type FilterParamsParser interface {
	ParseFilterParams(ctx context.Context, params map[string][]string) (map[string][]string, error)
}

// ProductHandlers exposes the product endpoints.
type ProductHandlers struct {
	products ProductService
	parser   FilterParamsParser
	staff    func(http.Handler) http.Handler
}

func NewProductHandlers(products ProductService, parser FilterParamsParser, staff func(http.Handler) http.Handler) *ProductHandlers {
	return &ProductHandlers{products: products, parser: parser, staff: staff}
}

// Routes registers the /products endpoints. Mutations are staff-only.
func (h *ProductHandlers) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.get)
	r.Group(func(g chi.Router) {
		if h.staff != nil {
			g.Use(h.staff)
		}
		g.Post("/", h.create)
		g.Put("/{id}", h.update)
		g.Delete("/{id}", h.delete)
	})
}

type productListResponse struct {
	Products []domain.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func (h *ProductHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	// Exact-slug lookup short-circuits the catalog query.
	if slug := params.Get("slug"); slug != "" {
		view, err := h.products.Get(ctx, slug)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSONResponse(w, http.StatusOK, productListResponse{
			Products: []domain.Product{*view.Product},
			Total:    1,
			Page:     1,
			PageSize: 1,
		})
		return
	}

	filters, err := h.parser.ParseFilterParams(ctx, params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	q := repositories.ProductQuery{
		CategorySlug:    params.Get("category"),
		SubCategorySlug: params.Get("subcategory"),
		Filters:         filters,
		Search:          params.Get("search"),
		InStockOnly:     queryFlag(params.Get("in_stock")),
		BestsellerOnly:  queryFlag(params.Get("bestseller")),
		NewOnly:         queryFlag(params.Get("new")),
		Sort:            repositories.ProductSort(params.Get("sort")),
		Page:            queryInt(params.Get("page")),
		PageSize:        queryInt(params.Get("page_size")),
	}
	products, total, err := h.products.List(ctx, q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	writeJSONResponse(w, http.StatusOK, productListResponse{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: q.PageSize,
	})
}

func (h *ProductHandlers) get(w http.ResponseWriter, r *http.Request) {
	view, err := h.products.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, view)
}

func (h *ProductHandlers) create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}
	product, err := h.products.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, product)
}

func (h *ProductHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var in services.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}
	product, err := h.products.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, product)
}

func (h *ProductHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryFlag(raw string) bool {
	switch raw {
	case "1", "true", "yes":
		return true
	}
	return false
}

func queryInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
