package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/platform/auth"
	"github.com/loomhaven/api/internal/repositories"
)

func categoryTestRouter(catalog CatalogService, facets FacetService, tm *auth.TokenManager) http.Handler {
	h := NewCategoryHandlers(catalog, facets, auth.RequireStaffMiddleware(tm))
	return NewRouter(WithCategoryRoutes(h.Routes))
}

func TestCategoryListExactSlug(t *testing.T) {
	catalog := &stubCatalogService{
		getCategoryFn: func(ctx context.Context, slug string) (*domain.Category, error) {
			return &domain.Category{ID: 3, Name: "Beds", Slug: slug}, nil
		},
		listCategoriesFn: func(ctx context.Context) ([]domain.Category, error) {
			t.Fatal("exact-slug lookup must not hit the full listing")
			return nil, nil
		},
	}
	router := categoryTestRouter(catalog, &stubFacetService{}, newTestTokenManager())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/?slug=beds", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(body.Categories) != 1 || body.Categories[0].Slug != "beds" {
		t.Fatalf("unexpected listing: %s", rr.Body.String())
	}
}

func TestCategoryFacetSidebar(t *testing.T) {
	facets := &stubFacetService{
		categoryFn: func(ctx context.Context, categorySlug string) ([]repositories.Facet, error) {
			return []repositories.Facet{
				{
					FilterType: domain.FilterType{ID: 1, Name: "Colour", Slug: "colour"},
					Options: []repositories.FacetOption{
						{Option: domain.FilterOption{ID: 4, Name: "Grey", Slug: "grey"}, ProductCount: 7},
					},
				},
			}, nil
		},
	}
	router := categoryTestRouter(&stubCatalogService{}, facets, newTestTokenManager())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/beds/filters", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Filters []struct {
			FilterType domain.FilterType `json:"filter_type"`
			Options    []struct {
				ProductCount int64 `json:"product_count"`
			} `json:"options"`
		} `json:"filters"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(body.Filters) != 1 || body.Filters[0].FilterType.Slug != "colour" {
		t.Fatalf("facet sidebar missing: %s", rr.Body.String())
	}
	if body.Filters[0].Options[0].ProductCount != 7 {
		t.Fatalf("product counts missing: %s", rr.Body.String())
	}
}

func TestCategoryCreateRequiresStaff(t *testing.T) {
	tm := newTestTokenManager()
	router := categoryTestRouter(&stubCatalogService{}, &stubFacetService{}, tm)

	body := `{"name":"Sofas"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/categories/", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(tm, auth.Identity{UserID: 1, Username: "admin", Staff: true}))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("staff create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSubCategoryListRequiresScope(t *testing.T) {
	tm := newTestTokenManager()
	h := NewSubCategoryHandlers(&stubCatalogService{}, &stubFacetService{}, auth.RequireStaffMiddleware(tm))
	router := NewRouter(WithSubCategoryRoutes(h.Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subcategories/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unscoped listing: expected 400, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/subcategories/?category_id=2", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("scoped listing: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}
