package services

import (
	"context"
	"testing"
	"time"

	"github.com/loomhaven/api/internal/domain"
)

func TestActiveFilterTypesCachedWithinTTL(t *testing.T) {
	calls := 0
	repo := &stubFilterRepo{
		listTypesFn: func(ctx context.Context, activeOnly bool) ([]domain.FilterType, error) {
			calls++
			if !activeOnly {
				t.Fatal("cache must request active types only")
			}
			return []domain.FilterType{{ID: 1, Name: "Colour", Slug: "colour"}}, nil
		},
	}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := NewFilterService(FilterServiceDeps{
		Filters:    repo,
		Categories: &stubCategoryRepo{},
		Clock:      func() time.Time { return now },
		CacheTTL:   30 * time.Second,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.ActiveFilterTypes(ctx); err != nil {
			t.Fatalf("active types: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single repository read within the TTL, got %d", calls)
	}

	now = now.Add(31 * time.Second)
	if _, err := svc.ActiveFilterTypes(ctx); err != nil {
		t.Fatalf("active types after expiry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected a reload after the TTL, got %d calls", calls)
	}
}

func TestActiveFilterTypesInvalidatedOnMutation(t *testing.T) {
	calls := 0
	repo := &stubFilterRepo{
		listTypesFn: func(ctx context.Context, activeOnly bool) ([]domain.FilterType, error) {
			calls++
			return []domain.FilterType{{ID: 1, Name: "Colour", Slug: "colour"}}, nil
		},
	}
	svc := NewFilterService(FilterServiceDeps{Filters: repo, Categories: &stubCategoryRepo{}})
	ctx := context.Background()

	if _, err := svc.ActiveFilterTypes(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if err := svc.CreateFilterType(ctx, &domain.FilterType{Name: "Material"}); err != nil {
		t.Fatalf("create type: %v", err)
	}
	if _, err := svc.ActiveFilterTypes(ctx); err != nil {
		t.Fatalf("read after mutation: %v", err)
	}
	if calls != 2 {
		t.Fatalf("mutation must drop the cache, got %d calls", calls)
	}
}

func TestParseFilterParams(t *testing.T) {
	repo := &stubFilterRepo{
		listTypesFn: func(ctx context.Context, activeOnly bool) ([]domain.FilterType, error) {
			return []domain.FilterType{
				{ID: 1, Name: "Colour", Slug: "colour"},
				{ID: 2, Name: "Material", Slug: "material"},
			}, nil
		},
	}
	svc := NewFilterService(FilterServiceDeps{Filters: repo, Categories: &stubCategoryRepo{}})

	filters, err := svc.ParseFilterParams(context.Background(), map[string][]string{
		"colour":   {"grey,oak", " white "},
		"material": {""},
		"sort":     {"price_asc"},
		"unknown":  {"x"},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := filters["colour"]
	if len(got) != 3 || got[0] != "grey" || got[1] != "oak" || got[2] != "white" {
		t.Fatalf("comma splitting mishandled: %v", got)
	}
	if _, ok := filters["material"]; ok {
		t.Fatal("empty values must not register a filter")
	}
	if _, ok := filters["sort"]; ok {
		t.Fatal("non-facet parameters must be ignored")
	}
	if _, ok := filters["unknown"]; ok {
		t.Fatal("unknown facet parameters must be ignored")
	}
}

func TestFilterTypeDefaultsAndValidation(t *testing.T) {
	var created *domain.FilterType
	repo := &stubFilterRepo{
		createTypeFn: func(ctx context.Context, ft *domain.FilterType) error {
			ft.ID = 1
			created = ft
			return nil
		},
	}
	svc := NewFilterService(FilterServiceDeps{Filters: repo, Categories: &stubCategoryRepo{}})
	ctx := context.Background()

	if err := svc.CreateFilterType(ctx, &domain.FilterType{Name: "Bed Size"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Slug != "bed-size" {
		t.Fatalf("slug must derive from the name, got %q", created.Slug)
	}
	if created.DisplayType != domain.FilterDisplayCheckbox {
		t.Fatalf("display type must default to checkbox, got %q", created.DisplayType)
	}

	if err := svc.CreateFilterType(ctx, &domain.FilterType{Name: " "}); err == nil {
		t.Fatal("blank name must be rejected")
	}
	if err := svc.CreateFilterType(ctx, &domain.FilterType{Name: "X", DisplayType: "carousel"}); err == nil {
		t.Fatal("unknown display type must be rejected")
	}
}

func TestCategoryFilterRequiresExactlyOneScope(t *testing.T) {
	svc := NewFilterService(FilterServiceDeps{Filters: &stubFilterRepo{}, Categories: &stubCategoryRepo{}})
	ctx := context.Background()
	catID := uint(1)
	subID := uint(2)

	if err := svc.CreateCategoryFilter(ctx, &domain.CategoryFilter{FilterTypeID: 1, CategoryID: &catID}); err != nil {
		t.Fatalf("category scope: %v", err)
	}
	if err := svc.CreateCategoryFilter(ctx, &domain.CategoryFilter{FilterTypeID: 1}); err == nil {
		t.Fatal("missing scope must be rejected")
	}
	if err := svc.CreateCategoryFilter(ctx, &domain.CategoryFilter{FilterTypeID: 1, CategoryID: &catID, SubCategoryID: &subID}); err == nil {
		t.Fatal("double scope must be rejected")
	}
}
