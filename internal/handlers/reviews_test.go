package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/loomhaven/api/internal/domain"
	"github.com/loomhaven/api/internal/platform/auth"
	"github.com/loomhaven/api/internal/services"
)

func reviewTestRouter(svc ReviewService, tm *auth.TokenManager) http.Handler {
	h := NewReviewHandlers(svc, auth.OptionalMiddleware(tm), auth.RequireStaffMiddleware(tm))
	return NewRouter(WithReviewRoutes(h.Routes))
}

func TestReviewCreateAnonymousCaller(t *testing.T) {
	var gotCreator *uint
	var gotStaff bool
	svc := &stubReviewService{
		createFn: func(ctx context.Context, in services.ReviewInput, creatorID *uint, staff bool) (*domain.Review, error) {
			gotCreator = creatorID
			gotStaff = staff
			return &domain.Review{ID: 1, IsVisible: false}, nil
		},
	}
	router := reviewTestRouter(svc, newTestTokenManager())

	body := `{"product_id":1,"name":"Jo","rating":5,"is_visible":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotCreator != nil || gotStaff {
		t.Fatalf("anonymous caller must reach the service as such, got %v staff=%v", gotCreator, gotStaff)
	}
}

func TestReviewCreateStaffCaller(t *testing.T) {
	var gotStaff bool
	svc := &stubReviewService{
		createFn: func(ctx context.Context, in services.ReviewInput, creatorID *uint, staff bool) (*domain.Review, error) {
			gotStaff = staff
			return &domain.Review{ID: 1}, nil
		},
	}
	tm := newTestTokenManager()
	router := reviewTestRouter(svc, tm)

	body := `{"product_id":1,"name":"Jo","rating":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(tm, auth.Identity{UserID: 1, Username: "admin", Staff: true}))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if !gotStaff {
		t.Fatal("staff flag must be forwarded to the service")
	}
}

func TestReviewListRequiresProductID(t *testing.T) {
	router := reviewTestRouter(&stubReviewService{}, newTestTokenManager())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestReviewModerationRequiresStaff(t *testing.T) {
	tm := newTestTokenManager()
	router := reviewTestRouter(&stubReviewService{}, tm)

	body := `{"is_visible":false}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/reviews/3", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(tm, auth.Identity{UserID: 2, Username: "jo"}))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("non-staff moderation: expected 403, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/reviews/3", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(tm, auth.Identity{UserID: 1, Username: "admin", Staff: true}))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("staff moderation: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}
