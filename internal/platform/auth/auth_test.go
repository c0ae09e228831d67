package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	return NewTokenManager("test-secret", 15*time.Minute, time.Hour)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	tm := newTestManager(t)
	id := Identity{UserID: 7, Username: "alice", Staff: true}

	pair, err := tm.Issue(id)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := tm.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if got != id {
		t.Fatalf("identity mismatch: got %+v want %+v", got, id)
	}

	got, err = tm.VerifyRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if got.UserID != 7 {
		t.Fatalf("unexpected user id %d", got.UserID)
	}
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	tm := newTestManager(t)
	pair, err := tm.Issue(Identity{UserID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tm.VerifyAccess(pair.RefreshToken); err == nil {
		t.Fatal("expected refresh token to be rejected as access token")
	}
	if _, err := tm.VerifyRefresh(pair.AccessToken); err == nil {
		t.Fatal("expected access token to be rejected as refresh token")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := newTestManager(t)
	past := time.Now().Add(-2 * time.Hour)
	tm.clock = func() time.Time { return past }
	pair, err := tm.Issue(Identity{UserID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tm.clock = time.Now
	if _, err := tm.VerifyAccess(pair.AccessToken); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyHonoursInjectedClock(t *testing.T) {
	tm := newTestManager(t)
	pair, err := tm.Issue(Identity{UserID: 4, Username: "fay"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := tm.VerifyAccess(pair.AccessToken); err != nil {
		t.Fatalf("fresh token must verify: %v", err)
	}

	tm.clock = func() time.Time { return time.Now().Add(16 * time.Minute) }
	if _, err := tm.VerifyAccess(pair.AccessToken); err == nil {
		t.Fatal("expected token to be rejected under the advanced clock")
	}
}

func TestVerifyRejectsTamperedSecret(t *testing.T) {
	tm := newTestManager(t)
	pair, err := tm.Issue(Identity{UserID: 1})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other := NewTokenManager("different-secret", 15*time.Minute, time.Hour)
	if _, err := other.VerifyAccess(pair.AccessToken); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestRequireMiddleware(t *testing.T) {
	tm := newTestManager(t)
	pair, err := tm.Issue(Identity{UserID: 9, Username: "carol", Staff: false})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var seen Identity
	handler := RequireMiddleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("GET", "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if seen.UserID != 9 {
		t.Fatalf("identity not attached, got %+v", seen)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/orders", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestRequireStaffMiddleware(t *testing.T) {
	tm := newTestManager(t)
	member, _ := tm.Issue(Identity{UserID: 2, Username: "dave", Staff: false})
	staff, _ := tm.Issue(Identity{UserID: 3, Username: "erin", Staff: true})

	handler := RequireStaffMiddleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("POST", "/products", nil)
	req.Header.Set("Authorization", "Bearer "+member.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-staff, got %d", rec.Code)
	}

	req = httptest.NewRequest("POST", "/products", nil)
	req.Header.Set("Authorization", "Bearer "+staff.AccessToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for staff, got %d", rec.Code)
	}
}
