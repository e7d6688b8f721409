package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edgeform/edgeform/internal/auth"
	"github.com/edgeform/edgeform/internal/handler"
	"github.com/edgeform/edgeform/internal/kv"
	"github.com/edgeform/edgeform/internal/repository"
	"github.com/edgeform/edgeform/internal/router"
	"github.com/edgeform/edgeform/internal/service"
)

const testSecret = "router-test-secret"

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	store := kv.NewMemory()
	ctx := context.Background()
	if err := store.Put(ctx, repository.KeyAdminPasswordHash, []byte(auth.HashPasswordSHA256("pw"))); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Put(ctx, repository.KeyJWTSecret, []byte(testSecret)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	authSvc := service.NewAuthService(store)
	subSvc := service.NewSubmissionService(
		repository.NewSubmissionRepo(store),
		repository.NewIndexRepo(store),
	)
	return router.New(authSvc.JWTSecret, handler.NewAuthHandler(authSvc), handler.NewSubmissionHandler(subSvc))
}

func TestWrongMethodIs405(t *testing.T) {
	r := newRouter(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/auth/login"},
		{http.MethodGet, "/api/v1/submit"},
		{http.MethodPost, "/api/v1/submissions"},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/submit", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Fatal("missing Access-Control-Allow-Headers on preflight")
	}
}

func TestCORSOnEveryResponse(t *testing.T) {
	r := newRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/submissions?formId=f1", nil))

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin on normal response, got %q", got)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newRouter(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/admin/submissions?formId=f1"},
		{http.MethodDelete, "/api/v1/admin/submissions?formId=f1&submissionId=x"},
		{http.MethodGet, "/api/v1/admin/forms/f1/stats"},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestAdminRouteRejectsExpiredToken(t *testing.T) {
	claims := auth.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := newRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions?formId=f1", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
	var env struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error != "token expired" {
		t.Fatalf("expected distinct expiry message, got %q", env.Error)
	}
}

func TestAdminRouteAcceptsValidToken(t *testing.T) {
	token, err := auth.IssueToken(testSecret)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := newRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions?formId=f1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", rec.Code, rec.Body.String())
	}
}
