package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expensor/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, cookieValue string, withCookie bool) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var gotUserID string
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value(utils.ContextKey("userId")).(string)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/groups/", nil)
	if withCookie {
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, gotUserID
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, jwt.MapClaims{
		"oid": "ms-user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, userID := doRequest(t, token, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if userID != "ms-user-123" {
		t.Errorf("context user id: expected ms-user-123, got %q", userID)
	}
}

func TestJWTMiddlewareMissingCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	rec, _ := doRequest(t, "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddlewareExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, jwt.MapClaims{
		"oid": "ms-user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	rec, _ := doRequest(t, token, true)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddlewareWrongSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-different-secret")

	token := signToken(t, jwt.MapClaims{
		"oid": "ms-user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, _ := doRequest(t, token, true)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddlewareMissingOidClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec, _ := doRequest(t, token, true)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddlewaresExcludePaths(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := MiddlewaresExcludePaths(JWTMiddleware, "/health")(handler)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("excluded path should skip auth, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/groups/", nil)
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("non-excluded path without token should be 401, got %d", rec.Code)
	}
}
