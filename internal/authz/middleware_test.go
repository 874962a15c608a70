package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestVerifyTokenValid(t *testing.T) {
	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	userID, err := VerifyToken(tokenString, testSecret)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
}

func TestVerifyTokenLegacyClaim(t *testing.T) {
	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"userId": "user-2",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	userID, err := VerifyToken(tokenString, testSecret)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if userID != "user-2" {
		t.Fatalf("expected user-2, got %q", userID)
	}
}

func TestVerifyTokenWithoutExpiry(t *testing.T) {
	tokenString := signToken(t, testSecret, jwt.MapClaims{"sub": "user-1"})

	userID, err := VerifyToken(tokenString, testSecret)
	if err != nil {
		t.Fatalf("token without exp must be accepted: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := VerifyToken(tokenString, testSecret); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	tokenString := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if _, err := VerifyToken(tokenString, testSecret); err == nil {
		t.Fatal("expected token signed with wrong secret to be rejected")
	}
}

func TestVerifyTokenRejectsEmpty(t *testing.T) {
	if _, err := VerifyToken("", testSecret); err == nil {
		t.Fatal("expected empty token to be rejected")
	}
}

func TestJWTMiddlewareSetsIdentity(t *testing.T) {
	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	var gotUserID string
	handler := JWTMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromRequest(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "user-1" {
		t.Fatalf("expected user-1 on context, got %q", gotUserID)
	}
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	handler := JWTMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddlewareRejectsMalformedHeader(t *testing.T) {
	handler := JWTMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
