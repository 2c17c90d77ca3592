package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	signed := signToken(t, "secret", jwt.MapClaims{
		"user_id": "user-1",
		"email":   "alice@rit.edu",
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth("secret")
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get("user_id") != "user-1" {
			t.Fatalf("user_id not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	e := echo.New()
	signed := signToken(t, "other-secret", jwt.MapClaims{"user_id": "user-1"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	e := echo.New()
	signed := signToken(t, "secret", jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingUserIDClaim(t *testing.T) {
	e := echo.New()
	signed := signToken(t, "secret", jwt.MapClaims{"email": "alice@rit.edu"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth("secret")
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
