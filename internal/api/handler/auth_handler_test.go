package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/campusmarket/campus-market/internal/core/domain"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, email, password, name string) (*domain.UserProfile, error)
	loginFn  func(ctx context.Context, email, password string) (string, *domain.UserProfile, error)
}

func (s *stubAuthService) Signup(ctx context.Context, email, password, name string) (*domain.UserProfile, error) {
	return s.signupFn(ctx, email, password, name)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.UserProfile, error) {
	return s.loginFn(ctx, email, password)
}

// newTestContext builds an echo context with the validator installed, the way
// the router configures it.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(_ context.Context, email, password, name string) (*domain.UserProfile, error) {
			if email != "alice@rit.edu" || password != "secret123" || name != "Alice" {
				t.Fatalf("unexpected args: %s %s %s", email, password, name)
			}
			return &domain.UserProfile{ID: "user-1", Email: email, Name: name, SubscriptionTier: domain.TierFree}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/signup",
		`{"email":"alice@rit.edu","password":"secret123","name":"Alice"}`)
	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response, got %v", resp)
	}
	if user["email"] != "alice@rit.edu" || user["subscriptionTier"] != "free" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Signup_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(context.Context, string, string, string) (*domain.UserProfile, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/signup", "not-json")
	err := h.Signup(c)
	if code := httpErrorCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Signup_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(context.Context, string, string, string) (*domain.UserProfile, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/signup", `{"email":"alice@rit.edu"}`)
	err := h.Signup(c)
	if code := httpErrorCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAuthHandler_Signup_ServiceErrorPassesThrough(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(context.Context, string, string, string) (*domain.UserProfile, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/signup",
		`{"email":"alice@rit.edu","password":"secret123","name":"Alice"}`)
	// Domain errors surface unchanged; the central error handler maps them.
	if err := h.Signup(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.UserProfile, error) {
			if email != "alice@rit.edu" || password != "secret123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.UserProfile{ID: "user-1", Email: email}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/login",
		`{"email":"alice@rit.edu","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token in response, got %v", resp)
	}
}

func TestAuthHandler_Login_BadCredentialsPassThrough(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.UserProfile, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/login",
		`{"email":"alice@rit.edu","password":"wrong"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
