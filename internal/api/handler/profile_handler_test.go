package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/campusmarket/campus-market/internal/core/domain"
)

type stubProfileService struct {
	getFn     func(ctx context.Context, userID string) (*domain.UserProfile, error)
	setTierFn func(ctx context.Context, userID, tier string) (*domain.UserProfile, error)
}

func (s *stubProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.getFn(ctx, userID)
}

func (s *stubProfileService) SetTier(ctx context.Context, userID, tier string) (*domain.UserProfile, error) {
	return s.setTierFn(ctx, userID, tier)
}

func TestProfileHandler_Get_Success(t *testing.T) {
	h := NewProfileHandler(&stubProfileService{
		getFn: func(_ context.Context, userID string) (*domain.UserProfile, error) {
			if userID != "user-1" {
				t.Fatalf("unexpected user: %s", userID)
			}
			return &domain.UserProfile{ID: userID, Email: "alice@rit.edu", SubscriptionTier: domain.TierFree}, nil
		},
	})

	c, rec := newTestContext(http.MethodGet, "/profile", "")
	c.Set("user_id", "user-1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	profile, ok := resp["profile"].(map[string]any)
	if !ok || profile["id"] != "user-1" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestProfileHandler_UpdateSubscription_Success(t *testing.T) {
	h := NewProfileHandler(&stubProfileService{
		setTierFn: func(_ context.Context, userID, tier string) (*domain.UserProfile, error) {
			if userID != "user-1" || tier != "premium" {
				t.Fatalf("unexpected args: %s %s", userID, tier)
			}
			return &domain.UserProfile{ID: userID, SubscriptionTier: tier}, nil
		},
	})

	c, rec := newTestContext(http.MethodPost, "/subscription", `{"tier":"premium"}`)
	c.Set("user_id", "user-1")

	if err := h.UpdateSubscription(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProfileHandler_UpdateSubscription_RejectsUnknownTier(t *testing.T) {
	h := NewProfileHandler(&stubProfileService{
		setTierFn: func(context.Context, string, string) (*domain.UserProfile, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	})

	c, _ := newTestContext(http.MethodPost, "/subscription", `{"tier":"platinum"}`)
	c.Set("user_id", "user-1")

	err := h.UpdateSubscription(c)
	if code := httpErrorCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
