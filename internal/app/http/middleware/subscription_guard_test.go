package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"videosaas-backend/internal/domain/billing"

	"github.com/gin-gonic/gin"
)

type mockSubLookup struct {
	findFn func(ctx context.Context, userID uint) (*billing.Subscription, error)
}

func (m *mockSubLookup) FindByUserID(ctx context.Context, userID uint) (*billing.Subscription, error) {
	return m.findFn(ctx, userID)
}

func guardTestRouter(lookup SubscriptionLookup, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/paid",
		func(c *gin.Context) { c.Set("user_id", userID) },
		RequireActiveSubscription(lookup),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
	)
	return r
}

func doGuardRequest(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/paid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireActiveSubscription_Active(t *testing.T) {
	lookup := &mockSubLookup{
		findFn: func(ctx context.Context, userID uint) (*billing.Subscription, error) {
			return &billing.Subscription{
				Status:           billing.StatusActive,
				CurrentPeriodEnd: time.Now().Add(24 * time.Hour),
			}, nil
		},
	}

	if w := doGuardRequest(guardTestRouter(lookup, 1)); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRequireActiveSubscription_None(t *testing.T) {
	lookup := &mockSubLookup{
		findFn: func(ctx context.Context, userID uint) (*billing.Subscription, error) {
			return nil, nil
		},
	}

	if w := doGuardRequest(guardTestRouter(lookup, 1)); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestRequireActiveSubscription_Expired(t *testing.T) {
	lookup := &mockSubLookup{
		findFn: func(ctx context.Context, userID uint) (*billing.Subscription, error) {
			return &billing.Subscription{
				Status:           billing.StatusActive,
				CurrentPeriodEnd: time.Now().Add(-time.Hour),
			}, nil
		},
	}

	if w := doGuardRequest(guardTestRouter(lookup, 1)); w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", w.Code)
	}
}

func TestRequireActiveSubscription_PastDue(t *testing.T) {
	lookup := &mockSubLookup{
		findFn: func(ctx context.Context, userID uint) (*billing.Subscription, error) {
			return &billing.Subscription{
				Status:           billing.StatusPastDue,
				CurrentPeriodEnd: time.Now().Add(24 * time.Hour),
			}, nil
		},
	}

	if w := doGuardRequest(guardTestRouter(lookup, 1)); w.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", w.Code)
	}
}
