//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/testutil"
)

func newCacheTestEnv(t *testing.T) (context.Context, *Cache) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	c, err := New(ctx, testutil.RequireEnv(t, "REDIS_URL"))
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	return ctx, c
}

func TestIntegrationSessionStore(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	s := &model.Session{
		Token:     "integration-token",
		UserID:    uuid.New(),
		Email:     "ann@example.com",
		Roles:     []string{model.RoleAdmin},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Minute),
	}
	if err := c.SaveSession(ctx, s); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	got, err := c.GetSession(ctx, s.Token)
	if err != nil || got == nil {
		t.Fatalf("GetSession = (%v, %v)", got, err)
	}
	if got.UserID != s.UserID {
		t.Errorf("UserID = %s, want %s", got.UserID, s.UserID)
	}

	if err := c.DeleteSession(ctx, s.Token); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	got, err = c.GetSession(ctx, s.Token)
	if err != nil || got != nil {
		t.Errorf("GetSession after delete = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestIntegrationLoginRateLimit(t *testing.T) {
	ctx, c := newCacheTestEnv(t)

	subject := "ann@example.com"
	for i := 0; i < 3; i++ {
		res, err := c.CheckLoginRateLimit(ctx, subject, 1, 3)
		if err != nil || !res.Allowed {
			t.Fatalf("attempt %d = (%+v, %v), want allowed", i+1, res, err)
		}
	}

	res, err := c.CheckLoginRateLimit(ctx, subject, 1, 3)
	if err != nil {
		t.Fatalf("CheckLoginRateLimit failed: %v", err)
	}
	if res.Allowed {
		t.Error("fourth attempt should be limited")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want > 0", res.RetryAfter)
	}
}
