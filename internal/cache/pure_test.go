package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/model"
)

func TestHashKey_Deterministic(t *testing.T) {
	t.Parallel()

	if hashKey("a@example.com") != hashKey("a@example.com") {
		t.Error("Same subject should produce same hash")
	}
}

func TestHashKey_Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		subject string
	}{
		{"email", "user@example.com"},
		{"long email", "first.last+contacts@sub.example.co.uk"},
		{"empty", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := len(hashKey(tt.subject)); got != 16 {
				t.Errorf("hashKey(%q) length = %d, want 16", tt.subject, got)
			}
		})
	}
}

func TestHashKey_Different(t *testing.T) {
	t.Parallel()

	if hashKey("a@example.com") == hashKey("b@example.com") {
		t.Error("Different subjects should produce different hashes")
	}
}

func TestSessionCodec_RoundTripKeepsToken(t *testing.T) {
	t.Parallel()

	s := &model.Session{
		Token:      "tok",
		UserID:     uuid.New(),
		Email:      "ann@example.com",
		PersonName: "Ann",
		Roles:      []string{model.RoleUser},
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		ExpiresAt:  time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}

	data, err := encodeSession(s)
	if err != nil {
		t.Fatalf("encodeSession failed: %v", err)
	}

	got, err := decodeSession("tok", data)
	if err != nil {
		t.Fatalf("decodeSession failed: %v", err)
	}
	if got.Token != "tok" || got.UserID != s.UserID || !got.HasRole(model.RoleUser) {
		t.Errorf("decodeSession() = %+v", got)
	}
	if !got.ExpiresAt.Equal(s.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, s.ExpiresAt)
	}
}

func TestDecodeSession_Corrupt(t *testing.T) {
	t.Parallel()

	if _, err := decodeSession("tok", []byte("{not json")); err == nil {
		t.Error("expected error for corrupt payload")
	}
}
