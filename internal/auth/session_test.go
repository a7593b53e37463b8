package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/model"
)

func TestNewSessionToken(t *testing.T) {
	t.Parallel()

	tok1, err := NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken failed: %v", err)
	}
	tok2, _ := NewSessionToken()

	if tok1 == tok2 {
		t.Error("tokens should be unique")
	}
	if err := ValidateToken(tok1); err != nil {
		t.Errorf("ValidateToken(%q) = %v", tok1, err)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "short", "contains spaces and is definitely not forty-three", "abc$%^"} {
		if err := ValidateToken(tok); err == nil {
			t.Errorf("ValidateToken(%q) = nil, want error", tok)
		}
	}
}

func TestSessionContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if SessionFromContext(ctx) != nil {
		t.Error("empty context should have no session")
	}
	if UserIDFromContext(ctx) != "" {
		t.Error("empty context should have no user id")
	}

	id := uuid.New()
	ctx = ContextWithSession(ctx, &model.Session{UserID: id})
	if got := UserIDFromContext(ctx); got != id.String() {
		t.Errorf("UserIDFromContext() = %s, want %s", got, id)
	}
}
