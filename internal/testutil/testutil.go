package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/migrations"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 731731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops every table and reapplies all migrations.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	all, err := migrations.All()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, all[i].Down); err != nil {
			return fmt.Errorf("apply %s down migration: %w", all[i].Version, err)
		}
	}
	for _, m := range all {
		if _, err := pool.Exec(ctx, m.Up); err != nil {
			return fmt.Errorf("apply %s up migration: %w", m.Version, err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestCountry creates a country with a unique name.
func NewTestCountry(t testing.TB, prefix string) *model.Country {
	t.Helper()
	return &model.Country{ID: uuid.New(), Name: UniqueName(prefix)}
}

// NewTestPerson creates a person with sensible defaults.
func NewTestPerson(t testing.TB, name string, countryID *uuid.UUID) *model.Person {
	t.Helper()
	dob := time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC)
	return &model.Person{
		ID:                 uuid.New(),
		Name:               name,
		Email:              fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano()),
		DateOfBirth:        &dob,
		Gender:             model.GenderFemale,
		CountryID:          countryID,
		Address:            "12 Test Street",
		ReceiveNewsLetters: true,
		TIN:                model.DefaultTIN,
	}
}

// UniqueName generates a unique name for tests.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
