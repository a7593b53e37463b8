//go:build integration

package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/testutil"
)

// ============================================================================
// Country Repository Integration Tests
// ============================================================================

func TestIntegrationCountryRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newPersonTestEnv(t)

	country := testutil.NewTestCountry(t, "Norway")
	if err := repo.CreateCountry(ctx, country); err != nil {
		t.Fatalf("CreateCountry failed: %v", err)
	}

	byID, err := repo.GetCountryByID(ctx, country.ID)
	if err != nil {
		t.Fatalf("GetCountryByID failed: %v", err)
	}
	if byID.Name != country.Name {
		t.Errorf("Name mismatch: got %q, want %q", byID.Name, country.Name)
	}

	byName, err := repo.GetCountryByName(ctx, country.Name)
	if err != nil {
		t.Fatalf("GetCountryByName failed: %v", err)
	}
	if byName.ID != country.ID {
		t.Errorf("ID mismatch: got %s, want %s", byName.ID, country.ID)
	}
}

func TestIntegrationCountryRepository_DuplicateName(t *testing.T) {
	ctx, repo := newPersonTestEnv(t)

	country := testutil.NewTestCountry(t, "Chile")
	if err := repo.CreateCountry(ctx, country); err != nil {
		t.Fatalf("CreateCountry failed: %v", err)
	}

	err := repo.CreateCountry(ctx, &model.Country{ID: uuid.New(), Name: country.Name})
	if !errors.Is(err, ErrCountryNameExists) {
		t.Errorf("Expected ErrCountryNameExists, got: %v", err)
	}
}

func TestIntegrationCountryRepository_CreateCountries(t *testing.T) {
	ctx, repo := newPersonTestEnv(t)

	existing := testutil.NewTestCountry(t, "Kenya")
	if err := repo.CreateCountry(ctx, existing); err != nil {
		t.Fatalf("CreateCountry failed: %v", err)
	}

	inserted, err := repo.CreateCountries(ctx, []*model.Country{
		{ID: uuid.New(), Name: existing.Name},
		{ID: uuid.New(), Name: "Ghana"},
	})
	if err != nil {
		t.Fatalf("CreateCountries failed: %v", err)
	}
	if len(inserted) != 1 {
		t.Errorf("inserted %d countries, want 1", len(inserted))
	}
}

// ============================================================================
// Person Repository Integration Tests
// ============================================================================

func TestIntegrationPersonRepository_Lifecycle(t *testing.T) {
	ctx, repo := newPersonTestEnv(t)

	country := testutil.NewTestCountry(t, "Japan")
	if err := repo.CreateCountry(ctx, country); err != nil {
		t.Fatalf("CreateCountry failed: %v", err)
	}

	person := testutil.NewTestPerson(t, "Aiko", &country.ID)
	if err := repo.CreatePerson(ctx, person); err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}

	got, err := repo.GetPersonByID(ctx, person.ID)
	if err != nil {
		t.Fatalf("GetPersonByID failed: %v", err)
	}
	if got.CountryName != country.Name {
		t.Errorf("CountryName = %q, want %q", got.CountryName, country.Name)
	}
	if got.DateOfBirth == nil || !got.DateOfBirth.Equal(*person.DateOfBirth) {
		t.Errorf("DateOfBirth = %v, want %v", got.DateOfBirth, person.DateOfBirth)
	}

	got.Name = "Aiko Tanaka"
	got.CountryID = nil
	if err := repo.UpdatePerson(ctx, got); err != nil {
		t.Fatalf("UpdatePerson failed: %v", err)
	}

	updated, err := repo.GetPersonByID(ctx, person.ID)
	if err != nil {
		t.Fatalf("GetPersonByID after update failed: %v", err)
	}
	if updated.Name != "Aiko Tanaka" || updated.CountryID != nil || updated.CountryName != "" {
		t.Errorf("update not persisted: %+v", updated)
	}

	deleted, err := repo.DeletePerson(ctx, person.ID)
	if err != nil || !deleted {
		t.Fatalf("DeletePerson = (%v, %v), want (true, nil)", deleted, err)
	}
	if _, err := repo.GetPersonByID(ctx, person.ID); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("Expected ErrPersonNotFound, got: %v", err)
	}
}

func TestIntegrationPersonRepository_Constraints(t *testing.T) {
	ctx, repo := newPersonTestEnv(t)

	missing := uuid.New()
	err := repo.CreatePerson(ctx, testutil.NewTestPerson(t, "Orphan", &missing))
	if !errors.Is(err, ErrUnknownCountry) {
		t.Errorf("Expected ErrUnknownCountry, got: %v", err)
	}

	short := testutil.NewTestPerson(t, "Short", nil)
	short.TIN = "ABC"
	if err := repo.CreatePerson(ctx, short); !errors.Is(err, ErrInvalidTIN) {
		t.Errorf("Expected ErrInvalidTIN, got: %v", err)
	}

	if err := repo.UpdatePerson(ctx, testutil.NewTestPerson(t, "Ghost", nil)); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("Expected ErrPersonNotFound, got: %v", err)
	}
}

func TestIntegrationPersonRepository_ListPersons_Filter(t *testing.T) {
	ctx, repo := newPersonTestEnv(t)

	country := &model.Country{ID: uuid.New(), Name: "Mali"}
	if err := repo.CreateCountry(ctx, country); err != nil {
		t.Fatalf("CreateCountry failed: %v", err)
	}

	for _, name := range []string{"Mason", "Emma", "Liam"} {
		if err := repo.CreatePerson(ctx, testutil.NewTestPerson(t, name, &country.ID)); err != nil {
			t.Fatalf("CreatePerson failed: %v", err)
		}
	}
	dob := time.Date(1985, time.March, 4, 0, 0, 0, 0, time.UTC)
	noCountry := testutil.NewTestPerson(t, "100%_real", nil)
	noCountry.DateOfBirth = &dob
	if err := repo.CreatePerson(ctx, noCountry); err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}

	testCases := []struct {
		name   string
		filter PersonFilter
		want   []string
	}{
		{"all", PersonFilter{}, []string{"100%_real", "Emma", "Liam", "Mason"}},
		{"name contains ma", PersonFilter{Field: model.FieldPersonName, Term: "MA"}, []string{"Emma", "Mason"}},
		{"country by name", PersonFilter{Field: model.FieldCountryID, Term: "mal"}, []string{"Emma", "Liam", "Mason"}},
		{"date of birth month", PersonFilter{Field: model.FieldDateOfBirth, Term: "04 march"}, []string{"100%_real"}},
		{"literal percent", PersonFilter{Field: model.FieldPersonName, Term: "%_"}, []string{"100%_real"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.ListPersons(ctx, tc.filter)
			if err != nil {
				t.Fatalf("ListPersons failed: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("ListPersons() = %v, want %v", names(got), tc.want)
			}
			for i := range got {
				if got[i].Name != tc.want[i] {
					t.Errorf("ListPersons()[%d] = %s, want %s", i, got[i].Name, tc.want[i])
				}
			}
		})
	}
}

// ============================================================================
// User Repository Integration Tests
// ============================================================================

func TestIntegrationUserRepository_CreateAndLookup(t *testing.T) {
	ctx, _ := newPersonTestEnv(t)

	db, err := sql.Open("postgres", testutil.RequireEnv(t, "DATABASE_URL"))
	if err != nil {
		t.Fatalf("open database/sql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	users := NewUserRepository(db)
	user := &model.User{
		ID:           uuid.New(),
		PersonName:   "Admin",
		Email:        "Admin@Example.com",
		Phone:        "5551234",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		Roles:        []string{model.RoleAdmin},
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	dup := *user
	dup.ID = uuid.New()
	dup.Email = "admin@example.com"
	if err := users.CreateUser(ctx, &dup); !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got: %v", err)
	}

	got, err := users.GetUserByEmail(ctx, "ADMIN@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != user.ID || !got.HasRole(model.RoleAdmin) {
		t.Errorf("GetUserByEmail() = %+v", got)
	}

	exists, err := users.EmailExists(ctx, "someone-else@example.com")
	if err != nil || exists {
		t.Errorf("EmailExists = (%v, %v), want (false, nil)", exists, err)
	}
}

func newPersonTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, repo
}
