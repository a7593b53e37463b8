package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsmgr/contacts/internal/model"
	"github.com/contactsmgr/contacts/internal/repository"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_Embedded(t *testing.T) {
	t.Parallel()

	f, err := Load("")
	require.NoError(t, err)
	assert.Len(t, f.Countries, 5)
	assert.Len(t, f.Persons, 10)

	known := map[uuid.UUID]bool{}
	for _, c := range f.Countries {
		known[c.ID] = true
	}
	for _, p := range f.Persons {
		require.NotNil(t, p.CountryID, p.Name)
		assert.True(t, known[*p.CountryID], "person %s references an unknown country", p.Name)
	}
}

func TestLoadFS_YAML(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"countries.yaml": {Data: []byte("- CountryID: 2f1d3c4b-5a69-4788-9a0b-1c2d3e4f5a6b\n  CountryName: Chile\n")},
		"persons.yml": {Data: []byte(
			"- PersonID: 7d3c2b1a-0f9e-4d8c-b7a6-958473625140\n" +
				"  PersonName: Ana\n" +
				"  Email: ana@example.com\n" +
				"  DateOfBirth: \"1990-04-01\"\n" +
				"  Gender: female\n" +
				"  CountryID: 2f1d3c4b-5a69-4788-9a0b-1c2d3e4f5a6b\n")},
	}

	f, err := LoadFS(fsys)
	require.NoError(t, err)
	require.Len(t, f.Countries, 1)
	assert.Equal(t, "Chile", f.Countries[0].Name)
	require.Len(t, f.Persons, 1)
	assert.Equal(t, "1990-04-01", f.Persons[0].DateOfBirth)
}

func TestLoadFS_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadFS(fstest.MapFS{"countries.json": {Data: []byte("[]")}})
	assert.ErrorIs(t, err, ErrFixtureMissing)
}

func TestApply_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewMemoryRepository()

	f, err := Load("")
	require.NoError(t, err)

	first, err := Apply(ctx, repo, f, discard())
	require.NoError(t, err)
	assert.Equal(t, Result{Countries: 5, Persons: 10}, first)

	second, err := Apply(ctx, repo, f, discard())
	require.NoError(t, err)
	assert.Equal(t, Result{}, second)

	persons, err := repo.ListPersons(ctx, repository.PersonFilter{})
	require.NoError(t, err)
	require.Len(t, persons, 10)
	for _, p := range persons {
		assert.NotEmpty(t, p.CountryName, p.Name)
		assert.Equal(t, model.DefaultTIN, p.TIN)
	}
}

func TestApply_LinksExistingCountryByName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewMemoryRepository()

	existingID := uuid.New()
	require.NoError(t, repo.CreateCountry(ctx, &model.Country{ID: existingID, Name: "Chile"}))

	fixtureID := uuid.New()
	personID := uuid.New()
	f := &Fixtures{
		Countries: []Country{{ID: fixtureID, Name: "Chile"}},
		Persons:   []Person{{ID: personID, Name: "Ana", Email: "ana@example.com", Gender: "Female", CountryID: &fixtureID}},
	}

	res, err := Apply(ctx, repo, f, discard())
	require.NoError(t, err)
	assert.Equal(t, Result{Countries: 0, Persons: 1}, res)

	p, err := repo.GetPersonByID(ctx, personID)
	require.NoError(t, err)
	require.NotNil(t, p.CountryID)
	assert.Equal(t, existingID, *p.CountryID)
}

func TestApply_RejectsBadRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		person Person
	}{
		{name: "missing id", person: Person{Name: "Ana"}},
		{name: "bad gender", person: Person{ID: uuid.New(), Name: "Ana", Gender: "Robot"}},
		{name: "bad date", person: Person{ID: uuid.New(), Name: "Ana", Gender: "Female", DateOfBirth: "01/02/1990"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Apply(context.Background(), repository.NewMemoryRepository(), &Fixtures{Persons: []Person{tc.person}}, discard())
			assert.Error(t, err)
		})
	}
}
