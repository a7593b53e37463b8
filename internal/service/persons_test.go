package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsmgr/contacts/internal/events"
	"github.com/contactsmgr/contacts/internal/export"
	"github.com/contactsmgr/contacts/internal/model"
)

func TestAddPerson_Rejects(t *testing.T) {
	t.Parallel()
	unknownCountry := uuid.New()

	tests := []struct {
		name      string
		req       *model.PersonAddRequest
		wantErr   error
		wantField string
	}{
		{name: "nil request", req: nil, wantErr: ErrArgumentRequired},
		{
			name:      "missing name",
			req:       &model.PersonAddRequest{Email: "a@example.com", Gender: model.GenderMale},
			wantErr:   ErrValidation,
			wantField: "personName",
		},
		{
			name:      "blank name",
			req:       &model.PersonAddRequest{PersonName: "  \t ", Email: "a@example.com", Gender: model.GenderMale},
			wantErr:   ErrValidation,
			wantField: "personName",
		},
		{
			name:      "bad email",
			req:       &model.PersonAddRequest{PersonName: "Ann", Email: "not-an-email", Gender: model.GenderMale},
			wantErr:   ErrValidation,
			wantField: "email",
		},
		{
			name:      "unknown gender",
			req:       &model.PersonAddRequest{PersonName: "Ann", Email: "a@example.com", Gender: "Robot"},
			wantErr:   ErrValidation,
			wantField: "gender",
		},
		{
			name: "unknown country",
			req: &model.PersonAddRequest{
				PersonName: "Ann", Email: "a@example.com", Gender: model.GenderFemale, CountryID: &unknownCountry,
			},
			wantErr:   ErrValidation,
			wantField: "countryId",
		},
		{
			name: "short tax id",
			req: &model.PersonAddRequest{
				PersonName: "Ann", Email: "a@example.com", Gender: model.GenderFemale, TIN: "123",
			},
			wantErr:   ErrValidation,
			wantField: "tin",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)

			_, err := env.adder.AddPerson(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.wantErr)

			if tc.wantField != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tc.wantField, verr.Fields[0].Field)
				assert.NotEmpty(t, verr.Messages()[0])
			}
		})
	}
}

func TestAddPerson_Success(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	country := env.addCountry(t, "Philippines")

	added, err := env.adder.AddPerson(ctx, &model.PersonAddRequest{
		PersonName:  "Smith",
		Email:       "smith@example.com",
		DateOfBirth: date(2000, 1, 1),
		Gender:      model.GenderMale,
		CountryID:   &country.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, added.ID)
	assert.Equal(t, "Philippines", added.Country)
	assert.Equal(t, model.DefaultTIN, added.TIN)
	require.NotNil(t, added.Age)

	all, err := env.getter.GetAllPersons(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Equal(*added))

	assert.Contains(t, env.events.types(), events.PersonCreated)
	assert.Equal(t, uint64(1), env.metrics.Snapshot().PersonsAdded)
}

func TestGetPersonByID(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addPerson(t, "Ann", "ann@example.com", nil)

	got, err := env.getter.GetPersonByID(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	unknown := uuid.New()
	got, err = env.getter.GetPersonByID(ctx, &unknown)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = env.getter.GetPersonByID(ctx, &p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(*p))
}

func TestGetFilteredPersons(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	usa := env.addCountry(t, "USA")
	env.addPerson(t, "Mary", "mary@example.com", usa)
	env.addPerson(t, "Rahman", "r@example.com", nil)
	env.addPerson(t, "John", "john@example.com", usa)

	tests := []struct {
		name     string
		searchBy string
		term     string
		want     []string
	}{
		{name: "empty term returns all", searchBy: model.FieldPersonName, term: "", want: []string{"Mary", "Rahman", "John"}},
		{name: "name substring ignores case", searchBy: model.FieldPersonName, term: "MA", want: []string{"Mary", "Rahman"}},
		{name: "unknown field returns all", searchBy: "Shoe", term: "ma", want: []string{"Mary", "Rahman", "John"}},
		{name: "country id matches country name", searchBy: model.FieldCountryID, term: "us", want: []string{"Mary", "John"}},
		{name: "email", searchBy: model.FieldEmail, term: "john@", want: []string{"John"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := env.getter.GetFilteredPersons(ctx, tc.searchBy, tc.term)
			require.NoError(t, err)

			names := make([]string, len(got))
			for i, p := range got {
				names[i] = p.Name
			}
			assert.ElementsMatch(t, tc.want, names)
		})
	}
}

func TestUpdatePerson_Rejects(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addPerson(t, "Ann", "ann@example.com", nil)

	_, err := env.updater.UpdatePerson(ctx, nil)
	assert.ErrorIs(t, err, ErrArgumentRequired)

	unknown := p.ToUpdateRequest()
	unknown.PersonID = uuid.New()
	_, err = env.updater.UpdatePerson(ctx, &unknown)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrPersonNotFound)

	noName := p.ToUpdateRequest()
	noName.PersonName = ""
	_, err = env.updater.UpdatePerson(ctx, &noName)
	assert.ErrorIs(t, err, ErrValidation)

	blankName := p.ToUpdateRequest()
	blankName.PersonName = "   "
	_, err = env.updater.UpdatePerson(ctx, &blankName)
	assert.ErrorIs(t, err, ErrValidation)

	stored, err := env.getter.GetPersonByID(ctx, &p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", stored.Name)
}

func TestUpdatePerson_RoundTrip(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	uk := env.addCountry(t, "UK")
	p := env.addPerson(t, "John", "john@example.com", nil)

	req := p.ToUpdateRequest()
	req.PersonName = "William"
	req.Email = "william@example.com"
	req.Gender = model.GenderMale
	req.CountryID = &uk.ID
	req.DateOfBirth = date(1990, 5, 17)
	req.ReceiveNewsLetters = true

	updated, err := env.updater.UpdatePerson(ctx, &req)
	require.NoError(t, err)
	assert.Equal(t, "UK", updated.Country)

	got, err := env.getter.GetPersonByID(ctx, &p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(*updated))
	assert.Equal(t, "William", got.Name)
	assert.Equal(t, model.DefaultTIN, got.TIN)

	assert.Equal(t, uint64(1), env.metrics.Snapshot().PersonsUpdated)
	assert.Contains(t, env.events.types(), events.PersonUpdated)
}

func TestDeletePerson(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addPerson(t, "Ann", "ann@example.com", nil)

	_, err := env.deleter.DeletePerson(ctx, nil)
	assert.ErrorIs(t, err, ErrArgumentRequired)

	unknown := uuid.New()
	deleted, err := env.deleter.DeletePerson(ctx, &unknown)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = env.deleter.DeletePerson(ctx, &p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err := env.getter.GetAllPersons(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.Equal(t, uint64(1), env.metrics.Snapshot().PersonsDeleted)
	assert.Contains(t, env.events.types(), events.PersonDeleted)
}

func TestPersonExports(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	env.addPerson(t, "Ann", "ann@example.com", env.addCountry(t, "Chile"))

	csvData, err := env.getter.GetPersonsCSV(ctx)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(export.Header, ","), strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Chile")

	xlsx, err := env.getter.GetPersonsExcel(ctx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(xlsx, []byte("PK")), "xlsx is a zip archive")

	pdf, err := env.getter.GetPersonsPDF(ctx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	assert.Len(t, env.archive.keys, 3)
	exports := env.metrics.Snapshot().ExportCount
	assert.Equal(t, uint64(1), exports["csv"])
	assert.Equal(t, uint64(1), exports["xlsx"])
	assert.Equal(t, uint64(1), exports["pdf"])
}
