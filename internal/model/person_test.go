package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAgeAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	testCases := []struct {
		name string
		dob  *time.Time
		want *float64
	}{
		{name: "nil date of birth", dob: nil, want: nil},
		{name: "thirty years", dob: ptr(time.Date(1994, 6, 1, 0, 0, 0, 0, time.UTC)), want: ptr(30.0)},
		{name: "rounds up past half year", dob: ptr(time.Date(1993, 11, 1, 0, 0, 0, 0, time.UTC)), want: ptr(31.0)},
		{name: "rounds down before half year", dob: ptr(time.Date(1994, 3, 1, 0, 0, 0, 0, time.UTC)), want: ptr(30.0)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := AgeAt(tc.dob, now)
			if tc.want == nil {
				if got != nil {
					t.Errorf("AgeAt() = %v, want nil", *got)
				}
				return
			}
			if got == nil || *got != *tc.want {
				t.Errorf("AgeAt() = %v, want %v", got, *tc.want)
			}
		})
	}
}

func TestParseGender(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in     string
		want   Gender
		wantOK bool
	}{
		{"Male", GenderMale, true},
		{"female", GenderFemale, true},
		{"OTHER", GenderOther, true},
		{"unknown", "", false},
		{"", "", false},
	}

	for _, tc := range testCases {
		got, ok := ParseGender(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ParseGender(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestParseSortOrder(t *testing.T) {
	t.Parallel()

	if got := ParseSortOrder("desc"); got != SortDesc {
		t.Errorf("ParseSortOrder(desc) = %s, want DESC", got)
	}
	if got := ParseSortOrder("sideways"); got != SortAsc {
		t.Errorf("ParseSortOrder(sideways) = %s, want ASC", got)
	}
}

func TestPersonAddRequest_ToPerson_DefaultsTIN(t *testing.T) {
	t.Parallel()

	req := &PersonAddRequest{PersonName: "Ann", Email: "ann@example.com", Gender: GenderFemale}
	p := req.ToPerson()
	if p.TIN != DefaultTIN {
		t.Errorf("TIN = %q, want %q", p.TIN, DefaultTIN)
	}

	req.TIN = "XYZ98765"
	if got := req.ToPerson().TIN; got != "XYZ98765" {
		t.Errorf("TIN = %q, want XYZ98765", got)
	}
}

func TestPersonResponse_Equal_IgnoresDerivedFields(t *testing.T) {
	t.Parallel()

	dob := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)
	countryID := uuid.New()
	p := &Person{
		ID:          uuid.New(),
		Name:        "Marta",
		Email:       "marta@example.com",
		DateOfBirth: &dob,
		Gender:      GenderFemale,
		CountryID:   &countryID,
		CountryName: "Spain",
	}

	a := p.ToResponseAt(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	b := p.ToResponseAt(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	b.Country = ""

	if !a.Equal(b) {
		t.Error("responses differing only in Age and Country should be equal")
	}

	b.Email = "other@example.com"
	if a.Equal(b) {
		t.Error("responses with different email should not be equal")
	}
}

func TestPersonResponse_ToUpdateRequest(t *testing.T) {
	t.Parallel()

	countryID := uuid.New()
	resp := PersonResponse{
		ID:                 uuid.New(),
		Name:               "Ravi",
		Email:              "ravi@example.com",
		Gender:             "Male",
		CountryID:          &countryID,
		Address:            "1 Main St",
		ReceiveNewsLetters: true,
	}

	req := resp.ToUpdateRequest()
	if req.PersonID != resp.ID || req.PersonName != resp.Name || req.Gender != GenderMale {
		t.Errorf("ToUpdateRequest() = %+v", req)
	}

	var p Person
	req.ApplyTo(&p)
	p.ID = resp.ID
	if !p.ToResponse().Equal(resp) {
		t.Error("applying the update request should reproduce the response")
	}
}

func ptr[T any](v T) *T { return &v }

func TestPersonRequests_Normalize(t *testing.T) {
	t.Parallel()

	add := &PersonAddRequest{PersonName: "  ", Email: " a@example.com ", TIN: " ABC12345 "}
	add.Normalize()
	if add.PersonName != "" || add.Email != "a@example.com" || add.TIN != "ABC12345" {
		t.Errorf("add request not trimmed: %+v", add)
	}

	update := &PersonUpdateRequest{PersonName: "\tMary ", Email: "m@example.com "}
	update.Normalize()
	if update.PersonName != "Mary" || update.Email != "m@example.com" {
		t.Errorf("update request not trimmed: %+v", update)
	}
}
