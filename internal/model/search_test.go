package model

import (
	"testing"
	"time"
)

func TestFilterPersons(t *testing.T) {
	t.Parallel()

	dob := time.Date(1991, 3, 14, 0, 0, 0, 0, time.UTC)
	persons := []*Person{
		{Name: "Mary", Email: "mary@example.com", Gender: GenderFemale, CountryName: "Germany", Address: "Berlin", DateOfBirth: &dob},
		{Name: "Thomas", Email: "tom@example.org", Gender: GenderMale, CountryName: "Malta"},
		{Name: "Kim", Email: "kim@example.com", Gender: GenderOther},
	}

	testCases := []struct {
		name  string
		field string
		term  string
		want  []string
	}{
		{name: "empty term returns all", field: FieldPersonName, term: "", want: []string{"Mary", "Thomas", "Kim"}},
		{name: "whitespace term returns all", field: FieldPersonName, term: "  ", want: []string{"Mary", "Thomas", "Kim"}},
		{name: "unknown field returns all", field: "Shoe", term: "ma", want: []string{"Mary", "Thomas", "Kim"}},
		{name: "name substring case-insensitive", field: FieldPersonName, term: "MA", want: []string{"Mary", "Thomas"}},
		{name: "email", field: FieldEmail, term: ".org", want: []string{"Thomas"}},
		{name: "gender", field: FieldGender, term: "male", want: []string{"Mary", "Thomas"}},
		{name: "country searches by name", field: FieldCountryID, term: "mal", want: []string{"Thomas"}},
		{name: "address skips empty values", field: FieldAddress, term: "b", want: []string{"Mary"}},
		{name: "date of birth by month name", field: FieldDateOfBirth, term: "march", want: []string{"Mary"}},
		{name: "date of birth by day", field: FieldDateOfBirth, term: "14 March 1991", want: []string{"Mary"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterPersons(persons, tc.field, tc.term)
			if len(got) != len(tc.want) {
				t.Fatalf("FilterPersons() returned %d persons, want %d", len(got), len(tc.want))
			}
			for i, p := range got {
				if p.Name != tc.want[i] {
					t.Errorf("result[%d] = %s, want %s", i, p.Name, tc.want[i])
				}
			}
		})
	}
}

func TestIsSearchField(t *testing.T) {
	t.Parallel()

	for _, f := range SearchFields {
		if !IsSearchField(f.Key) {
			t.Errorf("IsSearchField(%s) = false, want true", f.Key)
		}
	}
	if IsSearchField(FieldAge) {
		t.Error("Age is sortable but not searchable")
	}
}
