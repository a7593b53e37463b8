package model

import "strings"

// Searchable person fields, as used by the list page's searchBy parameter.
const (
	FieldPersonName         = "PersonName"
	FieldEmail              = "Email"
	FieldDateOfBirth        = "DateOfBirth"
	FieldGender             = "Gender"
	FieldCountryID          = "CountryId"
	FieldAddress            = "Address"
	FieldCountry            = "Country"
	FieldAge                = "Age"
	FieldReceiveNewsLetters = "ReceiveNewsLetters"
)

// DateOfBirthSearchLayout is the text a date of birth is matched against.
const DateOfBirthSearchLayout = "02 January 2006"

// searchValues maps a searchBy field to the text of a person it matches on.
// CountryId searches by country name, not by identifier.
var searchValues = map[string]func(*Person) string{
	FieldPersonName: func(p *Person) string { return p.Name },
	FieldEmail:      func(p *Person) string { return p.Email },
	FieldDateOfBirth: func(p *Person) string {
		if p.DateOfBirth == nil {
			return ""
		}
		return p.DateOfBirth.Format(DateOfBirthSearchLayout)
	},
	FieldGender:    func(p *Person) string { return string(p.Gender) },
	FieldCountryID: func(p *Person) string { return p.CountryName },
	FieldAddress:   func(p *Person) string { return p.Address },
}

// SearchFields lists the searchable fields with their display labels, in form order.
var SearchFields = []SearchField{
	{Key: FieldPersonName, Label: "Person Name"},
	{Key: FieldEmail, Label: "Email"},
	{Key: FieldDateOfBirth, Label: "Date of Birth"},
	{Key: FieldGender, Label: "Gender"},
	{Key: FieldCountryID, Label: "Country"},
	{Key: FieldAddress, Label: "Address"},
}

// SearchField is a searchBy option.
type SearchField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// IsSearchField reports whether field is a recognised searchBy value.
func IsSearchField(field string) bool {
	_, ok := searchValues[field]
	return ok
}

// PersonMatcher returns the predicate for field and term.
// ok is false when the term is blank or the field is unknown, meaning no filtering applies.
func PersonMatcher(field, term string) (match func(*Person) bool, ok bool) {
	if strings.TrimSpace(term) == "" {
		return nil, false
	}
	value, found := searchValues[field]
	if !found {
		return nil, false
	}
	needle := strings.ToLower(term)
	return func(p *Person) bool {
		v := value(p)
		return v != "" && strings.Contains(strings.ToLower(v), needle)
	}, true
}

// FilterPersons returns the persons matching term on field.
// A blank term or unknown field returns persons unchanged.
func FilterPersons(persons []*Person, field, term string) []*Person {
	match, ok := PersonMatcher(field, term)
	if !ok {
		return persons
	}
	matched := make([]*Person, 0, len(persons))
	for _, p := range persons {
		if match(p) {
			matched = append(matched, p)
		}
	}
	return matched
}
