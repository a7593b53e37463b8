package service

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/contactsmgr/contacts/internal/model"
)

// personCompare orders two persons by one field, ascending.
type personCompare func(a, b model.PersonResponse) int

var personComparers = map[string]personCompare{
	model.FieldPersonName: byString(func(p model.PersonResponse) string { return p.Name }),
	model.FieldEmail:      byString(func(p model.PersonResponse) string { return p.Email }),
	model.FieldAddress:    byString(func(p model.PersonResponse) string { return p.Address }),
	model.FieldGender:     byString(func(p model.PersonResponse) string { return p.Gender }),
	model.FieldCountry:    byString(func(p model.PersonResponse) string { return p.Country }),
	model.FieldDateOfBirth: func(a, b model.PersonResponse) int {
		return compareNil(a.DateOfBirth, b.DateOfBirth, func(x, y *time.Time) int { return x.Compare(*y) })
	},
	model.FieldAge: func(a, b model.PersonResponse) int {
		return compareNil(a.Age, b.Age, func(x, y *float64) int { return cmp.Compare(*x, *y) })
	},
	model.FieldReceiveNewsLetters: func(a, b model.PersonResponse) int {
		return compareBool(a.ReceiveNewsLetters, b.ReceiveNewsLetters)
	},
}

// IsSortField reports whether field is a recognised sortBy value.
func IsSortField(field string) bool {
	_, ok := personComparers[field]
	return ok
}

// PersonsSorterService orders person lists.
type PersonsSorterService struct{}

// NewPersonsSorterService creates a new PersonsSorterService.
func NewPersonsSorterService() *PersonsSorterService {
	return &PersonsSorterService{}
}

// SortPersons returns a sorted copy of persons. See SortPersons.
func (s *PersonsSorterService) SortPersons(persons []model.PersonResponse, sortBy string, order model.SortOrder) []model.PersonResponse {
	return SortPersons(persons, sortBy, order)
}

// SortPersons returns a new slice ordered by sortBy. Strings compare
// ordinally ignoring case; missing dates and ages sort first ascending.
// An unknown sortBy returns an unsorted copy. The sort is stable.
func SortPersons(persons []model.PersonResponse, sortBy string, order model.SortOrder) []model.PersonResponse {
	sorted := slices.Clone(persons)
	if sorted == nil {
		sorted = []model.PersonResponse{}
	}

	compare, ok := personComparers[sortBy]
	if !ok {
		return sorted
	}
	if order == model.SortDesc {
		asc := compare
		compare = func(a, b model.PersonResponse) int { return asc(b, a) }
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}

func byString(field func(model.PersonResponse) string) personCompare {
	return func(a, b model.PersonResponse) int {
		return strings.Compare(strings.ToUpper(field(a)), strings.ToUpper(field(b)))
	}
}

func compareNil[T any](a, b *T, compare func(x, y *T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return compare(a, b)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
