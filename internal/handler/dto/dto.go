// Package dto provides the view models returned by the HTTP handlers.
package dto

import (
	"github.com/contactsmgr/contacts/internal/model"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// FormError is a single field message shown next to a form input.
type FormError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SelectOption is an entry of a drop-down list.
type SelectOption struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// CountryOptions converts countries into drop-down options.
func CountryOptions(countries []model.CountryResponse) []SelectOption {
	out := make([]SelectOption, 0, len(countries))
	for _, c := range countries {
		out = append(out, SelectOption{Text: c.Name, Value: c.ID.String()})
	}
	return out
}

// GenderOptions lists the selectable genders.
func GenderOptions() []SelectOption {
	genders := []model.Gender{model.GenderMale, model.GenderFemale, model.GenderOther}
	out := make([]SelectOption, 0, len(genders))
	for _, g := range genders {
		out = append(out, SelectOption{Text: string(g), Value: string(g)})
	}
	return out
}
