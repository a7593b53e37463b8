package dto

import "github.com/contactsmgr/contacts/internal/model"

// PersonsIndexView is the persons list page.
type PersonsIndexView struct {
	Persons             []model.PersonResponse `json:"persons"`
	SearchFields        []model.SearchField    `json:"searchFields"`
	CurrentSearchBy     string                 `json:"currentSearchBy"`
	CurrentSearchString string                 `json:"currentSearchString"`
	CurrentSortBy       string                 `json:"currentSortBy"`
	CurrentSortOrder    model.SortOrder        `json:"currentSortOrder"`
}

// PersonFormView backs the create and edit pages. Person holds the
// submitted or stored values and is nil on an empty create form.
type PersonFormView struct {
	Person    any            `json:"person,omitempty"`
	Countries []SelectOption `json:"countries"`
	Genders   []SelectOption `json:"genders"`
	Errors    []FormError    `json:"errors,omitempty"`
}

// PersonDeleteView is the delete confirmation page.
type PersonDeleteView struct {
	Person model.PersonResponse `json:"person"`
}
