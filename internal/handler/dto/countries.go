package dto

import "github.com/contactsmgr/contacts/internal/model"

// CountriesView lists every country.
type CountriesView struct {
	Countries []model.CountryResponse `json:"countries"`
}

// UploadResultView reports a country spreadsheet upload.
type UploadResultView struct {
	Inserted int         `json:"inserted"`
	Message  string      `json:"message,omitempty"`
	Errors   []FormError `json:"errors,omitempty"`
}
