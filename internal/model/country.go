package model

import (
	"strings"

	"github.com/google/uuid"
)

// Country is a country a person can be associated with.
// Countries are created once and never updated or deleted.
type Country struct {
	ID   uuid.UUID `json:"countryId"`
	Name string    `json:"countryName"`
}

// ToResponse converts the entity into its response DTO.
func (c *Country) ToResponse() CountryResponse {
	return CountryResponse{
		ID:   c.ID,
		Name: c.Name,
	}
}

// CountryAddRequest is the payload for creating a country.
type CountryAddRequest struct {
	CountryName string `json:"countryName" validate:"required,max=100"`
}

// Normalize trims the country name before validation.
func (r *CountryAddRequest) Normalize() {
	r.CountryName = strings.TrimSpace(r.CountryName)
}

// ToCountry converts the request into a new entity without an ID.
func (r *CountryAddRequest) ToCountry() *Country {
	return &Country{Name: r.CountryName}
}

// CountryResponse is the display projection of a Country.
type CountryResponse struct {
	ID   uuid.UUID `json:"countryId"`
	Name string    `json:"countryName"`
}

// Equal reports whether both responses describe the same country.
func (r CountryResponse) Equal(other CountryResponse) bool {
	return r.ID == other.ID && r.Name == other.Name
}
