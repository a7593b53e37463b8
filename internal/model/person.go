// Package model defines domain entities for the application.
package model

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gender is the stored gender option of a person.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// ParseGender matches s against the known options, ignoring case.
func ParseGender(s string) (Gender, bool) {
	for _, g := range []Gender{GenderMale, GenderFemale, GenderOther} {
		if strings.EqualFold(s, string(g)) {
			return g, true
		}
	}
	return "", false
}

// SortOrder is the direction of a person list ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortOrder returns SortDesc for "desc" in any case and SortAsc otherwise.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// DefaultTIN is the database default for persons created without a tax id.
const DefaultTIN = "ABC12345"

// Person is a contact record.
type Person struct {
	ID                 uuid.UUID
	Name               string
	Email              string
	DateOfBirth        *time.Time
	Gender             Gender
	CountryID          *uuid.UUID
	CountryName        string // joined from countries, empty when CountryID is nil
	Address            string
	ReceiveNewsLetters bool
	TIN                string
}

// ToResponse converts the entity into its response DTO, computing Age from now.
func (p *Person) ToResponse() PersonResponse {
	return p.ToResponseAt(time.Now())
}

// ToResponseAt is ToResponse with an explicit reference time.
func (p *Person) ToResponseAt(now time.Time) PersonResponse {
	return PersonResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Email:              p.Email,
		DateOfBirth:        p.DateOfBirth,
		Gender:             string(p.Gender),
		CountryID:          p.CountryID,
		Country:            p.CountryName,
		Address:            p.Address,
		ReceiveNewsLetters: p.ReceiveNewsLetters,
		TIN:                p.TIN,
		Age:                AgeAt(p.DateOfBirth, now),
	}
}

// AgeAt returns the age in whole years, rounded from days / 365.25.
// It returns nil when dob is nil.
func AgeAt(dob *time.Time, now time.Time) *float64 {
	if dob == nil {
		return nil
	}
	days := now.Sub(*dob).Hours() / 24
	age := math.Round(days / 365.25)
	return &age
}

// PersonAddRequest is the payload for creating a person.
type PersonAddRequest struct {
	PersonName         string     `json:"personName" validate:"required,max=80"`
	Email              string     `json:"email" validate:"required,email,max=160"`
	DateOfBirth        *time.Time `json:"dateOfBirth,omitempty"`
	Gender             Gender     `json:"gender" validate:"required,oneof=Male Female Other"`
	CountryID          *uuid.UUID `json:"countryId,omitempty"`
	Address            string     `json:"address" validate:"max=400"`
	ReceiveNewsLetters bool       `json:"receiveNewsLetters"`
	TIN                string     `json:"tin,omitempty" validate:"omitempty,len=8"`
}

// Normalize trims the free-text fields so a blank name fails validation
// however the request was bound.
func (r *PersonAddRequest) Normalize() {
	r.PersonName = strings.TrimSpace(r.PersonName)
	r.Email = strings.TrimSpace(r.Email)
	r.TIN = strings.TrimSpace(r.TIN)
}

// ToPerson converts the request into a new entity without an ID.
func (r *PersonAddRequest) ToPerson() *Person {
	tin := r.TIN
	if tin == "" {
		tin = DefaultTIN
	}
	return &Person{
		Name:               r.PersonName,
		Email:              r.Email,
		DateOfBirth:        r.DateOfBirth,
		Gender:             r.Gender,
		CountryID:          r.CountryID,
		Address:            r.Address,
		ReceiveNewsLetters: r.ReceiveNewsLetters,
		TIN:                tin,
	}
}

// PersonUpdateRequest replaces every mutable field of an existing person.
type PersonUpdateRequest struct {
	PersonID           uuid.UUID  `json:"personId" validate:"required"`
	PersonName         string     `json:"personName" validate:"required,max=80"`
	Email              string     `json:"email" validate:"required,email,max=160"`
	DateOfBirth        *time.Time `json:"dateOfBirth,omitempty"`
	Gender             Gender     `json:"gender" validate:"required,oneof=Male Female Other"`
	CountryID          *uuid.UUID `json:"countryId,omitempty"`
	Address            string     `json:"address" validate:"max=400"`
	ReceiveNewsLetters bool       `json:"receiveNewsLetters"`
}

// Normalize trims the free-text fields before validation.
func (r *PersonUpdateRequest) Normalize() {
	r.PersonName = strings.TrimSpace(r.PersonName)
	r.Email = strings.TrimSpace(r.Email)
}

// ApplyTo overwrites the mutable fields of p. The tax id is not part of the form.
func (r *PersonUpdateRequest) ApplyTo(p *Person) {
	p.Name = r.PersonName
	p.Email = r.Email
	p.DateOfBirth = r.DateOfBirth
	p.Gender = r.Gender
	p.CountryID = r.CountryID
	p.Address = r.Address
	p.ReceiveNewsLetters = r.ReceiveNewsLetters
}

// PersonResponse is the display projection of a Person.
type PersonResponse struct {
	ID                 uuid.UUID  `json:"personId"`
	Name               string     `json:"personName"`
	Email              string     `json:"email"`
	DateOfBirth        *time.Time `json:"dateOfBirth,omitempty"`
	Gender             string     `json:"gender"`
	CountryID          *uuid.UUID `json:"countryId,omitempty"`
	Country            string     `json:"country,omitempty"`
	Address            string     `json:"address"`
	ReceiveNewsLetters bool       `json:"receiveNewsLetters"`
	TIN                string     `json:"tin,omitempty"`
	Age                *float64   `json:"age,omitempty"`
}

// Equal compares the stored fields of two responses.
// Derived fields (Age, Country) are ignored.
func (r PersonResponse) Equal(other PersonResponse) bool {
	return r.ID == other.ID &&
		r.Name == other.Name &&
		r.Email == other.Email &&
		equalTime(r.DateOfBirth, other.DateOfBirth) &&
		r.Gender == other.Gender &&
		equalUUID(r.CountryID, other.CountryID) &&
		r.Address == other.Address &&
		r.ReceiveNewsLetters == other.ReceiveNewsLetters
}

// ToUpdateRequest builds the edit form for this person.
func (r PersonResponse) ToUpdateRequest() PersonUpdateRequest {
	gender, _ := ParseGender(r.Gender)
	return PersonUpdateRequest{
		PersonID:           r.ID,
		PersonName:         r.Name,
		Email:              r.Email,
		DateOfBirth:        r.DateOfBirth,
		Gender:             gender,
		CountryID:          r.CountryID,
		Address:            r.Address,
		ReceiveNewsLetters: r.ReceiveNewsLetters,
	}
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
