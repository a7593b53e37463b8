package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contactsmgr/contacts/internal/handler/dto"
	"github.com/contactsmgr/contacts/internal/model"
)

// dateInputLayout is the value format of an HTML date input.
const dateInputLayout = "2006-01-02"

var errMalformedBody = errors.New("malformed request body")

// isJSON reports whether the request body is JSON rather than a form post.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// bind decodes a JSON body into dst, or calls fromForm for form posts.
// Form fields that cannot be parsed are returned as form errors.
func bind(r *http.Request, dst any, fromForm func(*formReader)) ([]dto.FormError, error) {
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return nil, errMalformedBody
		}
		return nil, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, errMalformedBody
	}
	fr := &formReader{r: r}
	fromForm(fr)
	return fr.errs, nil
}

// formReader reads typed values from a parsed form, collecting parse errors.
type formReader struct {
	r    *http.Request
	errs []dto.FormError
}

func (f *formReader) String(name string) string {
	return strings.TrimSpace(f.r.PostFormValue(name))
}

// Raw returns the value untrimmed, for passwords.
func (f *formReader) Raw(name string) string {
	return f.r.PostFormValue(name)
}

func (f *formReader) Bool(name string) bool {
	switch strings.ToLower(f.String(name)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

func (f *formReader) Date(name, label string) *time.Time {
	v := f.String(name)
	if v == "" {
		return nil
	}
	t, err := time.Parse(dateInputLayout, v)
	if err != nil {
		f.errs = append(f.errs, dto.FormError{Field: name, Message: label + " should be a valid date"})
		return nil
	}
	return &t
}

func (f *formReader) UUID(name, label string) *uuid.UUID {
	v := f.String(name)
	if v == "" {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		f.errs = append(f.errs, dto.FormError{Field: name, Message: "Please select a valid " + label})
		return nil
	}
	return &id
}

func (f *formReader) Gender(name string) model.Gender {
	v := f.String(name)
	if g, ok := model.ParseGender(v); ok {
		return g
	}
	// Unknown values reach validation and fail the oneof rule there.
	return model.Gender(v)
}

func bindPersonAdd(r *http.Request) (*model.PersonAddRequest, []dto.FormError, error) {
	req := &model.PersonAddRequest{}
	errs, err := bind(r, req, func(f *formReader) {
		req.PersonName = f.String("personName")
		req.Email = f.String("email")
		req.DateOfBirth = f.Date("dateOfBirth", "Date of Birth")
		req.Gender = f.Gender("gender")
		req.CountryID = f.UUID("countryId", "Country")
		req.Address = f.String("address")
		req.ReceiveNewsLetters = f.Bool("receiveNewsLetters")
		req.TIN = f.String("tin")
	})
	return req, errs, err
}

func bindPersonUpdate(r *http.Request) (*model.PersonUpdateRequest, []dto.FormError, error) {
	req := &model.PersonUpdateRequest{}
	errs, err := bind(r, req, func(f *formReader) {
		req.PersonName = f.String("personName")
		req.Email = f.String("email")
		req.DateOfBirth = f.Date("dateOfBirth", "Date of Birth")
		req.Gender = f.Gender("gender")
		req.CountryID = f.UUID("countryId", "Country")
		req.Address = f.String("address")
		req.ReceiveNewsLetters = f.Bool("receiveNewsLetters")
	})
	return req, errs, err
}

func bindRegister(r *http.Request) (*model.RegisterRequest, []dto.FormError, error) {
	req := &model.RegisterRequest{}
	errs, err := bind(r, req, func(f *formReader) {
		req.PersonName = f.String("personName")
		req.Email = f.String("email")
		req.Phone = f.String("phone")
		req.Password = f.Raw("password")
		req.ConfirmPassword = f.Raw("confirmPassword")
		req.UserType = f.String("userType")
	})
	return req, errs, err
}

func bindLogin(r *http.Request) (*model.LoginRequest, error) {
	req := &model.LoginRequest{}
	_, err := bind(r, req, func(f *formReader) {
		req.Email = f.String("email")
		req.Password = f.Raw("password")
	})
	return req, err
}
