package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// fieldLabels are the display names used in validation messages, keyed by JSON name.
var fieldLabels = map[string]string{
	"personName":      "Person Name",
	"email":           "Email",
	"gender":          "Gender",
	"address":         "Address",
	"tin":             "Tax Identification Number",
	"countryName":     "Country Name",
	"personId":        "Person ID",
	"phone":           "Phone",
	"password":        "Password",
	"confirmPassword": "Confirm Password",
	"userType":        "User Type",
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		// Registration only fails for an empty tag or a nil func.
		_ = validate.RegisterValidation("haslower", hasLower)
		_ = validate.RegisterValidation("minunique", minUnique)
	})
	return validate
}

// hasLower requires at least one lowercase letter.
func hasLower(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// minUnique requires at least param distinct characters.
func minUnique(fl validator.FieldLevel) bool {
	want, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	seen := make(map[rune]struct{})
	for _, r := range fl.Field().String() {
		seen[r] = struct{}{}
		if len(seen) >= want {
			return true
		}
	}
	return len(seen) >= want
}

// validateStruct runs the struct's validate tags and converts failures
// into a *ValidationError with readable messages.
func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " can't be blank"
	case "email":
		return label + " should be a valid email"
	case "min":
		return fmt.Sprintf("%s should be at least %s characters", label, fe.Param())
	case "haslower":
		return label + " should contain a lowercase letter"
	case "minunique":
		return fmt.Sprintf("%s should contain at least %s different characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s can't be longer than %s characters", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s should be exactly %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s should be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "numeric":
		return label + " should contain digits only"
	case "eqfield":
		return label + " and " + fieldLabels[lowerFirst(fe.Param())] + " do not match"
	}
	return fmt.Sprintf("%s is invalid (%s)", label, fe.Tag())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
