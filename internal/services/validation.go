package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// User-facing messages shared by services and handlers.
const (
	MsgUsernameTaken    = "This username is already taken. Please choose another one."
	MsgEmailTaken       = "This email is already registered."
	MsgPasswordMismatch = "Passwords do not match."
	MsgInvalidEmail     = "Invalid email format."
	MsgWrongPassword    = "Incorrect password. Please try again."
	MsgConfirmDelete    = `Please type "DELETE" to delete your account.`
	MsgImageType        = "Only images are allowed (jpg, jpeg, png, gif)."
	MsgPasswordTooLong  = "Password must not exceed 72 bytes."
)

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

var fieldLabels = map[string]string{
	"Username":         "Username",
	"Email":            "Email",
	"Password":         "Password",
	"ConfirmPassword":  "Password confirmation",
	"Title":            "Title",
	"ShortDescription": "Short description",
	"FullDescription":  "Full description",
	"Company":          "Company name",
	"Salary":           "Salary",
	"Location":         "Location",
	"Category":         "Category",
	"ConfirmDelete":    "Confirmation",
}

var validate = newValidator()

// newValidator reports field names by their `form` tag so messages line up
// with the inputs on the page.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateForm runs the struct's validate tags and converts failures into a
// *ValidationError keyed by the form field name (the `form` tag).
func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ve := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		key := fe.Field()
		if _, seen := ve.Fields[key]; seen {
			continue
		}
		ve.Fields[key] = fieldMessage(fe)
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabels[fe.StructField()]
	if label == "" {
		label = fe.StructField()
	}

	switch fe.Tag() {
	case "required":
		if fe.StructField() == "ConfirmDelete" {
			return MsgConfirmDelete
		}
		return label + " is required."
	case "email":
		return MsgInvalidEmail
	case "eqfield":
		return MsgPasswordMismatch
	case "oneof":
		return label + " is not a valid choice."
	case "min":
		if fe.StructField() == "Username" {
			return "Username must be 3-64 characters."
		}
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "max":
		if fe.StructField() == "Username" {
			return "Username must be 3-64 characters."
		}
		return fmt.Sprintf("%s must not exceed %s characters.", label, fe.Param())
	default:
		return label + " is invalid."
	}
}
