package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SignupForm is the payload of the signup screen.
type SignupForm struct {
	Name     string `form:"name" validate:"required,personname"`
	Username string `form:"username" validate:"required,handle"`
	Email    string `form:"email" validate:"required,gmail"`
	Phone    string `form:"phone" validate:"required,phone10"`
	Password string `form:"password" validate:"required,passwordchars,nefield=Username"`
	Confirm  string `form:"confirm" validate:"required,eqfield=Password"`
}

// LoginForm is the payload of the login screen.
type LoginForm struct {
	Username string `form:"username" validate:"required,loginchars"`
	Password string `form:"password" validate:"required,loginchars"`
}

// SignupFields lists the signup inputs in the order they appear on the page.
var SignupFields = []string{"name", "username", "email", "phone", "password", "confirm"}

// FieldErrors maps a form field name to the first rule it failed.
type FieldErrors map[string]string

// Get returns the message for field, or "".
func (fe FieldErrors) Get(field string) string {
	if fe == nil {
		return ""
	}
	return fe[field]
}

// Empty reports whether no field failed.
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// First returns the first failing message following the given field order.
func (fe FieldErrors) First(order []string) string {
	for _, f := range order {
		if msg, ok := fe[f]; ok {
			return msg
		}
	}
	return ""
}

// Validator runs the form rules. It satisfies echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the form rules registered.
func New() *Validator {
	v := validator.New()
	// Report fields by their form name so messages line up with inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := registerPatterns(v); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

// Validate implements the echo.Validator interface.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Check validates i and returns the failures keyed by form field.
// A nil result means the form is valid.
func (v *Validator) Check(i interface{}) FieldErrors {
	return Translate(v.Validate(i))
}

// Translate converts a validator error into FieldErrors. Errors that did not
// come from field rules are reported under the empty key.
func Translate(err error) FieldErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[field+":"+fe.Tag()]
		if !ok {
			msg = field + " is invalid"
		}
		out[field] = msg
	}
	return out
}
