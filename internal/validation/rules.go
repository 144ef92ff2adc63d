package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Custom validator tags and the patterns behind them.
const (
	TagPersonName    = "personname"
	TagHandle        = "handle"
	TagGmail         = "gmail"
	TagPhone10       = "phone10"
	TagPasswordChars = "passwordchars"
	TagLoginChars    = "loginchars"
)

var patterns = map[string]*regexp.Regexp{
	TagPersonName:    regexp.MustCompile(`^[A-Za-z ]+$`),
	TagHandle:        regexp.MustCompile(`^[a-zA-Z0-9._-]+$`),
	TagGmail:         regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@gmail\.com$`),
	TagPhone10:       regexp.MustCompile(`^[0-9]{10}$`),
	TagPasswordChars: regexp.MustCompile(`^[a-zA-Z0-9@]+$`),
	TagLoginChars:    regexp.MustCompile(`^[A-Za-z0-9._@-]+$`),
}

func registerPatterns(v *validator.Validate) error {
	for tag, re := range patterns {
		re := re
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// messages maps "field:tag" to the text shown under the form field.
var messages = map[string]string{
	"name:required":                "Name is required",
	"name:" + TagPersonName:        "Only alphabets allowed",
	"username:required":            "Username is required",
	"username:" + TagHandle:        "Alphanumeric + . _ - allowed",
	"email:required":               "Email is required",
	"email:" + TagGmail:            "Must be a valid Google email",
	"phone:required":               "Phone number is required",
	"phone:" + TagPhone10:          "Enter valid 10-digit phone number",
	"password:required":            "Password is required",
	"password:" + TagPasswordChars: "Only letters, numbers, and @ are allowed",
	"password:nefield":             "Password cannot be same as username",
	"confirm:required":             "Please confirm your password",
	"confirm:eqfield":              "Passwords do not match",

	"username:" + TagLoginChars: "Only alphanumeric and special chars . _ @ - allowed",
	"password:" + TagLoginChars: "Only alphanumeric and special chars . _ @ - allowed",
}
