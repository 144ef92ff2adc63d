package auth

import "github.com/nfrund/profiledesk/internal/validation"

// SignupData is the View Model for the signup page. Passwords are never
// echoed back, so only the non-secret inputs are carried.
type SignupData struct {
	Name     string
	Username string
	Email    string
	Phone    string
	// CountryCode is shown in front of the phone input.
	CountryCode string
	Errors      validation.FieldErrors
}

// LoginData is the View Model for the login page.
type LoginData struct {
	Username string
	Errors   validation.FieldErrors
}
