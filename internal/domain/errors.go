package domain

import (
	"errors"
	"fmt"
)

// Error codes reported by identity backends.
const (
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodeWeakPassword      = "auth/weak-password"
	CodeInvalidEmail      = "auth/invalid-email"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeUsernameInUse     = "auth/username-already-in-use"
)

// FallbackMessage is shown when an error carries no usable text.
const FallbackMessage = "Something went wrong. Try again!"

// AuthError is an identity backend failure with a stable code.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any AuthError with the same code.
func (e *AuthError) Is(target error) bool {
	var t *AuthError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrEmailAlreadyInUse  = &AuthError{Code: CodeEmailAlreadyInUse, Message: "This email is already registered. Please login!"}
	ErrWeakPassword       = &AuthError{Code: CodeWeakPassword, Message: "Password should be at least 6 characters!"}
	ErrInvalidEmail       = &AuthError{Code: CodeInvalidEmail, Message: "Invalid email address!"}
	ErrInvalidCredentials = &AuthError{Code: CodeInvalidCredential, Message: "Invalid username or password."}
	ErrUsernameInUse      = &AuthError{Code: CodeUsernameInUse, Message: "This username is already taken!"}

	ErrProfileNotFound = errors.New("profile not found")
)

var catalog = map[string]*AuthError{
	CodeEmailAlreadyInUse: ErrEmailAlreadyInUse,
	CodeWeakPassword:      ErrWeakPassword,
	CodeInvalidEmail:      ErrInvalidEmail,
	CodeInvalidCredential: ErrInvalidCredentials,
	CodeUsernameInUse:     ErrUsernameInUse,
}

// MessageFor turns err into the text shown to the user. Catalogued auth
// errors map to their fixed message; anything else shows its own text.
func MessageFor(err error) string {
	if err == nil {
		return ""
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		if known, ok := catalog[authErr.Code]; ok {
			return known.Message
		}
		if authErr.Message != "" {
			return authErr.Message
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

// CodeFor returns the catalogue code for err, or "unknown".
func CodeFor(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return "unknown"
}
