package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/profiledesk/internal/validation"
)

// bindForm binds the request body into form and runs the validator
// registered on echo. Field failures are returned as FieldErrors; the error
// is reserved for requests that could not be processed at all.
func bindForm(c echo.Context, form interface{}) (validation.FieldErrors, error) {
	if err := c.Bind(form); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission.").SetInternal(err)
	}
	err := c.Validate(form)
	if errors.Is(err, echo.ErrValidatorNotRegistered) {
		return nil, err
	}
	return validation.Translate(err), nil
}
