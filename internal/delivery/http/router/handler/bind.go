package handler

import (
	"strings"

	domainerrors "dinein/internal/domain/errors"
	"dinein/internal/errors"

	"github.com/labstack/echo/v4"
)

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errors.WithStack(domainerrors.ErrValidation.WithDetails("invalid request body"))
	}

	return c.Validate(req)
}

// routeTableID reads the table id from the path, falling back to ?table=.
func routeTableID(c echo.Context) string {
	if id := strings.TrimSpace(c.Param("id")); id != "" {
		return id
	}

	return strings.TrimSpace(c.QueryParam("table"))
}

// errorText is the user-facing text of err, with the backend detail if any.
func errorText(err error) string {
	var appErr domainerrors.AppError
	if !errors.As(err, &appErr) {
		return "something went wrong, please try again"
	}
	if appErr.Details() != "" {
		return appErr.Message() + ": " + appErr.Details()
	}

	return appErr.Message()
}
