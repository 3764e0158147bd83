package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"recipebox/internal/apperrors"
	"recipebox/internal/model"
)

// PrincipalKey is the context key under which the auth middleware stores the
// resolved user.
const PrincipalKey = "user"

// CurrentUser returns the authenticated principal, or nil outside the secured
// route group.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(PrincipalKey).(*model.User)
	return user
}

// bindAndValidate decodes the request body into req and runs the validator,
// converting failures into the field-keyed validation error shape.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.NewValidationError("non_field_errors", "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperrors.NewValidationError("non_field_errors", err.Error())
	}
	ve := &apperrors.ValidationError{}
	for _, fe := range fieldErrors {
		ve.Add(fe.Field(), fieldMessage(fe))
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		return "ensure this field has at least " + fe.Param() + " characters"
	default:
		return "invalid value"
	}
}

// parseIDList parses a comma-separated id list query parameter. An empty
// parameter yields nil; a non-integer entry is a validation failure.
func parseIDList(field, raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, apperrors.NewValidationError(field, "expected a comma-separated list of integer ids")
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// parseFlag interprets a truthy query parameter ("1", "true", "yes", any case).
func parseFlag(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// pathID parses the :id route parameter; malformed ids behave like missing
// resources.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperrors.ErrNotFound
	}
	return uint(id), nil
}
