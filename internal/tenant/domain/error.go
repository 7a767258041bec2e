package domain

import "errors"

var (
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrUserNotFound       = errors.New("tenant user not found")
	ErrContactNotFound    = errors.New("tenant contact not found")
	ErrActivationNotFound = errors.New("module activation not found")
	ErrSlugTaken          = errors.New("slug_taken")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidSlug        = errors.New("invalid_slug")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidCurrency    = errors.New("invalid_currency")
	ErrInvalidTimezone    = errors.New("invalid_timezone")
	ErrInvalidContact     = errors.New("invalid_contact")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrInvalidModule      = errors.New("invalid_module")
	ErrInvalidLocation    = errors.New("invalid_location")
)
