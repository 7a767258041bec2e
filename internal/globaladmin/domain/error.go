package domain

import "errors"

var (
	ErrNoRole        = errors.New("no operator role")
	ErrAdminNotFound = errors.New("operator role not found")
	ErrInvalidRole   = errors.New("invalid operator role")
)
