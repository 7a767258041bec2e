// Package authorization gates console operations on operator roles.
package authorization

import (
	"context"
	"errors"
)

var (
	ErrInvalidActor  = errors.New("invalid actor")
	ErrInvalidObject = errors.New("invalid object")
	ErrInvalidAction = errors.New("invalid action")
	ErrForbidden     = errors.New("forbidden")
)

type Service interface {
	// Authorize checks whether the operator identified by actor, holding
	// role, may perform action on object.
	Authorize(ctx context.Context, actor string, role string, object string, action string) error
}
