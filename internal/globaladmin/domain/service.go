package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Resolve turns an authenticated user into an operator role. It never
	// creates records; absence of a role yields ErrNoRole.
	Resolve(ctx context.Context, userID snowflake.ID) (*GlobalAdmin, error)

	// ResolveOnSignup is the sign-up variant of Resolve: when no admin
	// record exists anywhere it registers the caller as super_admin, then
	// retries the privileged lookup once.
	ResolveOnSignup(ctx context.Context, userID snowflake.ID) (*GlobalAdmin, error)

	Grant(ctx context.Context, userID snowflake.ID, role Role) (*GlobalAdmin, error)
	List(ctx context.Context) ([]*GlobalAdmin, error)
	SetActive(ctx context.Context, id snowflake.ID, active bool) error
}
