package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// CurrentRole is the privileged lookup: it reads the caller's active
	// role directly, bypassing any record-level filters. Returns ErrNoRole
	// when the user has no active record.
	CurrentRole(ctx context.Context, userID snowflake.ID) (Role, error)
	FindActiveByUser(ctx context.Context, userID snowflake.ID) (*GlobalAdmin, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, admin *GlobalAdmin) error
	List(ctx context.Context) ([]*GlobalAdmin, error)
	SetActive(ctx context.Context, id snowflake.ID, active bool) error
}
