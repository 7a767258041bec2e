package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var ErrModuleNotFound = errors.New("module not found")

type Repository interface {
	// List returns all modules, core modules first, then by name.
	List(ctx context.Context) ([]*AppModule, error)
	FindByIDs(ctx context.Context, ids []snowflake.ID) ([]*AppModule, error)
	FindByKey(ctx context.Context, key string) (*AppModule, error)
	Create(ctx context.Context, module *AppModule) error
}
