package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository takes the db handle per call so inserts can join a caller's
// transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*AuditLog, error)
}
