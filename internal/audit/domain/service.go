package domain

import (
	"context"
	"errors"
	"time"

	"github.com/std-1224/payper-tenant/pkg/db/pagination"
)

// Entry is one audit record to append. Actor and IP fall back to the
// request context when unset.
type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	Before     map[string]any
	After      map[string]any
}

type ListAuditLogRequest struct {
	pagination.Pagination
	Action     string
	EntityType string
	EntityID   string
	ActorID    string
	StartAt    *time.Time
	EndAt      *time.Time
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

type Service interface {
	// Record appends an audit entry. Failures are logged and returned but
	// callers treat the write as best-effort.
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidAction    = errors.New("invalid_action")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
)
