package ports

import (
	"context"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
)

// AuditRecorder accepts auth events for asynchronous processing. The queue
// dispatcher implements it; Record never blocks the authentication path
// beyond channel capacity.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}

// AuditService processes a single auth event: persists it and flags
// token-reuse incidents.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// AuditRepository handles auth-event persistence.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error

	// ListByAccount returns the most recent events for an account, newest first.
	ListByAccount(ctx context.Context, accountID string, limit int64) ([]*domain.AuthEvent, error)
}
