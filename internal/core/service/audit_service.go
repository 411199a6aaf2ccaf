package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

// IncidentMarker flags accounts with suspected token theft (Redis).
type IncidentMarker interface {
	MarkReuse(ctx context.Context, accountID string) error
}

type auditService struct {
	repo      ports.AuditRepository
	incidents IncidentMarker
	log       zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, incidents IncidentMarker, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, incidents: incidents, log: log}
}

// Process persists one auth event. Token-reuse events additionally mark a
// short-lived incident flag; a failure to set the flag is logged but does
// not lose the audit record.
func (s *auditService) Process(ctx context.Context, event domain.AuthEvent) error {
	if event.Kind == domain.AuthEventReuseDetected && s.incidents != nil {
		if err := s.incidents.MarkReuse(ctx, event.AccountID); err != nil {
			s.log.Warn().Err(err).Str("account_id", event.AccountID).Msg("failed to mark reuse incident")
		}
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("process auth event: %w", err)
	}

	s.log.Debug().
		Str("account_id", event.AccountID).
		Str("kind", string(event.Kind)).
		Msg("auth event recorded")

	return nil
}
