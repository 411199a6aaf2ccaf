package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const incidentTTL = 24 * time.Hour

// IncidentStore flags accounts whose refresh token was presented after being
// superseded — the token-theft signal. Flags expire after incidentTTL.
// Key format: reuse:<account_id>
type IncidentStore struct {
	client *redis.Client
}

// NewIncidentStore creates an IncidentStore wrapping the given Redis client.
func NewIncidentStore(client *redis.Client) *IncidentStore {
	return &IncidentStore{client: client}
}

// MarkReuse records a token-reuse incident for the account.
func (s *IncidentStore) MarkReuse(ctx context.Context, accountID string) error {
	if err := s.client.Set(ctx, s.key(accountID), time.Now().UTC().Format(time.RFC3339), incidentTTL).Err(); err != nil {
		return fmt.Errorf("mark reuse incident: %w", err)
	}
	return nil
}

// IsFlagged reports whether the account has a live reuse incident.
func (s *IncidentStore) IsFlagged(ctx context.Context, accountID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(accountID)).Result()
	if err != nil {
		return false, fmt.Errorf("check reuse incident: %w", err)
	}
	return n > 0, nil
}

func (s *IncidentStore) key(accountID string) string {
	return fmt.Sprintf("reuse:%s", accountID)
}
