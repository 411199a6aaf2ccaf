package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

const auditCollection = "auth_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// Insert persists an auth event to the auth_events audit collection.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := bson.M{
		"kind":         string(event.Kind),
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.AccountID != "" {
		doc["account_id"] = event.AccountID
	}
	if event.Identifier != "" {
		doc["identifier"] = event.Identifier
	}
	if event.Note != "" {
		doc["note"] = event.Note
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

// ListByAccount returns the most recent events for an account, newest first.
func (r *AuditRepository) ListByAccount(ctx context.Context, accountID string, limit int64) ([]*domain.AuthEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"account_id": accountID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*domain.AuthEvent
	for cursor.Next(ctx) {
		var doc struct {
			AccountID  string    `bson:"account_id"`
			Identifier string    `bson:"identifier"`
			Kind       string    `bson:"kind"`
			Timestamp  time.Time `bson:"timestamp"`
			Note       string    `bson:"note"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode auth event: %w", err)
		}
		events = append(events, &domain.AuthEvent{
			AccountID:  doc.AccountID,
			Identifier: doc.Identifier,
			Kind:       domain.AuthEventKind(doc.Kind),
			Timestamp:  doc.Timestamp,
			Note:       doc.Note,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	return events, nil
}
