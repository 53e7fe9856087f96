package repository

import (
	"context"
	"fmt"
	"time"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/ports"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSyncLogRepository implements SyncLogRepository using MongoDB. The
// collection is append-only: rows are inserted, never updated or deleted.
type MongoSyncLogRepository struct {
	collection *mongo.Collection
}

// NewMongoSyncLogRepository creates a new MongoDB sync log repository
func NewMongoSyncLogRepository(db *mongo.Database) ports.SyncLogRepository {
	return &MongoSyncLogRepository{collection: db.Collection("sync_logs")}
}

// Create appends one audit row
func (r *MongoSyncLogRepository) Create(ctx context.Context, log *domain.SyncLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}
	return nil
}

// ListByUser retrieves a user's sync logs, newest first.
func (r *MongoSyncLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.SyncLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []domain.SyncLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode sync logs: %w", err)
	}
	return logs, nil
}
