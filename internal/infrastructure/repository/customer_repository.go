package repository

import (
	"context"
	"fmt"
	"time"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/ports"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCustomerRepository implements CustomerRepository using MongoDB
type MongoCustomerRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomerRepository creates a new MongoDB customer repository and
// ensures the unique index backing the external_id upsert key.
func NewMongoCustomerRepository(db *mongo.Database, logger zerolog.Logger) ports.CustomerRepository {
	collection := db.Collection("customers")
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "external_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		logger.Error().Err(err).Msg("Failed to ensure customers unique index")
	}
	return &MongoCustomerRepository{collection: collection}
}

// UpsertBatch writes one bulk insert-or-update keyed on external_id.
func (r *MongoCustomerRepository) UpsertBatch(ctx context.Context, batch []domain.Customer) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(batch))
	for _, c := range batch {
		filter := bson.M{"external_id": c.ExternalID}
		update := bson.M{
			"$set": bson.M{
				"first_name": c.FirstName,
				"last_name":  c.LastName,
				"city":       c.City,
				"country":    c.Country,
				"phone":      c.Phone,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{
				"external_id": c.ExternalID,
				"created_at":  now,
			},
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(filter).
			SetUpdate(update).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("%w: %v", domain.ErrDuplicateKey, err)
		}
		return 0, fmt.Errorf("failed to upsert customers: %w", err)
	}
	return len(batch), nil
}
