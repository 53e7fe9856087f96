package repository

import (
	"context"
	"fmt"
	"time"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderRepository implements OrderRepository using MongoDB
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates a new MongoDB order repository and ensures
// the unique index backing the (store_id, commercial_id) upsert key.
func NewMongoOrderRepository(db *mongo.Database, logger zerolog.Logger) ports.OrderRepository {
	collection := db.Collection("orders")
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "store_id", Value: 1}, {Key: "commercial_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		logger.Error().Err(err).Msg("Failed to ensure orders unique index")
	}
	return &MongoOrderRepository{collection: collection}
}

// UpsertBatch writes one bulk insert-or-update keyed on
// (store_id, commercial_id), updating all non-key fields on conflict.
func (r *MongoOrderRepository) UpsertBatch(ctx context.Context, batch []domain.Order) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(batch))
	for _, o := range batch {
		filter := bson.M{"store_id": o.StoreID, "commercial_id": o.CommercialID}
		update := bson.M{
			"$set": bson.M{
				"user_id":              o.UserID,
				"provider_order_id":    o.ProviderOrderID,
				"customer_external_id": o.CustomerExternalID,
				"shipping_address":     o.ShippingAddress,
				"billing_address":      o.BillingAddress,
				"total_amount":         o.TotalAmount,
				"currency":             o.Currency,
				"ordered_at":           o.OrderedAt,
				"shipped_at":           o.ShippedAt,
				"received_at":          o.ReceivedAt,
				"status":               o.Status,
				"commission":           o.Commission,
				"raw_payload":          []byte(o.RawPayload),
				"updated_at":           now,
			},
			"$setOnInsert": bson.M{
				"_id":           uuid.NewString(),
				"store_id":      o.StoreID,
				"commercial_id": o.CommercialID,
				"created_at":    now,
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
		return 0, fmt.Errorf("failed to upsert orders: %w", err)
	}
	return len(batch), nil
}

// ListByUser retrieves a user's orders, most recently updated first.
func (r *MongoOrderRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}
