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

// MongoProductRepository implements ProductRepository using MongoDB
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a new MongoDB product repository and
// ensures the unique index backing the (user_id, shop_sku) upsert key.
func NewMongoProductRepository(db *mongo.Database, logger zerolog.Logger) ports.ProductRepository {
	collection := db.Collection("products")
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "shop_sku", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(context.Background(), indexModel); err != nil {
		logger.Error().Err(err).Msg("Failed to ensure products unique index")
	}
	return &MongoProductRepository{collection: collection}
}

// UpsertBatch writes one bulk insert-or-update keyed on (user_id, shop_sku).
// All non-key fields are updated on conflict except the shared flag, which
// only initializes on insert so merchant sharing choices survive re-syncs.
func (r *MongoProductRepository) UpsertBatch(ctx context.Context, batch []domain.Product) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(batch))
	for _, p := range batch {
		filter := bson.M{"user_id": p.UserID, "shop_sku": p.ShopSKU}
		update := bson.M{
			"$set": bson.M{
				"store_id":     p.StoreID,
				"title":        p.Title,
				"description":  p.Description,
				"price":        p.Price,
				"currency":     p.Currency,
				"provider_sku": p.ProviderSKU,
				"image_url":    p.ImageURL,
				"inventory":    p.Inventory,
				"category":     p.Category,
				"brand":        p.Brand,
				"reference":    p.Reference,
				"updated_at":   now,
			},
			"$setOnInsert": bson.M{
				"_id":        uuid.NewString(),
				"user_id":    p.UserID,
				"shop_sku":   p.ShopSKU,
				"shared":     p.Shared,
				"created_at": now,
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
		return 0, fmt.Errorf("failed to upsert products: %w", err)
	}
	return len(batch), nil
}

// ListByUser retrieves a user's products, most recently updated first.
func (r *MongoProductRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}
