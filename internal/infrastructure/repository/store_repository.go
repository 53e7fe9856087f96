package repository

import (
	"context"
	"fmt"
	"time"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStoreRepository implements StoreRepository using MongoDB
type MongoStoreRepository struct {
	collection *mongo.Collection
}

// NewMongoStoreRepository creates a new MongoDB store repository
func NewMongoStoreRepository(db *mongo.Database) ports.StoreRepository {
	return &MongoStoreRepository{collection: db.Collection("stores")}
}

// Create inserts a new store
func (r *MongoStoreRepository) Create(ctx context.Context, store *domain.Store) error {
	if store.CreatedAt.IsZero() {
		store.CreatedAt = time.Now()
	}
	store.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, store); err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// GetByID retrieves a store by id
func (r *MongoStoreRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	var store domain.Store
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&store)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return &store, nil
}

// ListByUser retrieves all stores owned by a user
func (r *MongoStoreRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Store, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer cursor.Close(ctx)

	var stores []*domain.Store
	for cursor.Next(ctx) {
		var store domain.Store
		if err := cursor.Decode(&store); err != nil {
			return nil, fmt.Errorf("failed to decode store: %w", err)
		}
		stores = append(stores, &store)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return stores, nil
}

// Update replaces a store document
func (r *MongoStoreRepository) Update(ctx context.Context, store *domain.Store) error {
	store.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": store.ID}, store)
	if err != nil {
		return fmt.Errorf("failed to update store: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus updates only the connection status of a store
func (r *MongoStoreRepository) UpdateStatus(ctx context.Context, id string, status domain.StoreStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update store status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a store by id
func (r *MongoStoreRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
