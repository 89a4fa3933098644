package repository

import (
	"context"
	"errors"
	"festival-service/internal/models"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type FestivalRepository struct {
	collection *mongo.Collection
}

// NewFestivalRepository creates a new festival repository instance
func NewFestivalRepository(database *mongo.Database, collection string) *FestivalRepository {
	return &FestivalRepository{
		collection: database.Collection(collection),
	}
}

// InitializeIndexes creates MongoDB indexes
func (r *FestivalRepository) InitializeIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner_user_id", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "name", Value: 1},
			},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByIDs resolves a set of festival IDs to summaries with a single query.
// Missing IDs are simply absent from the result.
func (r *FestivalRepository) GetByIDs(ctx context.Context, ids []bson.ObjectID) ([]*models.FestivalSummary, error) {
	if len(ids) == 0 {
		return []*models.FestivalSummary{}, nil
	}

	filter := bson.M{"_id": bson.M{"$in": ids}}
	opts := options.Find().SetProjection(bson.M{
		"name":          1,
		"owner_user_id": 1,
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get festivals by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var festivals []*models.FestivalSummary
	if err := cursor.All(ctx, &festivals); err != nil {
		return nil, fmt.Errorf("failed to decode festivals: %w", err)
	}
	return festivals, nil
}

// GetByID retrieves a full festival record
func (r *FestivalRepository) GetByID(ctx context.Context, id bson.ObjectID) (*models.Festival, error) {
	var festival models.Festival
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&festival)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get festival by ID: %w", err)
	}
	return &festival, nil
}
