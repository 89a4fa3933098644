package repository

import (
	"context"
	"errors"
	"festival-service/internal/models"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const userSummaryCacheExpiry = 10 * time.Minute

type UserRepository struct {
	collection *mongo.Collection
	cache      *RedisRepo
}

// NewUserRepository creates a new user directory repository instance. The
// cache is optional; without it every lookup goes straight to MongoDB.
func NewUserRepository(database *mongo.Database, collection string, cache *RedisRepo) *UserRepository {
	return &UserRepository{
		collection: database.Collection(collection),
		cache:      cache,
	}
}

// InitializeIndexes creates MongoDB indexes
func (r *UserRepository) InitializeIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByIDs resolves a set of user IDs to summaries. Cached summaries are
// served from redis; the misses are fetched with a single $in query and
// back-filled into the cache. Missing IDs are simply absent from the result.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.UserSummary, error) {
	if len(ids) == 0 {
		return []*models.UserSummary{}, nil
	}

	users := make([]*models.UserSummary, 0, len(ids))
	misses := make([]string, 0, len(ids))
	for _, id := range ids {
		if r.cache == nil {
			misses = append(misses, id)
			continue
		}
		var cached models.UserSummary
		hit, err := r.cache.GetStructCached(ctx, userCacheKey(id), &cached)
		if err != nil {
			log.Printf("User summary cache read failed for %s: %v", id, err)
		}
		if hit {
			users = append(users, &cached)
		} else {
			misses = append(misses, id)
		}
	}
	if len(misses) == 0 {
		return users, nil
	}

	filter := bson.M{"_id": bson.M{"$in": misses}}
	opts := options.Find().SetProjection(bson.M{
		"email":        1,
		"display_name": 1,
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var fetched []*models.UserSummary
	if err := cursor.All(ctx, &fetched); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	for _, user := range fetched {
		if r.cache != nil {
			if err := r.cache.SaveStructCached(ctx, userCacheKey(user.ID), user, userSummaryCacheExpiry); err != nil {
				log.Printf("User summary cache write failed for %s: %v", user.ID, err)
			}
		}
		users = append(users, user)
	}
	return users, nil
}

// GetByEmail resolves a user by email address, returning (nil, nil) when no
// account carries it.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.UserSummary, error) {
	var user models.UserSummary
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func userCacheKey(id string) string {
	return "user-summary:" + id
}
