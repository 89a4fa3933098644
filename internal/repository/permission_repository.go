package repository

import (
	"context"
	"errors"
	"festival-service/internal/models"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type PermissionRepository struct {
	collection *mongo.Collection
}

// NewPermissionRepository creates a new festival permission repository instance
func NewPermissionRepository(database *mongo.Database, collection string) *PermissionRepository {
	return &PermissionRepository{
		collection: database.Collection(collection),
	}
}

// InitializeIndexes creates MongoDB indexes. The partial unique index
// enforces at most one non-revoked permission per (festival, user) pair;
// revoked records are history and may accumulate.
func (r *PermissionRepository) InitializeIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "festival_id", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "is_revoked", Value: false}}),
		},
		{
			Keys: bson.D{
				{Key: "festival_id", Value: 1},
				{Key: "is_revoked", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
			},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetActiveByFestival returns all non-revoked permissions for a festival,
// pending invitations included, in creation order.
func (r *PermissionRepository) GetActiveByFestival(ctx context.Context, festivalID bson.ObjectID) ([]*models.FestivalPermission, error) {
	filter := bson.M{
		"festival_id": festivalID,
		"is_revoked":  false,
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions by festival: %w", err)
	}
	defer cursor.Close(ctx)

	var permissions []*models.FestivalPermission
	if err := cursor.All(ctx, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}
	return permissions, nil
}

// GetByUser returns all of a user's permissions in every lifecycle state
func (r *PermissionRepository) GetByUser(ctx context.Context, userID string) ([]*models.FestivalPermission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions by user: %w", err)
	}
	defer cursor.Close(ctx)

	var permissions []*models.FestivalPermission
	if err := cursor.All(ctx, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}
	return permissions, nil
}

// GetByID retrieves a permission by its ID
func (r *PermissionRepository) GetByID(ctx context.Context, id bson.ObjectID) (*models.FestivalPermission, error) {
	var permission models.FestivalPermission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&permission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission by ID: %w", err)
	}
	return &permission, nil
}

// Create inserts a new permission record
func (r *PermissionRepository) Create(ctx context.Context, permission *models.FestivalPermission) (bson.ObjectID, error) {
	if permission.ID.IsZero() {
		permission.ID = bson.NewObjectID()
	}
	if permission.CreatedAt.IsZero() {
		permission.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, permission)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("failed to create permission: %w", err)
	}
	return permission.ID, nil
}

// MarkAccepted flips the pending flag off, but only while the permission is
// still pending and not revoked. The conditional filter is what resolves a
// concurrent revoke racing an accept.
func (r *PermissionRepository) MarkAccepted(ctx context.Context, id bson.ObjectID, at time.Time) (bool, error) {
	filter := bson.M{
		"_id":        id,
		"is_pending": true,
		"is_revoked": false,
	}
	update := bson.M{
		"$set": bson.M{
			"is_pending":  false,
			"accepted_at": at,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark permission accepted: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

// MarkRevoked marks a permission revoked unless it already is, so the
// original revocation timestamp is never overwritten.
func (r *PermissionRepository) MarkRevoked(ctx context.Context, id bson.ObjectID, at time.Time) (bool, error) {
	filter := bson.M{
		"_id":        id,
		"is_revoked": false,
	}
	update := bson.M{
		"$set": bson.M{
			"is_revoked": true,
			"revoked_at": at,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark permission revoked: %w", err)
	}
	return result.ModifiedCount > 0, nil
}
