package services

import (
	"context"
	"festival-service/internal/models"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PermissionStore is the durable storage for permission records. Lookups by
// ID return (nil, nil) when the record does not exist. MarkAccepted and
// MarkRevoked are conditional updates: the store only flips a record that is
// still in the expected state and reports whether it did, which is what
// resolves a concurrent accept/revoke race on the same permission.
type PermissionStore interface {
	// GetActiveByFestival returns all non-revoked permissions for the
	// festival, pending invitations included.
	GetActiveByFestival(ctx context.Context, festivalID bson.ObjectID) ([]*models.FestivalPermission, error)

	// GetByUser returns all of the user's permissions in every lifecycle state.
	GetByUser(ctx context.Context, userID string) ([]*models.FestivalPermission, error)

	GetByID(ctx context.Context, id bson.ObjectID) (*models.FestivalPermission, error)

	Create(ctx context.Context, permission *models.FestivalPermission) (bson.ObjectID, error)

	// MarkAccepted flips is_pending off if the permission is still pending
	// and not revoked. Returns false when the record was not in that state.
	MarkAccepted(ctx context.Context, id bson.ObjectID, at time.Time) (bool, error)

	// MarkRevoked marks the permission revoked if it is not already.
	// Returns false when the record was already revoked; the stored
	// revocation timestamp is never overwritten.
	MarkRevoked(ctx context.Context, id bson.ObjectID, at time.Time) (bool, error)
}

// FestivalDirectory resolves festival IDs to display metadata. Batch lookups
// return only the subset found; missing IDs are simply absent.
type FestivalDirectory interface {
	GetByIDs(ctx context.Context, ids []bson.ObjectID) ([]*models.FestivalSummary, error)
}

// UserDirectory resolves user IDs to display metadata. GetByEmail returns
// (nil, nil) when no account carries the address.
type UserDirectory interface {
	GetByIDs(ctx context.Context, ids []string) ([]*models.UserSummary, error)
	GetByEmail(ctx context.Context, email string) (*models.UserSummary, error)
}

// Authorizer answers access-control questions for the management service.
// Absence of access is a normal false result, never an error.
type Authorizer interface {
	CanView(ctx context.Context, userID string, festivalID bson.ObjectID) (bool, error)
	CanManage(ctx context.Context, userID string, festivalID bson.ObjectID, required models.Scope) (bool, error)
	CanAdminister(ctx context.Context, userID string, festivalID bson.ObjectID) (bool, error)
}
