package services

import (
	"context"
	"festival-service/internal/models"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// AuthorizationService answers "can user U perform action A on festival F".
// Every decision is computed from the festival's current non-revoked
// permission set and the owner recorded in the festival directory, never
// from a cached or denormalized flag, so a revocation takes effect on the
// next check with no invalidation step.
type AuthorizationService struct {
	permissionStore PermissionStore
	festivals       FestivalDirectory
}

func NewAuthorizationService(permissionStore PermissionStore, festivals FestivalDirectory) *AuthorizationService {
	return &AuthorizationService{
		permissionStore: permissionStore,
		festivals:       festivals,
	}
}

// CanView reports whether the user may read the festival's data: the owner,
// or any holder of an active permission regardless of role and scope.
func (s *AuthorizationService) CanView(ctx context.Context, userID string, festivalID bson.ObjectID) (bool, error) {
	owner, err := s.festivalOwner(ctx, festivalID)
	if err != nil {
		return false, err
	}
	if owner == userID {
		return true, nil
	}

	permission, err := s.activePermission(ctx, userID, festivalID)
	if err != nil {
		return false, err
	}
	return permission != nil, nil
}

// CanManage reports whether the user may work on the festival's content in
// the required scope: the owner, or any active permission whose scope covers
// it. Role does not enter into it: scope decides which content areas a grant
// covers, role decides who may administer the permissions themselves.
func (s *AuthorizationService) CanManage(ctx context.Context, userID string, festivalID bson.ObjectID, required models.Scope) (bool, error) {
	owner, err := s.festivalOwner(ctx, festivalID)
	if err != nil {
		return false, err
	}
	if owner == userID {
		return true, nil
	}

	permission, err := s.activePermission(ctx, userID, festivalID)
	if err != nil {
		return false, err
	}
	if permission == nil {
		return false, nil
	}
	return permission.Scope.Covers(required), nil
}

// CanAdminister reports whether the user may manage the festival's
// permissions themselves (invite, revoke): the owner, or an active
// Manager-or-above permission scoped to everything.
func (s *AuthorizationService) CanAdminister(ctx context.Context, userID string, festivalID bson.ObjectID) (bool, error) {
	owner, err := s.festivalOwner(ctx, festivalID)
	if err != nil {
		return false, err
	}
	if owner == userID {
		return true, nil
	}

	permission, err := s.activePermission(ctx, userID, festivalID)
	if err != nil {
		return false, err
	}
	if permission == nil {
		return false, nil
	}
	return permission.Grants(models.RoleManager, models.ScopeAll), nil
}

// festivalOwner is the single source of truth for "is this user the owner".
// A festival that does not resolve has no owner, so every check comes back
// negative for it.
func (s *AuthorizationService) festivalOwner(ctx context.Context, festivalID bson.ObjectID) (string, error) {
	festivals, err := s.festivals.GetByIDs(ctx, []bson.ObjectID{festivalID})
	if err != nil {
		return "", fmt.Errorf("%w: failed to resolve festival: %v", ErrDataAccess, err)
	}
	if len(festivals) == 0 {
		return "", nil
	}
	return festivals[0].OwnerUserID, nil
}

// activePermission returns the user's active permission on the festival, or
// nil when there is none. Pending invitations grant nothing.
func (s *AuthorizationService) activePermission(ctx context.Context, userID string, festivalID bson.ObjectID) (*models.FestivalPermission, error) {
	permissions, err := s.permissionStore.GetActiveByFestival(ctx, festivalID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load festival permissions: %v", ErrDataAccess, err)
	}
	for _, permission := range permissions {
		if permission.UserID == userID && permission.IsActive() {
			return permission, nil
		}
	}
	return nil, nil
}
