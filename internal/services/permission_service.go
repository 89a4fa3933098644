package services

import (
	"context"
	"festival-service/internal/event"
	"festival-service/internal/models"
	"fmt"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User-facing messages for denied operations. Handlers return these
// verbatim, so they must stay stable.
const (
	MsgCannotViewPermissions   = "You do not have permission to view this festival's permissions."
	MsgCannotManagePermissions = "You do not have permission to manage this festival's permissions."
)

// PermissionService orchestrates listing, inviting, accepting and revoking
// festival permissions. It gates every operation through the Authorizer and
// decorates results with directory data using one batch lookup per
// directory, never one lookup per entry.
type PermissionService struct {
	permissionStore PermissionStore
	festivals       FestivalDirectory
	users           UserDirectory
	authorizer      Authorizer
	clock           Clock
	publisher       event.Publisher
}

func NewPermissionService(
	permissionStore PermissionStore,
	festivals FestivalDirectory,
	users UserDirectory,
	authorizer Authorizer,
	clock Clock,
	publisher event.Publisher,
) *PermissionService {
	return &PermissionService{
		permissionStore: permissionStore,
		festivals:       festivals,
		users:           users,
		authorizer:      authorizer,
		clock:           clock,
		publisher:       publisher,
	}
}

// GetByFestival lists the festival's non-revoked permissions, pending
// invitations included, decorated with each grantee's email and display
// name. Entries whose user cannot be resolved keep empty decoration fields.
func (s *PermissionService) GetByFestival(ctx context.Context, festivalID bson.ObjectID, requestingUserID string) ([]models.PermissionView, error) {
	canView, err := s.authorizer.CanView(ctx, requestingUserID, festivalID)
	if err != nil {
		return nil, err
	}
	if !canView {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, MsgCannotViewPermissions)
	}

	permissions, err := s.permissionStore.GetActiveByFestival(ctx, festivalID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load festival permissions: %v", ErrDataAccess, err)
	}

	// Collect the distinct grantee set and resolve it with a single batch call
	userIDs := make([]string, 0, len(permissions))
	seen := make(map[string]bool, len(permissions))
	for _, permission := range permissions {
		if !seen[permission.UserID] {
			seen[permission.UserID] = true
			userIDs = append(userIDs, permission.UserID)
		}
	}

	usersByID := make(map[string]*models.UserSummary, len(userIDs))
	if len(userIDs) > 0 {
		users, err := s.users.GetByIDs(ctx, userIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to resolve users: %v", ErrDataAccess, err)
		}
		for _, user := range users {
			usersByID[user.ID] = user
		}
	}

	views := make([]models.PermissionView, 0, len(permissions))
	for _, permission := range permissions {
		view := models.PermissionView{
			PermissionID: permission.ID,
			FestivalID:   permission.FestivalID,
			UserID:       permission.UserID,
			Role:         permission.Role,
			Scope:        permission.Scope,
			IsPending:    permission.IsPending,
			CreatedAt:    permission.CreatedAt,
		}
		if user, ok := usersByID[permission.UserID]; ok {
			view.UserEmail = user.Email
			view.UserDisplayName = user.DisplayName
		}
		views = append(views, view)
	}
	return views, nil
}

// GetPendingInvitations lists the user's pending, non-revoked invitations
// decorated with the festival name and the inviter's display name. One
// batch call per directory regardless of invitation count.
func (s *PermissionService) GetPendingInvitations(ctx context.Context, userID string) ([]models.InvitationView, error) {
	permissions, err := s.permissionStore.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load user permissions: %v", ErrDataAccess, err)
	}

	pending := make([]*models.FestivalPermission, 0, len(permissions))
	for _, permission := range permissions {
		if permission.IsPending && !permission.IsRevoked {
			pending = append(pending, permission)
		}
	}
	if len(pending) == 0 {
		return []models.InvitationView{}, nil
	}

	festivalIDs := make([]bson.ObjectID, 0, len(pending))
	seenFestivals := make(map[bson.ObjectID]bool, len(pending))
	inviterIDs := make([]string, 0, len(pending))
	seenInviters := make(map[string]bool, len(pending))
	for _, permission := range pending {
		if !seenFestivals[permission.FestivalID] {
			seenFestivals[permission.FestivalID] = true
			festivalIDs = append(festivalIDs, permission.FestivalID)
		}
		if permission.InvitedBy != "" && !seenInviters[permission.InvitedBy] {
			seenInviters[permission.InvitedBy] = true
			inviterIDs = append(inviterIDs, permission.InvitedBy)
		}
	}

	festivals, err := s.festivals.GetByIDs(ctx, festivalIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve festivals: %v", ErrDataAccess, err)
	}
	festivalsByID := make(map[bson.ObjectID]*models.FestivalSummary, len(festivals))
	for _, festival := range festivals {
		festivalsByID[festival.ID] = festival
	}

	invitersByID := make(map[string]*models.UserSummary, len(inviterIDs))
	if len(inviterIDs) > 0 {
		inviters, err := s.users.GetByIDs(ctx, inviterIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to resolve inviters: %v", ErrDataAccess, err)
		}
		for _, inviter := range inviters {
			invitersByID[inviter.ID] = inviter
		}
	}

	views := make([]models.InvitationView, 0, len(pending))
	for _, permission := range pending {
		view := models.InvitationView{
			PermissionID: permission.ID,
			FestivalID:   permission.FestivalID,
			Role:         permission.Role,
			Scope:        permission.Scope,
			InvitedBy:    permission.InvitedBy,
			CreatedAt:    permission.CreatedAt,
		}
		if festival, ok := festivalsByID[permission.FestivalID]; ok {
			view.FestivalName = festival.Name
		}
		if inviter, ok := invitersByID[permission.InvitedBy]; ok {
			view.InvitedByName = inviter.DisplayName
		}
		views = append(views, view)
	}
	return views, nil
}

// Invite grants a user access to a festival. A grant by the festival owner
// takes effect immediately; anyone else's creates a pending invitation the
// grantee must accept. An existing non-revoked permission for the same
// (festival, user) pair is superseded, never duplicated.
func (s *PermissionService) Invite(ctx context.Context, inviterID string, festivalID bson.ObjectID, req models.InviteRequest) (bson.ObjectID, error) {
	if !req.Role.IsValid() {
		return bson.ObjectID{}, fmt.Errorf("%w: unknown role %q", ErrInvalidState, req.Role)
	}
	if !req.Scope.IsValid() {
		return bson.ObjectID{}, fmt.Errorf("%w: unknown scope %q", ErrInvalidState, req.Scope)
	}

	canAdminister, err := s.authorizer.CanAdminister(ctx, inviterID, festivalID)
	if err != nil {
		return bson.ObjectID{}, err
	}
	if !canAdminister {
		return bson.ObjectID{}, fmt.Errorf("%w: %s", ErrNotAuthorized, MsgCannotManagePermissions)
	}

	grantee, err := s.resolveGrantee(ctx, req.Grantee)
	if err != nil {
		return bson.ObjectID{}, err
	}

	owner, err := s.festivalOwner(ctx, festivalID)
	if err != nil {
		return bson.ObjectID{}, err
	}
	if grantee.ID == owner {
		return bson.ObjectID{}, fmt.Errorf("%w: the festival owner already has full access", ErrInvalidState)
	}

	now := s.clock.Now()

	// Supersede any existing grant for this pair rather than duplicating it
	existing, err := s.permissionStore.GetActiveByFestival(ctx, festivalID)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: failed to load festival permissions: %v", ErrDataAccess, err)
	}
	for _, permission := range existing {
		if permission.UserID != grantee.ID {
			continue
		}
		if _, err := s.permissionStore.MarkRevoked(ctx, permission.ID, now); err != nil {
			return bson.ObjectID{}, fmt.Errorf("%w: failed to supersede permission: %v", ErrDataAccess, err)
		}
	}

	permission := &models.FestivalPermission{
		FestivalID: festivalID,
		UserID:     grantee.ID,
		Role:       req.Role,
		Scope:      req.Scope,
		CreatedAt:  now,
	}
	eventType := event.EventTypePermissionGranted
	if inviterID != owner {
		permission.IsPending = true
		permission.InvitedBy = inviterID
		eventType = event.EventTypePermissionInvited
	}

	id, err := s.permissionStore.Create(ctx, permission)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: failed to create permission: %v", ErrDataAccess, err)
	}

	s.publish(&event.PermissionEvent{
		EventType:    eventType,
		PermissionID: id.Hex(),
		FestivalID:   festivalID.Hex(),
		UserID:       grantee.ID,
		ActorID:      inviterID,
		Role:         string(req.Role),
		Scope:        string(req.Scope),
		Timestamp:    now.Unix(),
	})
	return id, nil
}

// Accept activates a pending invitation. The permission must belong to the
// accepting user, be pending and not revoked. The store flips the pending
// flag conditionally, so a revocation racing this call wins and the accept
// reports an invalid state.
func (s *PermissionService) Accept(ctx context.Context, userID string, permissionID bson.ObjectID) error {
	permission, err := s.permissionStore.GetByID(ctx, permissionID)
	if err != nil {
		return fmt.Errorf("%w: failed to load permission: %v", ErrDataAccess, err)
	}
	if permission == nil {
		return fmt.Errorf("%w: permission %s", ErrNotFound, permissionID.Hex())
	}
	if permission.UserID != userID {
		return fmt.Errorf("%w: invitation belongs to another user", ErrInvalidState)
	}
	if permission.IsRevoked {
		return fmt.Errorf("%w: invitation has been revoked", ErrInvalidState)
	}
	if !permission.IsPending {
		return fmt.Errorf("%w: invitation has already been accepted", ErrInvalidState)
	}

	now := s.clock.Now()
	accepted, err := s.permissionStore.MarkAccepted(ctx, permissionID, now)
	if err != nil {
		return fmt.Errorf("%w: failed to accept invitation: %v", ErrDataAccess, err)
	}
	if !accepted {
		return fmt.Errorf("%w: invitation is no longer pending", ErrInvalidState)
	}

	s.publish(&event.PermissionEvent{
		EventType:    event.EventTypePermissionAccepted,
		PermissionID: permissionID.Hex(),
		FestivalID:   permission.FestivalID.Hex(),
		UserID:       userID,
		ActorID:      userID,
		Role:         string(permission.Role),
		Scope:        string(permission.Scope),
		Timestamp:    now.Unix(),
	})
	return nil
}

// Revoke withdraws a permission. Allowed for anyone who can administer the
// permission's festival and for the grantee giving up their own access.
// Revoking an already-revoked permission is a no-op success and leaves the
// original revocation timestamp untouched.
func (s *PermissionService) Revoke(ctx context.Context, actorID string, permissionID bson.ObjectID) error {
	permission, err := s.permissionStore.GetByID(ctx, permissionID)
	if err != nil {
		return fmt.Errorf("%w: failed to load permission: %v", ErrDataAccess, err)
	}
	if permission == nil {
		return fmt.Errorf("%w: permission %s", ErrNotFound, permissionID.Hex())
	}

	if actorID != permission.UserID {
		canAdminister, err := s.authorizer.CanAdminister(ctx, actorID, permission.FestivalID)
		if err != nil {
			return err
		}
		if !canAdminister {
			return fmt.Errorf("%w: %s", ErrNotAuthorized, MsgCannotManagePermissions)
		}
	}

	if permission.IsRevoked {
		return nil
	}

	now := s.clock.Now()
	revoked, err := s.permissionStore.MarkRevoked(ctx, permissionID, now)
	if err != nil {
		return fmt.Errorf("%w: failed to revoke permission: %v", ErrDataAccess, err)
	}
	if !revoked {
		// Lost a race against another revocation; outcome is the same
		return nil
	}

	s.publish(&event.PermissionEvent{
		EventType:    event.EventTypePermissionRevoked,
		PermissionID: permissionID.Hex(),
		FestivalID:   permission.FestivalID.Hex(),
		UserID:       permission.UserID,
		ActorID:      actorID,
		Role:         string(permission.Role),
		Scope:        string(permission.Scope),
		Timestamp:    now.Unix(),
	})
	return nil
}

// RevokeAllForUser withdraws every non-revoked permission the user holds.
// Called from the event consumer when an account is deleted.
func (s *PermissionService) RevokeAllForUser(ctx context.Context, userID string) error {
	permissions, err := s.permissionStore.GetByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: failed to load user permissions: %v", ErrDataAccess, err)
	}

	now := s.clock.Now()
	for _, permission := range permissions {
		if permission.IsRevoked {
			continue
		}
		revoked, err := s.permissionStore.MarkRevoked(ctx, permission.ID, now)
		if err != nil {
			return fmt.Errorf("%w: failed to revoke permission %s: %v", ErrDataAccess, permission.ID.Hex(), err)
		}
		if !revoked {
			continue
		}
		s.publish(&event.PermissionEvent{
			EventType:    event.EventTypePermissionRevoked,
			PermissionID: permission.ID.Hex(),
			FestivalID:   permission.FestivalID.Hex(),
			UserID:       userID,
			Role:         string(permission.Role),
			Scope:        string(permission.Scope),
			Timestamp:    now.Unix(),
		})
	}
	return nil
}

// resolveGrantee resolves the invite target: an email address when it
// contains "@", a user ID otherwise.
func (s *PermissionService) resolveGrantee(ctx context.Context, grantee string) (*models.UserSummary, error) {
	if strings.Contains(grantee, "@") {
		user, err := s.users.GetByEmail(ctx, grantee)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to resolve user by email: %v", ErrDataAccess, err)
		}
		if user == nil {
			return nil, fmt.Errorf("%w: no user with email %q", ErrNotFound, grantee)
		}
		return user, nil
	}

	users, err := s.users.GetByIDs(ctx, []string{grantee})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve user: %v", ErrDataAccess, err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: no user with ID %q", ErrNotFound, grantee)
	}
	return users[0], nil
}

func (s *PermissionService) festivalOwner(ctx context.Context, festivalID bson.ObjectID) (string, error) {
	festivals, err := s.festivals.GetByIDs(ctx, []bson.ObjectID{festivalID})
	if err != nil {
		return "", fmt.Errorf("%w: failed to resolve festival: %v", ErrDataAccess, err)
	}
	if len(festivals) == 0 {
		return "", fmt.Errorf("%w: festival %s", ErrNotFound, festivalID.Hex())
	}
	return festivals[0].OwnerUserID, nil
}

func (s *PermissionService) publish(permissionEvent *event.PermissionEvent) {
	if err := s.publisher.PublishPermissionEvent(permissionEvent); err != nil {
		log.Printf("Failed to publish %s event for permission %s: %v",
			permissionEvent.EventType, permissionEvent.PermissionID, err)
	}
}
