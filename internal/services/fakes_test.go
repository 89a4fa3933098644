package services

import (
	"context"
	"festival-service/internal/event"
	"festival-service/internal/models"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// fakePermissionStore keeps permissions in a slice and mimics the store's
// conditional updates. Call counters back the batching assertions.
type fakePermissionStore struct {
	permissions []*models.FestivalPermission
	err         error

	getActiveByFestivalCalls int
	getByUserCalls           int
	createCalls              int
	markAcceptedCalls        int
	markRevokedCalls         int
}

func (f *fakePermissionStore) GetActiveByFestival(ctx context.Context, festivalID bson.ObjectID) ([]*models.FestivalPermission, error) {
	f.getActiveByFestivalCalls++
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.FestivalPermission
	for _, p := range f.permissions {
		if p.FestivalID == festivalID && !p.IsRevoked {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePermissionStore) GetByUser(ctx context.Context, userID string) ([]*models.FestivalPermission, error) {
	f.getByUserCalls++
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.FestivalPermission
	for _, p := range f.permissions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePermissionStore) GetByID(ctx context.Context, id bson.ObjectID) (*models.FestivalPermission, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.permissions {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePermissionStore) Create(ctx context.Context, permission *models.FestivalPermission) (bson.ObjectID, error) {
	f.createCalls++
	if f.err != nil {
		return bson.ObjectID{}, f.err
	}
	if permission.ID.IsZero() {
		permission.ID = bson.NewObjectID()
	}
	f.permissions = append(f.permissions, permission)
	return permission.ID, nil
}

func (f *fakePermissionStore) MarkAccepted(ctx context.Context, id bson.ObjectID, at time.Time) (bool, error) {
	f.markAcceptedCalls++
	if f.err != nil {
		return false, f.err
	}
	for _, p := range f.permissions {
		if p.ID == id && p.IsPending && !p.IsRevoked {
			p.IsPending = false
			accepted := at
			p.AcceptedAt = &accepted
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePermissionStore) MarkRevoked(ctx context.Context, id bson.ObjectID, at time.Time) (bool, error) {
	f.markRevokedCalls++
	if f.err != nil {
		return false, f.err
	}
	for _, p := range f.permissions {
		if p.ID == id && !p.IsRevoked {
			p.IsRevoked = true
			revoked := at
			p.RevokedAt = &revoked
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePermissionStore) byID(id bson.ObjectID) *models.FestivalPermission {
	for _, p := range f.permissions {
		if p.ID == id {
			return p
		}
	}
	return nil
}

type fakeFestivalDirectory struct {
	festivals []*models.FestivalSummary
	err       error

	getByIDsCalls int
}

func (f *fakeFestivalDirectory) GetByIDs(ctx context.Context, ids []bson.ObjectID) ([]*models.FestivalSummary, error) {
	f.getByIDsCalls++
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.FestivalSummary
	for _, id := range ids {
		for _, festival := range f.festivals {
			if festival.ID == id {
				out = append(out, festival)
			}
		}
	}
	return out, nil
}

type fakeUserDirectory struct {
	users []*models.UserSummary
	err   error

	getByIDsCalls   int
	getByEmailCalls int
}

func (f *fakeUserDirectory) GetByIDs(ctx context.Context, ids []string) ([]*models.UserSummary, error) {
	f.getByIDsCalls++
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.UserSummary
	for _, id := range ids {
		for _, user := range f.users {
			if user.ID == id {
				out = append(out, user)
			}
		}
	}
	return out, nil
}

func (f *fakeUserDirectory) GetByEmail(ctx context.Context, email string) (*models.UserSummary, error) {
	f.getByEmailCalls++
	if f.err != nil {
		return nil, f.err
	}
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

// stubAuthorizer returns canned answers so management-service tests control
// the gate without exercising the decision service.
type stubAuthorizer struct {
	canView       bool
	canManage     bool
	canAdminister bool
	err           error
}

func (s *stubAuthorizer) CanView(ctx context.Context, userID string, festivalID bson.ObjectID) (bool, error) {
	return s.canView, s.err
}

func (s *stubAuthorizer) CanManage(ctx context.Context, userID string, festivalID bson.ObjectID, required models.Scope) (bool, error) {
	return s.canManage, s.err
}

func (s *stubAuthorizer) CanAdminister(ctx context.Context, userID string, festivalID bson.ObjectID) (bool, error) {
	return s.canAdminister, s.err
}

type fakeClock struct {
	now time.Time
}

func (f fakeClock) Now() time.Time {
	return f.now
}

type fakePublisher struct {
	events []*event.PermissionEvent
}

func (f *fakePublisher) PublishPermissionEvent(permissionEvent *event.PermissionEvent) error {
	f.events = append(f.events, permissionEvent)
	return nil
}

func (f *fakePublisher) Close() error {
	return nil
}
