package services

import (
	"context"
	"festival-service/internal/models"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func newTestFestival(owner string) (*fakeFestivalDirectory, bson.ObjectID) {
	festivalID := bson.NewObjectID()
	directory := &fakeFestivalDirectory{
		festivals: []*models.FestivalSummary{
			{ID: festivalID, Name: "Summer Sounds", OwnerUserID: owner},
		},
	}
	return directory, festivalID
}

func TestCanViewOwner(t *testing.T) {
	festivals, festivalID := newTestFestival("owner-1")
	service := NewAuthorizationService(&fakePermissionStore{}, festivals)

	canView, err := service.CanView(context.Background(), "owner-1", festivalID)
	if err != nil {
		t.Fatalf("CanView returned error: %v", err)
	}
	if !canView {
		t.Error("Expected the owner to be able to view the festival")
	}
}

func TestCanViewWithoutAnyPermission(t *testing.T) {
	festivals, festivalID := newTestFestival("owner-1")
	service := NewAuthorizationService(&fakePermissionStore{}, festivals)

	canView, err := service.CanView(context.Background(), "stranger", festivalID)
	if err != nil {
		t.Fatalf("CanView returned error: %v", err)
	}
	if canView {
		t.Error("Expected a user without permissions to be denied")
	}
}

func TestCanViewActivePermissionAnyRole(t *testing.T) {
	festivals, festivalID := newTestFestival("owner-1")
	store := &fakePermissionStore{
		permissions: []*models.FestivalPermission{
			{ID: bson.NewObjectID(), FestivalID: festivalID, UserID: "viewer-1", Role: models.RoleViewer, Scope: models.ScopeArtists},
		},
	}
	service := NewAuthorizationService(store, festivals)

	canView, err := service.CanView(context.Background(), "viewer-1", festivalID)
	if err != nil {
		t.Fatalf("CanView returned error: %v", err)
	}
	if !canView {
		t.Error("Expected an active viewer permission to allow viewing")
	}
}

func TestCanViewPendingInvitationDenied(t *testing.T) {
	festivals, festivalID := newTestFestival("owner-1")
	store := &fakePermissionStore{
		permissions: []*models.FestivalPermission{
			{ID: bson.NewObjectID(), FestivalID: festivalID, UserID: "invited-1", Role: models.RoleManager, Scope: models.ScopeAll, IsPending: true},
		},
	}
	service := NewAuthorizationService(store, festivals)

	canView, err := service.CanView(context.Background(), "invited-1", festivalID)
	if err != nil {
		t.Fatalf("CanView returned error: %v", err)
	}
	if canView {
		t.Error("Expected a pending invitation to grant nothing before acceptance")
	}
}

func TestRevokedPermissionGrantsNothing(t *testing.T) {
	festivals, festivalID := newTestFestival("owner-1")
	store := &fakePermissionStore{
		permissions: []*models.FestivalPermission{
			{ID: bson.NewObjectID(), FestivalID: festivalID, UserID: "former-manager", Role: models.RoleOwner, Scope: models.ScopeAll, IsRevoked: true},
		},
	}
	service := NewAuthorizationService(store, festivals)
	ctx := context.Background()

	if canView, _ := service.CanView(ctx, "former-manager", festivalID); canView {
		t.Error("Expected a revoked permission to deny viewing")
	}
	if canManage, _ := service.CanManage(ctx, "former-manager", festivalID, models.ScopeArtists); canManage {
		t.Error("Expected a revoked permission to deny managing")
	}
	if canAdminister, _ := service.CanAdminister(ctx, "former-manager", festivalID); canAdminister {
		t.Error("Expected a revoked permission to deny administering")
	}
}

func TestRevocationTakesEffectOnNextCheck(t *testing.T) {
	festivals, festivalID := newTestFestival("owner-1")
	permission := &models.FestivalPermission{
		ID: bson.NewObjectID(), FestivalID: festivalID, UserID: "manager-1",
		Role: models.RoleManager, Scope: models.ScopeAll,
	}
	store := &fakePermissionStore{permissions: []*models.FestivalPermission{permission}}
	service := NewAuthorizationService(store, festivals)
	ctx := context.Background()

	if canAdminister, _ := service.CanAdminister(ctx, "manager-1", festivalID); !canAdminister {
		t.Fatal("Expected the manager to administer before revocation")
	}

	permission.IsRevoked = true

	if canAdminister, _ := service.CanAdminister(ctx, "manager-1", festivalID); canAdminister {
		t.Error("Expected the revocation to take effect on the next check")
	}
}

func TestUnknownFestivalDeniesEverything(t *testing.T) {
	service := NewAuthorizationService(&fakePermissionStore{}, &fakeFestivalDirectory{})
	ctx := context.Background()
	festivalID := bson.NewObjectID()

	if canView, err := service.CanView(ctx, "anyone", festivalID); err != nil || canView {
		t.Errorf("Expected (false, nil) for an unknown festival, got (%v, %v)", canView, err)
	}
	if canAdminister, err := service.CanAdminister(ctx, "anyone", festivalID); err != nil || canAdminister {
		t.Errorf("Expected (false, nil) for an unknown festival, got (%v, %v)", canAdminister, err)
	}
}

// Festival owned by O; Manager/All granted to M; Viewer/Artists granted to V.
func TestOwnerManagerViewerScenario(t *testing.T) {
	festivals, festivalID := newTestFestival("O")
	store := &fakePermissionStore{
		permissions: []*models.FestivalPermission{
			{ID: bson.NewObjectID(), FestivalID: festivalID, UserID: "M", Role: models.RoleManager, Scope: models.ScopeAll},
			{ID: bson.NewObjectID(), FestivalID: festivalID, UserID: "V", Role: models.RoleViewer, Scope: models.ScopeArtists},
		},
	}
	service := NewAuthorizationService(store, festivals)
	ctx := context.Background()

	checks := []struct {
		name string
		got  func() (bool, error)
		want bool
	}{
		{"CanAdminister(V)", func() (bool, error) { return service.CanAdminister(ctx, "V", festivalID) }, false},
		{"CanAdminister(M)", func() (bool, error) { return service.CanAdminister(ctx, "M", festivalID) }, true},
		{"CanAdminister(O)", func() (bool, error) { return service.CanAdminister(ctx, "O", festivalID) }, true},
		{"CanManage(V, artists)", func() (bool, error) { return service.CanManage(ctx, "V", festivalID, models.ScopeArtists) }, true},
		{"CanManage(V, schedule)", func() (bool, error) { return service.CanManage(ctx, "V", festivalID, models.ScopeSchedule) }, false},
		{"CanManage(M, schedule)", func() (bool, error) { return service.CanManage(ctx, "M", festivalID, models.ScopeSchedule) }, true},
		{"CanView(V)", func() (bool, error) { return service.CanView(ctx, "V", festivalID) }, true},
		{"CanView(M)", func() (bool, error) { return service.CanView(ctx, "M", festivalID) }, true},
		{"CanView(O)", func() (bool, error) { return service.CanView(ctx, "O", festivalID) }, true},
	}
	for _, check := range checks {
		got, err := check.got()
		if err != nil {
			t.Fatalf("%s returned error: %v", check.name, err)
		}
		if got != check.want {
			t.Errorf("%s = %v, want %v", check.name, got, check.want)
		}
	}
}

func TestScopeAllCoversEveryArea(t *testing.T) {
	festivals, festivalID := newTestFestival("owner-1")
	store := &fakePermissionStore{
		permissions: []*models.FestivalPermission{
			{ID: bson.NewObjectID(), FestivalID: festivalID, UserID: "viewer-all", Role: models.RoleViewer, Scope: models.ScopeAll},
		},
	}
	service := NewAuthorizationService(store, festivals)
	ctx := context.Background()

	for _, required := range []models.Scope{models.ScopeArtists, models.ScopeSchedule, models.ScopeAll, models.ScopeAny} {
		canManage, err := service.CanManage(ctx, "viewer-all", festivalID, required)
		if err != nil {
			t.Fatalf("CanManage(%q) returned error: %v", required, err)
		}
		if !canManage {
			t.Errorf("Expected scope all to cover %q", required)
		}
	}

	// Scope all alone does not confer permission administration
	canAdminister, err := service.CanAdminister(ctx, "viewer-all", festivalID)
	if err != nil {
		t.Fatalf("CanAdminister returned error: %v", err)
	}
	if canAdminister {
		t.Error("Expected a viewer to be denied administering even with scope all")
	}
}

func TestCanAdministerRequiresScopeAll(t *testing.T) {
	festivals, festivalID := newTestFestival("owner-1")
	store := &fakePermissionStore{
		permissions: []*models.FestivalPermission{
			{ID: bson.NewObjectID(), FestivalID: festivalID, UserID: "artists-manager", Role: models.RoleManager, Scope: models.ScopeArtists},
		},
	}
	service := NewAuthorizationService(store, festivals)

	canAdminister, err := service.CanAdminister(context.Background(), "artists-manager", festivalID)
	if err != nil {
		t.Fatalf("CanAdminister returned error: %v", err)
	}
	if canAdminister {
		t.Error("Expected a manager scoped to artists to be denied administering")
	}
}
