package models

import "testing"

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleOwner, RoleOwner, true},
		{RoleOwner, RoleManager, true},
		{RoleOwner, RoleViewer, true},
		{RoleManager, RoleOwner, false},
		{RoleManager, RoleManager, true},
		{RoleManager, RoleViewer, true},
		{RoleViewer, RoleOwner, false},
		{RoleViewer, RoleManager, false},
		{RoleViewer, RoleViewer, true},
	}
	for _, tt := range tests {
		if got := tt.role.AtLeast(tt.min); got != tt.want {
			t.Errorf("%s.AtLeast(%s) = %v, want %v", tt.role, tt.min, got, tt.want)
		}
	}
}

func TestRoleIsValid(t *testing.T) {
	for _, role := range []Role{RoleOwner, RoleManager, RoleViewer} {
		if !role.IsValid() {
			t.Errorf("Expected %q to be valid", role)
		}
	}
	for _, role := range []Role{"", "admin", "Owner"} {
		if role.IsValid() {
			t.Errorf("Expected %q to be invalid", role)
		}
	}
}

func TestScopeCovers(t *testing.T) {
	tests := []struct {
		scope    Scope
		required Scope
		want     bool
	}{
		{ScopeAll, ScopeAll, true},
		{ScopeAll, ScopeArtists, true},
		{ScopeAll, ScopeSchedule, true},
		{ScopeAll, ScopeAny, true},
		{ScopeArtists, ScopeArtists, true},
		{ScopeArtists, ScopeSchedule, false},
		{ScopeArtists, ScopeAll, false},
		{ScopeArtists, ScopeAny, true},
		{ScopeSchedule, ScopeSchedule, true},
		{ScopeSchedule, ScopeArtists, false},
		{ScopeSchedule, ScopeAny, true},
	}
	for _, tt := range tests {
		if got := tt.scope.Covers(tt.required); got != tt.want {
			t.Errorf("%q.Covers(%q) = %v, want %v", tt.scope, tt.required, got, tt.want)
		}
	}
}

func TestScopeIsValid(t *testing.T) {
	for _, scope := range []Scope{ScopeAll, ScopeArtists, ScopeSchedule} {
		if !scope.IsValid() {
			t.Errorf("Expected %q to be valid", scope)
		}
	}
	// ScopeAny is a check wildcard, not a storable scope
	for _, scope := range []Scope{ScopeAny, "backstage", "All"} {
		if scope.IsValid() {
			t.Errorf("Expected %q to be invalid", scope)
		}
	}
}

func TestPermissionGrants(t *testing.T) {
	tests := []struct {
		name       string
		permission FestivalPermission
		role       Role
		scope      Scope
		want       bool
	}{
		{"active manager all satisfies manager artists", FestivalPermission{Role: RoleManager, Scope: ScopeAll}, RoleManager, ScopeArtists, true},
		{"active manager all satisfies viewer any", FestivalPermission{Role: RoleManager, Scope: ScopeAll}, RoleViewer, ScopeAny, true},
		{"viewer does not satisfy manager", FestivalPermission{Role: RoleViewer, Scope: ScopeAll}, RoleManager, ScopeAll, false},
		{"artists scope does not satisfy schedule", FestivalPermission{Role: RoleManager, Scope: ScopeArtists}, RoleViewer, ScopeSchedule, false},
		{"pending grants nothing", FestivalPermission{Role: RoleOwner, Scope: ScopeAll, IsPending: true}, RoleViewer, ScopeAny, false},
		{"revoked grants nothing", FestivalPermission{Role: RoleOwner, Scope: ScopeAll, IsRevoked: true}, RoleViewer, ScopeAny, false},
		{"pending and revoked grants nothing", FestivalPermission{Role: RoleOwner, Scope: ScopeAll, IsPending: true, IsRevoked: true}, RoleViewer, ScopeAny, false},
		{"exact match", FestivalPermission{Role: RoleViewer, Scope: ScopeSchedule}, RoleViewer, ScopeSchedule, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.permission.Grants(tt.role, tt.scope); got != tt.want {
				t.Errorf("Grants(%s, %q) = %v, want %v", tt.role, tt.scope, got, tt.want)
			}
		})
	}
}

func TestIsActive(t *testing.T) {
	if !(&FestivalPermission{}).IsActive() {
		t.Error("Expected a permission with no flags set to be active")
	}
	if (&FestivalPermission{IsPending: true}).IsActive() {
		t.Error("Expected a pending permission to be inactive")
	}
	if (&FestivalPermission{IsRevoked: true}).IsActive() {
		t.Error("Expected a revoked permission to be inactive")
	}
}
