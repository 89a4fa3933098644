package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role represents the privilege level a permission grants on a festival
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// roleRank orders roles from least to most privileged
var roleRank = map[Role]int{
	RoleViewer:  1,
	RoleManager: 2,
	RoleOwner:   3,
}

// IsValid reports whether the role is one of the known values
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether the role carries at least the privilege of min
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// Scope represents the festival sub-resource area a permission applies to
type Scope string

const (
	// ScopeAny is only meaningful in checks: any concrete scope satisfies it
	ScopeAny Scope = ""

	ScopeAll      Scope = "all"
	ScopeArtists  Scope = "artists"
	ScopeSchedule Scope = "schedule"
)

// IsValid reports whether the scope is a concrete value permissions may carry
func (s Scope) IsValid() bool {
	switch s {
	case ScopeAll, ScopeArtists, ScopeSchedule:
		return true
	}
	return false
}

// Covers reports whether a permission carrying scope s satisfies a check
// for the required scope. ScopeAll covers every sub-resource; a concrete
// scope covers itself and a ScopeAny check.
func (s Scope) Covers(required Scope) bool {
	if s == ScopeAll || required == ScopeAny {
		return true
	}
	return s == required
}

// FestivalPermission grants a user a role and scope of access to a festival.
// A permission is pending until the grantee accepts the invitation, and
// revocation is terminal: a re-grant always creates a new record.
type FestivalPermission struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FestivalID bson.ObjectID `bson:"festival_id" json:"festival_id"`
	UserID     string        `bson:"user_id" json:"user_id"`
	InvitedBy  string        `bson:"invited_by,omitempty" json:"invited_by,omitempty"` // empty when granted directly by the owner
	Role       Role          `bson:"role" json:"role"`
	Scope      Scope         `bson:"scope" json:"scope"`
	IsPending  bool          `bson:"is_pending" json:"is_pending"`
	IsRevoked  bool          `bson:"is_revoked" json:"is_revoked"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	AcceptedAt *time.Time    `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
	RevokedAt  *time.Time    `bson:"revoked_at,omitempty" json:"revoked_at,omitempty"`
}

// IsActive reports whether the permission is currently in effect
func (p *FestivalPermission) IsActive() bool {
	return !p.IsPending && !p.IsRevoked
}

// Grants reports whether the permission satisfies a check requiring the
// given role and scope. Revoked and pending permissions grant nothing.
func (p *FestivalPermission) Grants(role Role, scope Scope) bool {
	if !p.IsActive() {
		return false
	}
	return p.Role.AtLeast(role) && p.Scope.Covers(scope)
}
