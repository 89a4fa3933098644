package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PermissionView is a festival permission decorated with the grantee's
// directory data. Email and display name are empty when the user could
// not be resolved.
type PermissionView struct {
	PermissionID    bson.ObjectID `json:"permission_id"`
	FestivalID      bson.ObjectID `json:"festival_id"`
	UserID          string        `json:"user_id"`
	UserEmail       string        `json:"user_email"`
	UserDisplayName string        `json:"user_display_name"`
	Role            Role          `json:"role"`
	Scope           Scope         `json:"scope"`
	IsPending       bool          `json:"is_pending"`
	CreatedAt       time.Time     `json:"created_at"`
}

// InvitationView is a pending permission decorated with the festival name
// and the inviter's display name for the invitations inbox.
type InvitationView struct {
	PermissionID  bson.ObjectID `json:"permission_id"`
	FestivalID    bson.ObjectID `json:"festival_id"`
	FestivalName  string        `json:"festival_name"`
	Role          Role          `json:"role"`
	Scope         Scope         `json:"scope"`
	InvitedBy     string        `json:"invited_by"`
	InvitedByName string        `json:"invited_by_name"`
	CreatedAt     time.Time     `json:"created_at"`
}

// InviteRequest is the payload for inviting a user to a festival. Grantee
// is an email address when it contains "@", otherwise a user ID.
type InviteRequest struct {
	Grantee string `json:"grantee"`
	Role    Role   `json:"role"`
	Scope   Scope  `json:"scope"`
}
