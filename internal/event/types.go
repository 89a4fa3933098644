package event

const (
	// Permission events
	EventTypePermissionInvited  = "permission.invited"
	EventTypePermissionGranted  = "permission.granted"
	EventTypePermissionAccepted = "permission.accepted"
	EventTypePermissionRevoked  = "permission.revoked"

	// Events consumed from other services
	EventTypeUserDeleted = "user.deleted"
)

// PermissionEvent represents permission lifecycle events published for the
// notification and analytics services
type PermissionEvent struct {
	EventType    string `json:"eventType"`
	PermissionID string `json:"permissionId"`
	FestivalID   string `json:"festivalId"`
	UserID       string `json:"userId"`
	ActorID      string `json:"actorId,omitempty"` // inviter, accepter or revoker
	Role         string `json:"role"`
	Scope        string `json:"scope"`
	Timestamp    int64  `json:"timestamp"`
}

// UserDeletedEvent is published by the auth service when an account is erased
type UserDeletedEvent struct {
	EventType string `json:"eventType"`
	UserID    string `json:"userId"`
	Timestamp int64  `json:"timestamp"`
}
