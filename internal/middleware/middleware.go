package middleware

import (
	"github.com/gofiber/fiber/v3"
)

const (
	// Headers injected by the API gateway after token validation
	UserIDHeader          = "X-User-ID"
	UserPermissionsHeader = "X-User-Permissions"

	// Festival permission constants
	ReadFestivalPermission   = "read:festival"
	WriteFestivalPermission  = "write:festival"
	AdminFestivalPermission  = "admin:festival"
	InviteFestivalPermission = "invite:festival"
)

// CurrentUser extracts the authenticated user ID injected by the gateway.
// Empty means the request did not come through the gateway.
func CurrentUser(c fiber.Ctx) string {
	return c.Get(UserIDHeader)
}
