package handlers

import (
	"context"
	"errors"
	"festival-service/internal/middleware"
	"festival-service/internal/models"
	"festival-service/internal/services"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type PermissionHandler struct {
	permissionService *services.PermissionService
}

func NewPermissionHandler(permissionService *services.PermissionService) *PermissionHandler {
	return &PermissionHandler{
		permissionService: permissionService,
	}
}

func (h *PermissionHandler) RegisterRoutes(app *fiber.App) {
	// All permission routes sit behind the gateway, which injects X-User-ID
	protectedGroup := app.Group("/protected/festivals")

	protectedGroup.Get("/:festivalID/permissions", h.ListPermissions)
	protectedGroup.Post("/:festivalID/permissions/invite", h.Invite)
	protectedGroup.Get("/permissions/invitations", h.ListInvitations)
	protectedGroup.Post("/permissions/:permissionID/accept", h.Accept)
	protectedGroup.Post("/permissions/:permissionID/revoke", h.Revoke)

	// Health check
	protectedGroup.Get("/health", h.HealthCheck)
}

func (h *PermissionHandler) ListPermissions(c fiber.Ctx) error {
	userID := middleware.CurrentUser(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	festivalID, err := bson.ObjectIDFromHex(c.Params("festivalID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid festival ID format",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	permissions, err := h.permissionService.GetByFestival(ctx, festivalID, userID)
	if err != nil {
		log.Printf("Failed to list permissions for festival %s: %v", festivalID.Hex(), err)
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"permissions": permissions,
		},
	})
}

func (h *PermissionHandler) ListInvitations(c fiber.Ctx) error {
	userID := middleware.CurrentUser(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	invitations, err := h.permissionService.GetPendingInvitations(ctx, userID)
	if err != nil {
		log.Printf("Failed to list invitations for user %s: %v", userID, err)
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": fiber.Map{
			"invitations": invitations,
		},
	})
}

func (h *PermissionHandler) Invite(c fiber.Ctx) error {
	userID := middleware.CurrentUser(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	festivalID, err := bson.ObjectIDFromHex(c.Params("festivalID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid festival ID format",
		})
	}

	var req models.InviteRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Grantee == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Grantee is required",
		})
	}
	if !req.Role.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown role",
		})
	}
	if !req.Scope.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown scope",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	permissionID, err := h.permissionService.Invite(ctx, userID, festivalID, req)
	if err != nil {
		log.Printf("Failed to invite %s to festival %s: %v", req.Grantee, festivalID.Hex(), err)
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Invitation created successfully",
		"data": fiber.Map{
			"permission_id": permissionID.Hex(),
		},
	})
}

func (h *PermissionHandler) Accept(c fiber.Ctx) error {
	userID := middleware.CurrentUser(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	permissionID, err := bson.ObjectIDFromHex(c.Params("permissionID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid permission ID format",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.permissionService.Accept(ctx, userID, permissionID); err != nil {
		log.Printf("Failed to accept permission %s for user %s: %v", permissionID.Hex(), userID, err)
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Invitation accepted successfully",
	})
}

func (h *PermissionHandler) Revoke(c fiber.Ctx) error {
	userID := middleware.CurrentUser(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	permissionID, err := bson.ObjectIDFromHex(c.Params("permissionID"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid permission ID format",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.permissionService.Revoke(ctx, userID, permissionID); err != nil {
		log.Printf("Failed to revoke permission %s by user %s: %v", permissionID.Hex(), userID, err)
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Permission revoked successfully",
	})
}

func (h *PermissionHandler) HealthCheck(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "healthy",
		"service": "festival-service",
	})
}

// respondServiceError maps service error kinds to stable status codes and
// user-facing messages. Data-access detail never reaches the client.
func respondServiceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": services.MsgCannotViewPermissions,
		})
	case errors.Is(err, services.ErrNotAuthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": services.MsgCannotManagePermissions,
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "The requested resource was not found",
		})
	case errors.Is(err, services.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "The permission is not in a state that allows this operation",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
