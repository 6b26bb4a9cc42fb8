// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"errors"

	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Page holds parsed page/limit query parameters (1-based page).
type Page struct {
	Number int
	Size   int
}

// parsePage extracts page and limit query parameters. Out-of-range values
// fall back to sane defaults rather than erroring; an out-of-range page is a
// valid request that yields an empty page.
func parsePage(c *fiber.Ctx) Page {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	limit := c.QueryInt("limit", defaultPageSize)
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return Page{Number: page, Size: limit}
}

// parseUUID extracts a route parameter as a UUID.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseUUID(c *fiber.Ctx, param, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		appErr := models.NewInvalidIDError(resource)
		_ = models.RespondWithError(c, models.StatusForError(appErr), appErr)
		return uuid.Nil, errResponseWritten
	}
	return id, nil
}

// identityFromCtx returns the verified identity placed in locals by the
// authentication middleware. Routes behind AuthRequired always have one.
func identityFromCtx(c *fiber.Ctx) *models.Identity {
	identity, _ := c.Locals("identity").(*models.Identity)
	return identity
}

// isAdminByEmail checks whether the caller holds the admin role.
func (s *Server) isAdminByEmail(c *fiber.Ctx, email string) (bool, error) {
	role, err := s.userRepo.RoleOf(c.Context(), email)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

// AdminRequired returns middleware that rejects non-admin callers with 403.
// Must be placed after AuthRequired so that the identity is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := identityFromCtx(c)
		if identity == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		admin, err := s.isAdminByEmail(c, identity.Email)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}
