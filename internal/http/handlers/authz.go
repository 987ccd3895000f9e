package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deputyJo/ironcart-backend/internal/apperr"
	applog "github.com/deputyJo/ironcart-backend/internal/log"
	"github.com/deputyJo/ironcart-backend/internal/services"
)

// RequireAuth validates the bearer access token and stores the caller's
// identity in request locals. A missing header is 401; a bad or expired token
// is 403.
func RequireAuth(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			applog.Security(c, "access.denied.notoken", nil)
			return apperr.Unauthorized("Authentication required")
		}

		claims, err := tokens.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			applog.Security(c, "access.denied.badtoken", map[string]any{"reason": err.Error()})
			return apperr.Forbidden("Invalid or expired token")
		}

		c.Locals("userID", claims.ID)
		c.Locals("userEmail", claims.Email)
		c.Locals("userRole", claims.Role)
		return c.Next()
	}
}

// RequireRoles allows only callers whose role is in the given set. It must
// run after RequireAuth.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("userRole").(string)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		applog.Security(c, "access.denied.role", map[string]any{"role": role, "path": c.Path()})
		return apperr.Forbidden("You do not have permission to perform this action")
	}
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

func caller(c *fiber.Ctx) services.Caller {
	id, _ := c.Locals("userID").(string)
	role, _ := c.Locals("userRole").(string)
	return services.Caller{ID: id, Role: role}
}
