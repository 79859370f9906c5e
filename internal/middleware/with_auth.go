package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/pagos-go-api/internal/utils"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	RequireUser bool
	// RoleIDs restricts access to the listed role identifiers. Empty
	// means any authenticated role.
	RoleIDs []uint
}

// WithAuth wraps a handler with authentication and role guards based on
// the actor claims extracted by JWTProtected.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	requireUser := opts.RequireUser || len(opts.RoleIDs) > 0

	allowed := make(map[uint]struct{}, len(opts.RoleIDs))
	for _, role := range opts.RoleIDs {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		userID := c.Locals(LocalUserID)
		if requireUser && userID == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if len(allowed) > 0 {
			roleID, ok := c.Locals(LocalRoleID).(uint)
			if !ok {
				return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
			}
			if _, ok := allowed[roleID]; !ok {
				return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
			}
		}

		return handler(c)
	}
}
