package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/models"
	"github.com/schulportal/schulportal-api/internal/utils"
)

// PermissionResolver loads the authenticated user together with its role
// so permission strings can be checked against the current database state.
type PermissionResolver interface {
	FindByID(ctx context.Context, id uint) (models.User, error)
}

// RequirePermission ensures the authenticated user holds at least one of the
// given permissions. Permissions are resolved from the user's role on every
// request rather than trusted from token claims.
func RequirePermission(resolver PermissionResolver, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := CurrentUserID(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		user, err := resolver.FindByID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.SendError(c, fiber.StatusUnauthorized, "unknown user")
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to resolve user")
		}

		if !user.HasOneOfPermissions(permissions...) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}

		return c.Next()
	}
}
