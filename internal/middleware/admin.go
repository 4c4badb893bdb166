package middleware

import (
	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired admits supa and staff. The role claim is cross-checked
// against the database so a stale token cannot outlive a demotion.
func AdminRequired(db *gorm.DB) fiber.Handler {
	return requireRole(db, func(r models.Role) bool { return r.IsAdmin() })
}

// SuperRequired admits supa only (staff management, staff deletion).
func SuperRequired(db *gorm.DB) fiber.Handler {
	return requireRole(db, func(r models.Role) bool { return r == models.RoleSuper })
}

func requireRole(db *gorm.DB, allowed func(models.Role) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !allowed(user.Agility) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}

		return c.Next()
	}
}
