package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/SZL741023/Restaurant-API/internal/repositories"
	"github.com/SZL741023/Restaurant-API/internal/services"
)

const principalKey = "principal"

// AuthRequired checks the bearer token and resolves the caller into a
// Principal stored in the request context. Group membership is read
// from the store on every request, so role changes apply immediately.
func AuthRequired(authService *services.AuthService, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		userID, _ := claims["user_id"].(string)
		user, err := userRepo.GetByID(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unknown user",
			})
		}

		c.Locals(principalKey, services.Principal{
			UserID:   user.ID,
			Username: user.Username,
			Role:     services.ResolveRole(user.IsSuperuser, user.GroupNames()),
		})
		return c.Next()
	}
}

// RequireAccess consults the policy table for the resolved principal.
// Denial is surfaced as 403 before the handler runs; it never silently
// downgrades the operation.
func RequireAccess(resource services.Resource, op services.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := c.Locals(principalKey).(services.Principal)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}
		if !services.Authorize(principal.Role, resource, op) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You do not have permission to perform this action",
			})
		}
		return c.Next()
	}
}

// PrincipalFromCtx returns the principal resolved by AuthRequired.
func PrincipalFromCtx(c *fiber.Ctx) (services.Principal, bool) {
	principal, ok := c.Locals(principalKey).(services.Principal)
	return principal, ok
}
