// Package middleware provides HTTP middleware for the staff and manager
// endpoints.
package middleware

import (
	"log/slog"
	"strings"

	"github.com/Raghu0511/canteen-backend/internal/models"
	"github.com/Raghu0511/canteen-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// AuthMiddleware validates staff bearer tokens and stores their claims in
// the request locals.
type AuthMiddleware struct {
	secret string
	log    *slog.Logger
}

func NewAuthMiddleware(secret string, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{secret: secret, log: log}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := utils.ParseStaffToken(m.secret, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		m.log.Debug("token rejected", slog.String("path", c.Path()), slog.Any("error", err))
		return utils.Unauthorized(c, "invalid token")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// Claims returns the staff claims stored by Handler.
func Claims(c *fiber.Ctx) (*models.StaffClaims, bool) {
	claims, ok := c.Locals(claimsKey).(*models.StaffClaims)
	return claims, ok && claims != nil
}

// RequireRole admits any of the given roles. Managers are always admitted.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := Claims(c)
		if !ok {
			return utils.Unauthorized(c, "unauthorized")
		}
		if claims.Role == models.RoleManager {
			return c.Next()
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return utils.Forbidden(c, "insufficient permissions")
	}
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := Claims(c)
		if !ok {
			return utils.Unauthorized(c, "unauthorized")
		}
		if claims.HasPermission(permission) {
			return c.Next()
		}
		return utils.Forbidden(c, "insufficient permissions")
	}
}
