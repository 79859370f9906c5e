package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/pagos-go-api/internal/utils"
)

// Context keys populated from verified token claims. These are the
// actor bundle attributed to mutations in the audit trail.
const (
	LocalUserID   = "user_id"
	LocalUserName = "user_name"
	LocalRoleID   = "role_id"
	LocalCourseID = "course_id"
	LocalSchoolID = "school_id"
)

// JWTProtected returns a middleware that validates JWT bearer tokens
// and exposes the actor identity claims to downstream handlers.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		if userID := claimUint(claims, "sub", "user_id", "id"); userID != nil {
			c.Locals(LocalUserID, *userID)
		}
		if name := claimString(claims, "name", "user_name"); name != "" {
			c.Locals(LocalUserName, name)
		}
		if roleID := claimUint(claims, "role_id", "role"); roleID != nil {
			c.Locals(LocalRoleID, *roleID)
		}
		if courseID := claimUint(claims, "course_id"); courseID != nil {
			c.Locals(LocalCourseID, *courseID)
		}
		if schoolID := claimUint(claims, "school_id"); schoolID != nil {
			c.Locals(LocalSchoolID, *schoolID)
		}

		return c.Next()
	}
}

func claimUint(claims jwt.MapClaims, keys ...string) *uint {
	for _, key := range keys {
		value, ok := claims[key]
		if !ok {
			continue
		}
		if normalized, err := normalizeUint(value); err == nil {
			return &normalized
		}
	}

	return nil
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if str, ok := value.(string); ok {
				trimmed := strings.TrimSpace(str)
				if trimmed != "" {
					return trimmed
				}
			}
		}
	}

	return ""
}

func normalizeUint(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("negative claim value")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("negative claim value")
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported claim type")
	}
}
