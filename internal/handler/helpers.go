package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pagos-go-api/internal/dto"
	"github.com/noah-isme/pagos-go-api/internal/middleware"
	"github.com/noah-isme/pagos-go-api/internal/service"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func parseQueryUint(c *fiber.Ctx, key string) (*uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, err
	}
	result := uint(parsed)
	return &result, nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func localUint(c *fiber.Ctx, key string) uint {
	if v := c.Locals(key); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func localString(c *fiber.Ctx, key string) string {
	if v := c.Locals(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func formUint(c *fiber.Ctx, key string) uint {
	value := strings.TrimSpace(c.FormValue(key))
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

// actorFromForm reads the caller-supplied fallback actor from multipart
// form fields. A verified token identity still wins over these.
func actorFromForm(c *fiber.Ctx) dto.ActorPayload {
	return dto.ActorPayload{
		UserID:   formUint(c, "actor_user_id"),
		UserName: strings.TrimSpace(c.FormValue("actor_user_name")),
		RoleID:   formUint(c, "actor_role_id"),
		CourseID: formUint(c, "actor_course_id"),
		SchoolID: formUint(c, "actor_school_id"),
	}
}

// tokenActorFromContext builds the verified actor bundle from the claims
// placed in locals by the JWT middleware. A zero UserID means no
// verified identity is present and caller-supplied fields may be used.
func tokenActorFromContext(c *fiber.Ctx) service.Actor {
	return service.Actor{
		UserID:   localUint(c, middleware.LocalUserID),
		UserName: localString(c, middleware.LocalUserName),
		RoleID:   localUint(c, middleware.LocalRoleID),
		CourseID: localUint(c, middleware.LocalCourseID),
		SchoolID: localUint(c, middleware.LocalSchoolID),
	}
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}
