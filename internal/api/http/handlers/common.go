package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

type validatable interface {
	Validate() error
}

// bind parses the JSON body into req and runs its validation.
func bind(c *fiber.Ctx, req validatable) error {
	if err := c.BodyParser(req); err != nil {
		return invalidPayload()
	}
	return req.Validate()
}

func invalidPayload() error {
	return apperrors.NewValidationError("invalid payload", nil)
}

func caller(c *fiber.Ctx) (domain.Identity, error) {
	return auth.RequireIdentity(c)
}

// callerID is empty on unauthenticated routes.
func callerID(c *fiber.Ctx) string {
	identity, _ := auth.IdentityFromContext(c)
	return identity.SubjectID
}

// paging reads ?limit=&offset=; bad values fall back to the repository defaults.
func paging(c *fiber.Ctx) (int, int) {
	return parseIntQuery(c, "limit", 0), parseIntQuery(c, "offset", 0)
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultVal
}
