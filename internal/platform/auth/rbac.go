package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentalportal/portal/internal/platform/store"
)

const RoleAdmin = "admin"

// RoleLookup resolves the stored role of a user by email.
type RoleLookup interface {
	RoleOf(ctx context.Context, email string) (string, error)
}

// RequireAdmin must be chained after VerifyToken. It looks the decoded email
// up and answers 403 unless the stored role is admin.
func RequireAdmin(users RoleLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := EmailFromContext(c.Request().Context())
			if email == "" {
				return echo.NewHTTPError(http.StatusForbidden, msgForbidden)
			}

			role, err := users.RoleOf(c.Request().Context(), email)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve role")
			}
			if role != RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, msgForbidden)
			}
			return next(c)
		}
	}
}
