package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const EmailKey contextKey = "decoded_email"

const (
	msgUnauthorized = "unauthorized access"
	msgForbidden    = "forbidden access"
)

// VerifyToken rejects requests without an Authorization header with 401 and
// requests whose bearer token does not verify with 403. On success the
// decoded email is placed on the request context.
func VerifyToken(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized)
			}

			scheme, raw, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || raw == "" {
				return echo.NewHTTPError(http.StatusForbidden, msgForbidden)
			}

			claims, err := v.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, msgForbidden)
			}

			ctx := context.WithValue(c.Request().Context(), EmailKey, claims.Email)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}
