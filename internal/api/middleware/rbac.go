package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boxwise/inventory/internal/core/domain"
)

// RequirePermission lets the request through only when the actor's role
// grants every listed capability. Must run after Auth.
func RequirePermission(caps ...domain.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			for _, capability := range caps {
				if !actor.Can(capability) {
					return c.JSON(http.StatusForbidden, map[string]any{
						"success": false,
						"message": "your role does not allow this action",
					})
				}
			}
			return next(c)
		}
	}
}
