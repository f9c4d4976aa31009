package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boxwise/inventory/internal/api/middleware"
	"github.com/boxwise/inventory/internal/core/domain"
)

// ctxActor extracts the actor injected by the Auth middleware. Its absence
// means the route was mounted without Auth, so the request is rejected.
func ctxActor(c echo.Context) (domain.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}

// bind decodes the request into req and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
