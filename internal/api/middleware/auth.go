package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/boxwise/inventory/internal/core/domain"
)

// actorKey is the echo.Context key holding the authenticated domain.Actor.
const actorKey = "actor"

// Auth validates the JWT and injects the caller as a domain.Actor.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			}, jwt.WithExpirationRequired())
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			actor, ok := actorFromClaims(claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing identity claims")
			}
			c.Set(actorKey, actor)

			return next(c)
		}
	}
}

func actorFromClaims(claims jwt.MapClaims) (domain.Actor, bool) {
	sub, _ := claims["sub"].(string)
	groupID, _ := claims["group_id"].(string)
	email, _ := claims["email"].(string)
	rawRole, _ := claims["role"].(string)

	role, ok := domain.ParseRole(rawRole)
	if !ok || sub == "" || groupID == "" {
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: sub, GroupID: groupID, Email: email, Role: role}, true
}

// ActorFrom returns the actor stored by Auth.
func ActorFrom(c echo.Context) (domain.Actor, bool) {
	actor, ok := c.Get(actorKey).(domain.Actor)
	return actor, ok
}

// SetActor stores actor on the context. Handler tests use it to skip token
// handling.
func SetActor(c echo.Context, actor domain.Actor) {
	c.Set(actorKey, actor)
}
