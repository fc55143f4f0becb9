package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mz310/FitProof/internal/core/domain"
	"github.com/mz310/FitProof/internal/core/ports"
)

// ActorKey is the echo.Context key holding the authenticated domain.Actor.
const ActorKey = "actor"

// Auth verifies the bearer token and stores the caller as a domain.Actor.
func Auth(tokens ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return domain.Unauthorized("missing authorization header")
			}

			scheme, raw, ok := strings.Cut(header, " ")
			raw = strings.TrimSpace(raw)
			if !ok || !strings.EqualFold(scheme, "bearer") || raw == "" {
				return domain.Unauthorized("invalid authorization header")
			}

			actor, err := tokens.Verify(raw)
			if err != nil {
				return err
			}

			c.Set(ActorKey, *actor)
			return next(c)
		}
	}
}

// ActorFrom returns the actor stored by Auth.
func ActorFrom(c echo.Context) (domain.Actor, bool) {
	actor, ok := c.Get(ActorKey).(domain.Actor)
	return actor, ok && actor.UserID != ""
}
