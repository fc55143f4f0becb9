package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/mz310/FitProof/internal/core/domain"
)

// RBAC admits only actors whose role is one of roles. It must run after Auth.
func RBAC(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return domain.Unauthorized("authentication required")
			}
			if !domain.CanPerform(actor.Role, roles...) {
				return domain.Forbidden("insufficient role")
			}
			return next(c)
		}
	}
}
