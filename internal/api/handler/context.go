package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/mz310/FitProof/internal/api/middleware"
	"github.com/mz310/FitProof/internal/core/domain"
)

// actorFrom returns the caller set by the Auth middleware. Its absence means
// the route was registered without Auth.
func actorFrom(c echo.Context) (domain.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return domain.Actor{}, domain.Unauthorized("missing authentication claims")
	}
	return actor, nil
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid request body")
	}
	return c.Validate(req)
}
