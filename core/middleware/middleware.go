package middleware

import (
	"github.com/RahulGiri5677/nookly-sub000/core/cache"
	"github.com/RahulGiri5677/nookly-sub000/core/constants"
	"github.com/RahulGiri5677/nookly-sub000/core/controller"
	"github.com/RahulGiri5677/nookly-sub000/core/errors"
	"github.com/RahulGiri5677/nookly-sub000/core/logger"
	"github.com/RahulGiri5677/nookly-sub000/core/utils"

	"github.com/labstack/echo/v4"
)

// Middleware bundles the cross-cutting request middlewares.
type Middleware struct {
	cache cache.Cache
}

func NewMiddleware(c cache.Cache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware resolves the caller's identity from a Bearer JWT and puts
// the claims into context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.GetTokenFromHeader(c)
			if err != nil {
				if ae, ok := err.(*errors.AppError); ok {
					return controller.NewErrorResponse(controller.HTTPStatusForCode(ae.Code), ae.Code, ae.Message)
				}
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Unauthorized")
			}

			if m.cache != nil {
				blacklisted, cacheErr := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if cacheErr != nil {
					// Cache outage must not lock everyone out.
					logger.Warn("AuthMiddleware:BlacklistCheckFailed", "error", cacheErr)
				} else if blacklisted {
					return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Token has been revoked")
				}
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				if ae, ok := err.(*errors.AppError); ok {
					return controller.NewErrorResponse(controller.HTTPStatusForCode(ae.Code), ae.Code, ae.Message)
				}
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Invalid token")
			}
			if claims.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Access token required")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
