package router

import (
	"github.com/labstack/echo/v4"

	"github.com/RahulGiri5677/nookly-sub000/core/middleware"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/controller"
)

// NookRouter handles nook routes
type NookRouter struct {
	NookController *controller.NookController
}

func NewNookRouter(nookController *controller.NookController) *NookRouter {
	return &NookRouter{NookController: nookController}
}

// Setup registers nook routes
func (r *NookRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	nookRoutes := privateRoutes.Group("/nooks", mw.AuthMiddleware())

	nookRoutes.POST("", r.NookController.CreateNook)
	nookRoutes.GET("", r.NookController.GetMyNooks)
	nookRoutes.GET("/:id", r.NookController.GetNook)
	nookRoutes.PUT("/:id", r.NookController.UpdateNook)
	nookRoutes.POST("/:id/cancel", r.NookController.CancelNook)

	nookRoutes.POST("/:id/join", r.NookController.JoinNook)
	nookRoutes.POST("/:id/members/:userId/approve", r.NookController.ApproveMember)
	nookRoutes.POST("/:id/members/:userId/decline", r.NookController.DeclineMember)

	nookRoutes.PUT("/:id/commitment", r.NookController.UpdateCommitment)
	nookRoutes.GET("/:id/readiness", r.NookController.GetReadiness)
}
