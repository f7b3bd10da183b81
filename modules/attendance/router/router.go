package router

import (
	"github.com/labstack/echo/v4"

	"github.com/RahulGiri5677/nookly-sub000/core/middleware"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/controller"
)

// AttendanceRouter handles attendance routes
type AttendanceRouter struct {
	AttendanceController *controller.AttendanceController
}

func NewAttendanceRouter(attendanceController *controller.AttendanceController) *AttendanceRouter {
	return &AttendanceRouter{AttendanceController: attendanceController}
}

// Setup registers attendance routes
func (r *AttendanceRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	attendanceRoutes := privateRoutes.Group("/attendance", mw.AuthMiddleware())

	attendanceRoutes.POST("/token", r.AttendanceController.IssueToken)
	attendanceRoutes.POST("/verify", r.AttendanceController.Verify)
	attendanceRoutes.GET("/nooks/:id/me", r.AttendanceController.GetMyAttendance)
}
