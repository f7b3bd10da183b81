package attendance

import (
	"github.com/labstack/echo/v4"

	"github.com/RahulGiri5677/nookly-sub000/core/cache"
	"github.com/RahulGiri5677/nookly-sub000/core/config"
	"github.com/RahulGiri5677/nookly-sub000/core/database"
	"github.com/RahulGiri5677/nookly-sub000/core/middleware"
	"github.com/RahulGiri5677/nookly-sub000/core/queue"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/controller"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/repository"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/router"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/service"
	nookRepository "github.com/RahulGiri5677/nookly-sub000/modules/nook/repository"
)

// Init initializes the attendance module: token issuing, scan verification,
// and the post-nook finalization worker.
func Init(e *echo.Echo, db database.Database, c cache.Cache, mw *middleware.Middleware, worker *queue.Worker) {
	cfg := config.Get()

	attendanceRepo := repository.NewAttendanceRepository(db)
	nookRepo := nookRepository.NewNookRepository(db)
	memberRepo := nookRepository.NewMembershipRepository(db)

	tokenSvc := service.NewTokenService(cfg.Attendance.SigningSecret, nookRepo)
	verifySvc := service.NewVerifyService(tokenSvc, nookRepo, memberRepo, attendanceRepo, c)

	ctrl := controller.NewAttendanceController(tokenSvc, verifySvc)
	router.NewAttendanceRouter(ctrl).Setup(e, mw)

	if worker != nil {
		finalizer := service.NewFinalizer(nookRepo, memberRepo, attendanceRepo)
		worker.Handle(queue.TaskAttendanceFinalize, finalizer.HandleFinalizeTask)
	}
}
