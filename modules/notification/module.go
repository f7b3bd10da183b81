package notification

import (
	"github.com/labstack/echo/v4"

	"github.com/RahulGiri5677/nookly-sub000/core/database"
	"github.com/RahulGiri5677/nookly-sub000/core/middleware"
	"github.com/RahulGiri5677/nookly-sub000/core/queue"
	"github.com/RahulGiri5677/nookly-sub000/modules/notification/controller"
	"github.com/RahulGiri5677/nookly-sub000/modules/notification/repository"
	"github.com/RahulGiri5677/nookly-sub000/modules/notification/router"
	"github.com/RahulGiri5677/nookly-sub000/modules/notification/service"
)

// Init initializes the notification module and returns the service for use
// by other modules.
func Init(e *echo.Group, db database.Database, mw *middleware.Middleware, q queue.Client, worker *queue.Worker) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo, q)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	if worker != nil {
		worker.Handle(queue.TaskNotificationDeliver, svc.HandleDeliverTask)
	}

	return svc
}
