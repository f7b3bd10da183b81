package nook

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/RahulGiri5677/nookly-sub000/core/cache"
	"github.com/RahulGiri5677/nookly-sub000/core/database"
	"github.com/RahulGiri5677/nookly-sub000/core/middleware"
	"github.com/RahulGiri5677/nookly-sub000/core/queue"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/controller"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/repository"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/router"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/service"
	notifDto "github.com/RahulGiri5677/nookly-sub000/modules/notification/dto"
	notifService "github.com/RahulGiri5677/nookly-sub000/modules/notification/service"
)

// notificationSink adapts the notification module's service to the sink
// interface the nook services emit intents through.
type notificationSink struct {
	svc *notifService.NotificationService
}

func (s *notificationSink) Notify(ctx context.Context, intent service.NotificationIntent) error {
	nookID := intent.NookID
	return s.svc.Create(ctx, &notifDto.CreateNotificationRequest{
		UserID:   intent.UserID,
		Title:    intent.Title,
		Message:  intent.Message,
		Category: intent.Category,
		NookID:   &nookID,
	})
}

// Init initializes the nook module: lifecycle, commitments, readiness, and
// host failover.
func Init(e *echo.Echo, db database.Database, c cache.Cache, mw *middleware.Middleware, q queue.Client, notifSvc *notifService.NotificationService) {
	nookRepo := repository.NewNookRepository(db)
	memberRepo := repository.NewMembershipRepository(db)

	sink := &notificationSink{svc: notifSvc}
	calculator := service.NewPhaseCalculator()

	failoverSvc := service.NewFailoverService(nookRepo, memberRepo, sink)
	commitmentSvc := service.NewCommitmentService(nookRepo, memberRepo, calculator, failoverSvc, c)
	readinessSvc := service.NewReadinessService(nookRepo, memberRepo, calculator, c)
	nookSvc := service.NewNookService(nookRepo, memberRepo, calculator, sink, q)

	ctrl := controller.NewNookController(nookSvc, commitmentSvc, readinessSvc)
	router.NewNookRouter(ctrl).Setup(e, mw)
}
