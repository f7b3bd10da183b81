package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	coreEntity "github.com/RahulGiri5677/nookly-sub000/core/entity"
	"github.com/RahulGiri5677/nookly-sub000/core/logger"
	"github.com/RahulGiri5677/nookly-sub000/core/params"
	"github.com/RahulGiri5677/nookly-sub000/core/queue"
	"github.com/RahulGiri5677/nookly-sub000/modules/notification/dto"
	"github.com/RahulGiri5677/nookly-sub000/modules/notification/entity"
	"github.com/RahulGiri5677/nookly-sub000/modules/notification/repository"
)

type NotificationService struct {
	repo  repository.NotificationRepositoryInterface
	queue queue.Client
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, q queue.Client) *NotificationService {
	return &NotificationService{repo: repo, queue: q}
}

// Create stores the notification intent, then hands delivery off to the
// background worker. The hand-off is best-effort; the stored row is the
// durable part.
func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	notif := &entity.Notification{
		UserID:   req.UserID,
		Title:    req.Title,
		Message:  req.Message,
		Category: req.Category,
		NookID:   req.NookID,
		Data:     entity.JSONB(req.Data),
		IsRead:   false,
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	if err := s.repo.Create(ctx, notif); err != nil {
		return err
	}

	if s.queue != nil {
		payload, _ := json.Marshal(map[string]string{
			"notification_id": notif.ID.String(),
			"user_id":         notif.UserID.String(),
		})
		if err := s.queue.Enqueue(ctx, queue.TaskNotificationDeliver, payload); err != nil {
			logger.Error("NotificationService:Create:Enqueue:Error:", err)
		}
	}

	return nil
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return s.repo.MarkAsRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// HandleDeliverTask is the asynq handler for queued deliveries. Transport is
// an external collaborator; the hand-off point only logs what would be sent.
func (s *NotificationService) HandleDeliverTask(ctx context.Context, payload []byte) error {
	var p struct {
		NotificationID string `json:"notification_id"`
		UserID         string `json:"user_id"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	logger.Info("NotificationService:Deliver", "notification_id", p.NotificationID, "user_id", p.UserID)
	return nil
}
