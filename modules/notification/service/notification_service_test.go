package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RahulGiri5677/nookly-sub000/core/params"
	"github.com/RahulGiri5677/nookly-sub000/modules/notification/dto"
	"github.com/RahulGiri5677/nookly-sub000/modules/notification/entity"
)

type fakeNotificationRepo struct {
	created   []*entity.Notification
	createErr error
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotificationRepo) GetByUserID(_ context.Context, userID uuid.UUID, _ params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	var items []entity.Notification
	for _, n := range r.created {
		if n.UserID == userID {
			items = append(items, *n)
		}
	}
	return &entity.PaginatedNotificationEntity{Items: items, TotalItems: len(items)}, nil
}

func (r *fakeNotificationRepo) MarkAsRead(context.Context, uuid.UUID, []string) error { return nil }
func (r *fakeNotificationRepo) MarkAllAsRead(context.Context, uuid.UUID) error        { return nil }
func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range r.created {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type fakeQueue struct {
	enqueued   [][]byte
	enqueueErr error
}

func (q *fakeQueue) Enqueue(_ context.Context, _ string, payload []byte) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.enqueued = append(q.enqueued, payload)
	return nil
}

func (q *fakeQueue) EnqueueAt(ctx context.Context, taskType string, payload []byte, _ time.Time) error {
	return q.Enqueue(ctx, taskType, payload)
}

func (q *fakeQueue) Close() error { return nil }

func TestCreate_StoresAndEnqueues(t *testing.T) {
	repo := &fakeNotificationRepo{}
	q := &fakeQueue{}
	svc := NewNotificationService(repo, q)

	userID := uuid.New()
	nookID := uuid.New()
	err := svc.Create(context.Background(), &dto.CreateNotificationRequest{
		UserID:   userID,
		Title:    "You're in",
		Message:  "Your request was approved.",
		Category: "join_approved",
		NookID:   &nookID,
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, "join_approved", stored.Category)
	assert.False(t, stored.IsRead)

	require.Len(t, q.enqueued, 1)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(q.enqueued[0], &payload))
	assert.Equal(t, stored.ID.String(), payload["notification_id"])
	assert.Equal(t, userID.String(), payload["user_id"])
}

func TestCreate_EnqueueFailureDoesNotLoseTheRow(t *testing.T) {
	repo := &fakeNotificationRepo{}
	q := &fakeQueue{enqueueErr: errors.New("redis down")}
	svc := NewNotificationService(repo, q)

	err := svc.Create(context.Background(), &dto.CreateNotificationRequest{
		UserID:  uuid.New(),
		Title:   "New host",
		Message: "The nook has a new host.",
	})
	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
}

func TestCreate_StoreFailureSurfaces(t *testing.T) {
	repo := &fakeNotificationRepo{createErr: errors.New("insert failed")}
	q := &fakeQueue{}
	svc := NewNotificationService(repo, q)

	err := svc.Create(context.Background(), &dto.CreateNotificationRequest{UserID: uuid.New()})
	require.Error(t, err)
	assert.Empty(t, q.enqueued)
}

func TestHandleDeliverTask(t *testing.T) {
	svc := NewNotificationService(&fakeNotificationRepo{}, nil)

	payload, _ := json.Marshal(map[string]string{
		"notification_id": uuid.New().String(),
		"user_id":         uuid.New().String(),
	})
	assert.NoError(t, svc.HandleDeliverTask(context.Background(), payload))
	assert.Error(t, svc.HandleDeliverTask(context.Background(), []byte("not json")))
}
