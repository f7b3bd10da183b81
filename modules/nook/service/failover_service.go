package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/RahulGiri5677/nookly-sub000/core/logger"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/repository"
)

// NotificationIntent is what the orchestrator emits toward the notification
// collaborator. Delivery is entirely external.
type NotificationIntent struct {
	UserID   uuid.UUID
	Title    string
	Message  string
	Category string
	NookID   uuid.UUID
}

// NotificationSink receives notification intents. Implemented by the
// notification module; tests assert against a recording fake.
type NotificationSink interface {
	Notify(ctx context.Context, intent NotificationIntent) error
}

// FailoverOutcome describes what the orchestrator did.
type FailoverOutcome struct {
	NewHostID *uuid.UUID
	Cancelled bool
}

// FailoverService reassigns hosting when the active host cancels or
// no-shows, or cancels the nook when nobody eligible remains.
type FailoverService struct {
	nookRepo   repository.NookRepositoryInterface
	memberRepo repository.MembershipRepositoryInterface
	notifier   NotificationSink
	now        func() time.Time
}

func NewFailoverService(
	nookRepo repository.NookRepositoryInterface,
	memberRepo repository.MembershipRepositoryInterface,
	notifier NotificationSink,
) *FailoverService {
	return &FailoverService{
		nookRepo:   nookRepo,
		memberRepo: memberRepo,
		notifier:   notifier,
		now:        time.Now,
	}
}

// HandleHostDeparture selects the earliest-joined eligible member as the new
// host, or cancels the nook when none remains. Notification failures are
// logged and swallowed; participants learning the outcome is best-effort,
// the state change itself is not.
func (s *FailoverService) HandleHostDeparture(ctx context.Context, nook *entity.Nook, departingHostID uuid.UUID) (*FailoverOutcome, error) {
	members, err := s.memberRepo.ListApprovedByNookID(ctx, nook.ID)
	if err != nil {
		return nil, err
	}

	eligible := make([]entity.Membership, 0, len(members))
	remaining := make([]entity.Membership, 0, len(members))
	for _, m := range members {
		if m.UserID == departingHostID {
			continue
		}
		remaining = append(remaining, m)
		if !m.CommitmentStatus.Terminal() {
			eligible = append(eligible, m)
		}
	}

	if len(eligible) == 0 {
		if err := s.nookRepo.CancelNook(ctx, nook.ID, departingHostID, s.now()); err != nil {
			return nil, err
		}
		logger.Info("FailoverService:Cancelled", "nook_id", nook.ID, "departing_host", departingHostID)

		for _, m := range remaining {
			s.notify(ctx, NotificationIntent{
				UserID:   m.UserID,
				Title:    "Nook cancelled",
				Message:  fmt.Sprintf("%q won't be happening: the host had to cancel and no one could take over.", nook.Title),
				Category: "nook_cancelled",
				NookID:   nook.ID,
			})
		}
		return &FailoverOutcome{Cancelled: true}, nil
	}

	newHost := eligible[0]
	if err := s.nookRepo.ReassignHost(ctx, nook.ID, newHost.UserID); err != nil {
		return nil, err
	}
	logger.Info("FailoverService:Reassigned",
		"nook_id", nook.ID,
		"departing_host", departingHostID,
		"new_host", newHost.UserID,
	)

	for _, m := range remaining {
		if m.UserID == newHost.UserID {
			s.notify(ctx, NotificationIntent{
				UserID:   m.UserID,
				Title:    "You're the host now",
				Message:  fmt.Sprintf("The host of %q stepped down and you joined earliest, so hosting passed to you.", nook.Title),
				Category: "host_reassigned",
				NookID:   nook.ID,
			})
			continue
		}
		s.notify(ctx, NotificationIntent{
			UserID:   m.UserID,
			Title:    "New host",
			Message:  fmt.Sprintf("%q has a new host. The nook is still on.", nook.Title),
			Category: "host_reassigned",
			NookID:   nook.ID,
		})
	}

	hostID := newHost.UserID
	return &FailoverOutcome{NewHostID: &hostID}, nil
}

func (s *FailoverService) notify(ctx context.Context, intent NotificationIntent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, intent); err != nil {
		logger.Error("FailoverService:Notify", "nook_id", intent.NookID, "user_id", intent.UserID, "error", err)
	}
}
