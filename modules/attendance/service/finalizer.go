package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RahulGiri5677/nookly-sub000/core/constants"
	"github.com/RahulGiri5677/nookly-sub000/core/logger"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/repository"
	nookEntity "github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
	nookRepository "github.com/RahulGiri5677/nookly-sub000/modules/nook/repository"

	"github.com/google/uuid"
)

// FinalizePayload is the body of the scheduled finalize task, enqueued when
// a nook is created or rescheduled.
type FinalizePayload struct {
	NookID uuid.UUID `json:"nook_id"`
}

// Finalizer settles attendance once a nook's exit window has closed:
// everyone who committed but never scanned in becomes a no-show.
type Finalizer struct {
	nookRepo       nookRepository.NookRepositoryInterface
	memberRepo     nookRepository.MembershipRepositoryInterface
	attendanceRepo repository.AttendanceRepositoryInterface
	now            func() time.Time
}

func NewFinalizer(
	nookRepo nookRepository.NookRepositoryInterface,
	memberRepo nookRepository.MembershipRepositoryInterface,
	attendanceRepo repository.AttendanceRepositoryInterface,
) *Finalizer {
	return &Finalizer{
		nookRepo:       nookRepo,
		memberRepo:     memberRepo,
		attendanceRepo: attendanceRepo,
		now:            time.Now,
	}
}

// HandleFinalizeTask is the asynq handler for attendance finalization.
// Returning an error makes asynq retry, so only transient failures do.
func (f *Finalizer) HandleFinalizeTask(ctx context.Context, payload []byte) error {
	var p FinalizePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		logger.Error("finalize task has an unreadable payload", err)
		return nil
	}

	nook, err := f.nookRepo.GetNookByID(ctx, p.NookID)
	if err != nil {
		return fmt.Errorf("load nook %s: %w", p.NookID, err)
	}
	if nook == nil || nook.Status == nookEntity.NookStatusCancelled {
		logger.Info("skipping attendance finalization", "nook_id", p.NookID)
		return nil
	}

	// A reschedule leaves the old task behind; it fires early and is a
	// no-op here because the new schedule enqueued its own task.
	closesAt := nook.EndTime().Add(constants.AnchorVisibleAfterEnd)
	if f.now().Before(closesAt) {
		logger.Info("finalize task fired before the exit window closed, skipping", "nook_id", p.NookID, "closes_at", closesAt)
		return nil
	}

	entered, err := f.attendanceRepo.ListEnteredUserIDs(ctx, p.NookID)
	if err != nil {
		return fmt.Errorf("list entered users for %s: %w", p.NookID, err)
	}

	marked, err := f.memberRepo.MarkNoShows(ctx, p.NookID, entered)
	if err != nil {
		return fmt.Errorf("mark membership no-shows for %s: %w", p.NookID, err)
	}

	records, err := f.attendanceRepo.CreateNoShowRecords(ctx, p.NookID)
	if err != nil {
		return fmt.Errorf("create no-show records for %s: %w", p.NookID, err)
	}

	logger.Info("attendance finalized", "nook_id", p.NookID, "entered", len(entered), "no_shows", marked, "records", records)
	return nil
}
