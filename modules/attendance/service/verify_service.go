package service

import (
	"context"
	"time"

	"github.com/RahulGiri5677/nookly-sub000/core/cache"
	"github.com/RahulGiri5677/nookly-sub000/core/constants"
	"github.com/RahulGiri5677/nookly-sub000/core/errors"
	"github.com/RahulGiri5677/nookly-sub000/core/logger"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/entity"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/repository"
	nookEntity "github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
	nookRepository "github.com/RahulGiri5677/nookly-sub000/modules/nook/repository"

	"github.com/google/uuid"
)

// VerifyResult is what a successful scan yields.
type VerifyResult struct {
	Phase   entity.ScanPhase
	Message string
}

// VerifyService checks scanned tokens and records attendance. Every
// rejection carries its own error code; the write itself is a conditional
// statement so a double scan can never double-mark.
type VerifyService struct {
	tokens         *TokenService
	nookRepo       nookRepository.NookRepositoryInterface
	memberRepo     nookRepository.MembershipRepositoryInterface
	attendanceRepo repository.AttendanceRepositoryInterface
	cache          cache.Cache
	now            func() time.Time
}

func NewVerifyService(
	tokens *TokenService,
	nookRepo nookRepository.NookRepositoryInterface,
	memberRepo nookRepository.MembershipRepositoryInterface,
	attendanceRepo repository.AttendanceRepositoryInterface,
	c cache.Cache,
) *VerifyService {
	return &VerifyService{
		tokens:         tokens,
		nookRepo:       nookRepo,
		memberRepo:     memberRepo,
		attendanceRepo: attendanceRepo,
		cache:          c,
		now:            time.Now,
	}
}

// Verify runs the full check sequence for a scanned token. The order
// matters: cheap structural checks first, then the signature, then state
// that needs the database.
func (s *VerifyService) Verify(ctx context.Context, userID uuid.UUID, token *entity.AttendanceToken) (*VerifyResult, *errors.AppError) {
	// 1. Structure.
	if token == nil || token.NookID == uuid.Nil || token.Signature == "" || token.IssuedAt == 0 || token.ExpiresAt == 0 {
		return nil, errors.NewAppError(errors.ErrTokenMalformed, "That code couldn't be read, ask the host to refresh it", nil)
	}
	if !token.Phase.Valid() {
		return nil, errors.NewAppError(errors.ErrTokenMalformed, "That code couldn't be read, ask the host to refresh it", nil)
	}

	// 2. Throttle before the signature check so guessing is rate-limited.
	if appErr := s.throttle(ctx, token.NookID, userID); appErr != nil {
		return nil, appErr
	}

	// 3. Signature, constant time.
	if !s.tokens.VerifySignature(token) {
		return nil, errors.NewAppError(errors.ErrSignatureMismatch, "That code isn't valid for this nook", nil)
	}

	// 4. Freshness. Codes rotate, a stale screenshot is rejected here. The
	// deadline comes from the signed issue time, not the client-supplied
	// expires_at, which the signature does not cover.
	now := s.now()
	if now.Unix() > token.IssuedAt+int64(constants.TokenTTL.Seconds()) {
		return nil, errors.NewAppError(errors.ErrTokenExpired, "That code has expired, scan the current one", nil)
	}

	// 5. The nook must still exist and still be happening.
	nook, err := s.nookRepo.GetNookByID(ctx, token.NookID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load nook", err)
	}
	if nook == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "This nook is no longer available", nil)
	}
	if nook.Status == nookEntity.NookStatusCancelled {
		return nil, errors.NewAppError(errors.ErrNookCancelled, "This nook has been cancelled", nil)
	}

	// 6. The phase window is re-checked at scan time against the stored
	// schedule. A token issued at the edge of the window can outlive it.
	if !InScanWindow(nook, token.Phase, now) {
		return nil, errors.NewAppError(errors.ErrOutsideScanWindow, "The scan window for this code has closed", nil)
	}

	// 7. Only approved members can check in.
	membership, err := s.memberRepo.GetMembership(ctx, token.NookID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load membership", err)
	}
	if membership == nil || membership.ApprovalStatus != nookEntity.ApprovalStatusApproved {
		return nil, errors.NewAppError(errors.ErrNotApprovedMember, "You're not an approved member of this nook", nil)
	}

	// 8. Record the transition.
	switch token.Phase {
	case entity.ScanPhaseEntry:
		if appErr := s.markEntry(ctx, token.NookID, userID, now); appErr != nil {
			return nil, appErr
		}
		return &VerifyResult{Phase: token.Phase, Message: "You're checked in, enjoy the nook"}, nil
	default:
		if appErr := s.markExit(ctx, token.NookID, userID, now); appErr != nil {
			return nil, appErr
		}
		return &VerifyResult{Phase: token.Phase, Message: "Checked out, thanks for coming"}, nil
	}
}

// throttle counts attempts per (nook, participant) and blocks once the cap
// is hit. Counting failures open the gate rather than close it.
func (s *VerifyService) throttle(ctx context.Context, nookID, userID uuid.UUID) *errors.AppError {
	key := cache.ScanAttemptsKey(nookID.String(), userID.String())
	attempts, err := s.cache.IncrementScanAttempts(ctx, key)
	if err != nil {
		logger.Warn("scan attempt counter unavailable", "nook_id", nookID, err)
		return nil
	}
	if attempts == 1 {
		if err := s.cache.Expire(ctx, key, constants.BlockDuration); err != nil {
			logger.Warn("failed to set scan attempt expiry", "nook_id", nookID, err)
		}
	}
	if attempts > constants.VerifyMaxAttempts {
		return errors.NewAppError(errors.ErrTooManyScanAttempts, "Too many attempts, try again in a few minutes", nil)
	}
	return nil
}

func (s *VerifyService) markEntry(ctx context.Context, nookID, userID uuid.UUID, at time.Time) *errors.AppError {
	marked, err := s.attendanceRepo.MarkEntry(ctx, nookID, userID, at)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to record check-in", err)
	}
	if !marked {
		return errors.NewAppError(errors.ErrAlreadyMarked, "You're already checked in", nil)
	}

	// Checking in implies arrival. Done best-effort: the attendance record
	// is the source of truth, the commitment status just mirrors it.
	if err := s.memberRepo.UpdateCommitmentStatus(ctx, nookID, userID, nookEntity.CommitmentArrived); err != nil {
		logger.Warn("failed to bump commitment to arrived after check-in", "nook_id", nookID, "user_id", userID, err)
	}
	if err := s.cache.InvalidateReadiness(ctx, cache.ReadinessKey(nookID.String())); err != nil {
		logger.Warn("failed to invalidate readiness cache after check-in", "nook_id", nookID, err)
	}
	return nil
}

func (s *VerifyService) markExit(ctx context.Context, nookID, userID uuid.UUID, at time.Time) *errors.AppError {
	// Distinguish "never entered" from "already left" before the guarded
	// update, which rejects both the same way.
	existing, err := s.attendanceRepo.GetByNookAndUser(ctx, nookID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load attendance", err)
	}
	if existing == nil || !existing.EntryMarked {
		return errors.NewAppError(errors.ErrExitBeforeEntry, "Check in before checking out", nil)
	}
	if existing.ExitMarked {
		return errors.NewAppError(errors.ErrAlreadyMarked, "You're already checked out", nil)
	}

	marked, err := s.attendanceRepo.MarkExit(ctx, nookID, userID, at)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to record check-out", err)
	}
	if !marked {
		return errors.NewAppError(errors.ErrAlreadyMarked, "You're already checked out", nil)
	}
	return nil
}

// GetMyAttendance returns the caller's record for a nook, nil when they
// never scanned.
func (s *VerifyService) GetMyAttendance(ctx context.Context, nookID, userID uuid.UUID) (*entity.Attendance, *errors.AppError) {
	record, err := s.attendanceRepo.GetByNookAndUser(ctx, nookID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load attendance", err)
	}
	return record, nil
}
