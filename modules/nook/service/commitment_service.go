package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/RahulGiri5677/nookly-sub000/core/cache"
	"github.com/RahulGiri5677/nookly-sub000/core/errors"
	"github.com/RahulGiri5677/nookly-sub000/core/logger"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/dto"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/repository"
)

// CommitmentService applies participant commitment transitions, gated by the
// commitment phase the clock currently falls into. Host departures are
// handed to the failover orchestrator as a distinct second step after the
// status write.
type CommitmentService struct {
	nookRepo   repository.NookRepositoryInterface
	memberRepo repository.MembershipRepositoryInterface
	calculator *PhaseCalculator
	failover   *FailoverService
	cache      cache.Cache
	now        func() time.Time
}

func NewCommitmentService(
	nookRepo repository.NookRepositoryInterface,
	memberRepo repository.MembershipRepositoryInterface,
	calculator *PhaseCalculator,
	failover *FailoverService,
	c cache.Cache,
) *CommitmentService {
	return &CommitmentService{
		nookRepo:   nookRepo,
		memberRepo: memberRepo,
		calculator: calculator,
		failover:   failover,
		cache:      c,
		now:        time.Now,
	}
}

// UpdateCommitment validates and persists a commitment transition for the
// caller. The write is reported honestly: a persistence failure surfaces to
// the caller rather than being absorbed.
func (s *CommitmentService) UpdateCommitment(ctx context.Context, nookID, userID uuid.UUID, target entity.CommitmentStatus) (*dto.CommitmentResponse, *errors.AppError) {
	nook, err := s.nookRepo.GetNookByID(ctx, nookID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load nook", err)
	}
	if nook == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "This nook is no longer available", nil)
	}
	if nook.Status == entity.NookStatusCancelled {
		return nil, errors.NewAppError(errors.ErrNookCancelled, "This nook has been cancelled", nil)
	}

	member, err := s.memberRepo.GetMembership(ctx, nookID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load membership", err)
	}
	if member == nil || member.ApprovalStatus != entity.ApprovalStatusApproved {
		return nil, errors.NewAppError(errors.ErrNotApprovedMember, "You are not an approved member of this nook", nil)
	}

	now := s.now()
	phase := s.calculator.CommitmentPhase(nook.StartTime, nook.DurationMinutes, now)

	if appErr := validateTransition(phase, member.CommitmentStatus, target); appErr != nil {
		return nil, appErr
	}

	if err := s.memberRepo.UpdateCommitmentStatus(ctx, nookID, userID, target); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update your status, please try again", err)
	}

	s.invalidateReadiness(ctx, nookID)

	// The status write above is committed regardless of what happens from
	// here on; failover is best-effort and must not undo or mask it.
	if userID == nook.HostID && target.Terminal() {
		if _, err := s.failover.HandleHostDeparture(ctx, nook, userID); err != nil {
			logger.Error("CommitmentService:UpdateCommitment:Failover", "nook_id", nookID, "error", err)
		}
	}

	return &dto.CommitmentResponse{
		NookID:          nookID.String(),
		UserID:          userID.String(),
		Status:          string(target),
		CommitmentPhase: string(phase),
	}, nil
}

func (s *CommitmentService) invalidateReadiness(ctx context.Context, nookID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateReadiness(ctx, cache.ReadinessKey(nookID.String())); err != nil {
		logger.Warn("CommitmentService:InvalidateReadiness", "nook_id", nookID, "error", err)
	}
}

// validateTransition is the commitment state machine's transition table.
func validateTransition(phase entity.CommitmentPhase, from, to entity.CommitmentStatus) *errors.AppError {
	if from == entity.CommitmentNoShow {
		return errors.NewAppError(errors.ErrInvalidTransition, "You were marked as a no-show for this nook", nil)
	}

	switch phase {
	case entity.CommitmentPhaseTooEarly:
		return errors.NewAppError(errors.ErrCommitmentPhaseClosed, "It's too early to set your status for this nook", nil)

	case entity.CommitmentPhaseIntention:
		switch to {
		case entity.CommitmentConfirmed:
			if from == entity.CommitmentUnset || from == entity.CommitmentCancelled {
				return nil
			}
		case entity.CommitmentUnsure:
			if from == entity.CommitmentUnset {
				return nil
			}
		case entity.CommitmentCancelled:
			if from == entity.CommitmentUnset || from == entity.CommitmentUnsure {
				return nil
			}
		}
		return errors.NewAppError(errors.ErrInvalidTransition, "That status change isn't available right now", nil)

	case entity.CommitmentPhaseStatusUpdate:
		if from == entity.CommitmentCancelled {
			return errors.NewAppError(errors.ErrInvalidTransition, "You've cancelled for this nook", nil)
		}
		switch to {
		case entity.CommitmentOnTheWay, entity.CommitmentRunningLate, entity.CommitmentCancelled:
			return nil
		}
		return errors.NewAppError(errors.ErrInvalidTransition, "That status change isn't available right now", nil)

	case entity.CommitmentPhaseArrival:
		return errors.NewAppError(errors.ErrCommitmentPhaseClosed, "Status updates are closed, check in at the venue instead", nil)

	default: // ended
		return errors.NewAppError(errors.ErrCommitmentPhaseClosed, "This nook has ended", nil)
	}
}
