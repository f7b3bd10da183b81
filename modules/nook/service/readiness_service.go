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

// ReadinessService rolls participant commitment states up into per-status
// counts. Only counts leave this service; individual identities never do.
type ReadinessService struct {
	nookRepo   repository.NookRepositoryInterface
	memberRepo repository.MembershipRepositoryInterface
	calculator *PhaseCalculator
	cache      cache.Cache
	now        func() time.Time
}

func NewReadinessService(
	nookRepo repository.NookRepositoryInterface,
	memberRepo repository.MembershipRepositoryInterface,
	calculator *PhaseCalculator,
	c cache.Cache,
) *ReadinessService {
	return &ReadinessService{
		nookRepo:   nookRepo,
		memberRepo: memberRepo,
		calculator: calculator,
		cache:      c,
		now:        time.Now,
	}
}

// GetReadiness returns the phase-filtered counts per commitment status among
// approved members. Zero-count categories are omitted.
func (s *ReadinessService) GetReadiness(ctx context.Context, nookID uuid.UUID) (*dto.ReadinessResponse, *errors.AppError) {
	if s.cache != nil {
		var cached dto.ReadinessResponse
		hit, err := s.cache.GetReadiness(ctx, cache.ReadinessKey(nookID.String()), &cached)
		if err != nil {
			logger.Warn("ReadinessService:CacheGet", "nook_id", nookID, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	nook, err := s.nookRepo.GetNookByID(ctx, nookID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load nook", err)
	}
	if nook == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "This nook is no longer available", nil)
	}

	phase := s.calculator.CommitmentPhase(nook.StartTime, nook.DurationMinutes, s.now())

	counts, err := s.memberRepo.CountCommitments(ctx, nookID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to count statuses", err)
	}

	visible := make(map[string]int)
	for _, status := range visibleStatuses(phase) {
		if n := counts[status]; n > 0 {
			visible[string(status)] = n
		}
	}

	resp := &dto.ReadinessResponse{
		NookID:          nookID.String(),
		CommitmentPhase: string(phase),
		Counts:          visible,
	}

	if s.cache != nil {
		if err := s.cache.SetReadiness(ctx, cache.ReadinessKey(nookID.String()), resp); err != nil {
			logger.Warn("ReadinessService:CacheSet", "nook_id", nookID, "error", err)
		}
	}

	return resp, nil
}

// visibleStatuses is the presentation policy: which statuses the group may
// see counts for in each commitment phase.
func visibleStatuses(phase entity.CommitmentPhase) []entity.CommitmentStatus {
	switch phase {
	case entity.CommitmentPhaseIntention:
		return []entity.CommitmentStatus{entity.CommitmentConfirmed, entity.CommitmentUnsure}
	case entity.CommitmentPhaseStatusUpdate:
		return []entity.CommitmentStatus{entity.CommitmentOnTheWay, entity.CommitmentRunningLate, entity.CommitmentConfirmed}
	case entity.CommitmentPhaseArrival, entity.CommitmentPhaseEnded:
		return []entity.CommitmentStatus{entity.CommitmentArrived, entity.CommitmentOnTheWay, entity.CommitmentRunningLate}
	default:
		return nil
	}
}
