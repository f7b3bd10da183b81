package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/RahulGiri5677/nookly-sub000/core/constants"
	"github.com/RahulGiri5677/nookly-sub000/core/errors"
	"github.com/RahulGiri5677/nookly-sub000/core/logger"
	"github.com/RahulGiri5677/nookly-sub000/core/queue"
	"github.com/RahulGiri5677/nookly-sub000/core/utils"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/dto"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/repository"
)

// NookService handles nook business logic
type NookService struct {
	nookRepo   repository.NookRepositoryInterface
	memberRepo repository.MembershipRepositoryInterface
	calculator *PhaseCalculator
	notifier   NotificationSink
	queue      queue.Client
	now        func() time.Time
}

// NookServiceInterface defines the service contract
type NookServiceInterface interface {
	CreateNook(ctx context.Context, hostID uuid.UUID, req *dto.CreateNookRequest) (*dto.NookResponse, *errors.AppError)
	GetNookByID(ctx context.Context, id uuid.UUID) (*dto.NookResponse, *errors.AppError)
	GetMyNooks(ctx context.Context, userID uuid.UUID) (*dto.MyNooksResponse, *errors.AppError)
	UpdateNook(ctx context.Context, nookID, hostID uuid.UUID, req *dto.UpdateNookRequest) (*dto.NookResponse, *errors.AppError)
	CancelNook(ctx context.Context, nookID, hostID uuid.UUID) *errors.AppError
	JoinNook(ctx context.Context, nookID, userID uuid.UUID) (*dto.MembershipResponse, *errors.AppError)
	ApproveMember(ctx context.Context, nookID, hostID, userID uuid.UUID) (*dto.MembershipResponse, *errors.AppError)
	DeclineMember(ctx context.Context, nookID, hostID, userID uuid.UUID) *errors.AppError
}

func NewNookService(
	nookRepo repository.NookRepositoryInterface,
	memberRepo repository.MembershipRepositoryInterface,
	calculator *PhaseCalculator,
	notifier NotificationSink,
	q queue.Client,
) NookServiceInterface {
	return &NookService{
		nookRepo:   nookRepo,
		memberRepo: memberRepo,
		calculator: calculator,
		notifier:   notifier,
		queue:      q,
		now:        time.Now,
	}
}

// CreateNook creates a nook with the creator as host and first approved
// member, and schedules the attendance finalization sweep for after the end.
func (s *NookService) CreateNook(ctx context.Context, hostID uuid.UUID, req *dto.CreateNookRequest) (*dto.NookResponse, *errors.AppError) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid start time format", err)
	}
	if req.DurationMinutes <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Duration must be positive", nil)
	}
	if req.MaxPeople <= 0 || req.MinPeople <= 0 || req.MinPeople > req.MaxPeople {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid participant limits", nil)
	}

	venueCode := utils.GenerateVenueCode()
	nook := &entity.Nook{
		HostID:          hostID,
		Title:           req.Title,
		Slug:            slug.Make(req.Title),
		StartTime:       startTime,
		DurationMinutes: req.DurationMinutes,
		Status:          entity.NookStatusPending,
		MinPeople:       req.MinPeople,
		MaxPeople:       req.MaxPeople,
		CurrentPeople:   1,
		VenueCode:       &venueCode,
	}
	if req.Description != "" {
		nook.Description = &req.Description
	}
	if req.Address != "" {
		nook.Address = &req.Address
	}

	created, err := s.nookRepo.CreateNook(ctx, nook)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create nook", err)
	}

	host := &entity.Membership{
		NookID:           created.ID,
		UserID:           hostID,
		ApprovalStatus:   entity.ApprovalStatusApproved,
		CommitmentStatus: entity.CommitmentConfirmed,
	}
	if _, err := s.memberRepo.CreateMembership(ctx, host); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create host membership", err)
	}

	s.scheduleFinalize(ctx, created)

	return s.GetNookByID(ctx, created.ID)
}

// scheduleFinalize enqueues the no-show sweep for when the nook is well past
// its end. Best-effort; the sweep re-checks the stored schedule when it runs.
func (s *NookService) scheduleFinalize(ctx context.Context, nook *entity.Nook) {
	if s.queue == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{"nook_id": nook.ID.String()})
	at := nook.EndTime().Add(constants.AnchorVisibleAfterEnd)
	if err := s.queue.EnqueueAt(ctx, queue.TaskAttendanceFinalize, payload, at); err != nil {
		logger.Error("NookService:ScheduleFinalize", "nook_id", nook.ID, "error", err)
	}
}

func (s *NookService) GetNookByID(ctx context.Context, id uuid.UUID) (*dto.NookResponse, *errors.AppError) {
	nook, err := s.nookRepo.GetNookByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get nook", err)
	}
	if nook == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "This nook is no longer available", nil)
	}

	members, err := s.memberRepo.ListByNookID(ctx, id)
	if err != nil {
		logger.Error("NookService:GetNookByID:Members", "nook_id", id, "error", err)
	}

	now := s.now()
	phase := s.calculator.Compute(nook.StartTime, nook.DurationMinutes, nook.Status, now)
	commitmentPhase := s.calculator.CommitmentPhase(nook.StartTime, nook.DurationMinutes, now)
	return dto.ToNookResponse(nook, phase, commitmentPhase, members), nil
}

func (s *NookService) GetMyNooks(ctx context.Context, userID uuid.UUID) (*dto.MyNooksResponse, *errors.AppError) {
	hosting, err := s.nookRepo.GetNooksByHostID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get nooks", err)
	}
	joined, err := s.nookRepo.GetNooksByMemberID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get nooks", err)
	}

	now := s.now()
	resp := &dto.MyNooksResponse{
		Hosting: make([]dto.NookResponse, 0, len(hosting)),
		Joined:  make([]dto.NookResponse, 0, len(joined)),
	}
	for i := range hosting {
		n := &hosting[i]
		resp.Hosting = append(resp.Hosting, *dto.ToNookResponse(n,
			s.calculator.Compute(n.StartTime, n.DurationMinutes, n.Status, now),
			s.calculator.CommitmentPhase(n.StartTime, n.DurationMinutes, now), nil))
	}
	for i := range joined {
		n := &joined[i]
		if n.HostID == userID {
			continue
		}
		resp.Joined = append(resp.Joined, *dto.ToNookResponse(n,
			s.calculator.Compute(n.StartTime, n.DurationMinutes, n.Status, now),
			s.calculator.CommitmentPhase(n.StartTime, n.DurationMinutes, now), nil))
	}

	return resp, nil
}

func (s *NookService) UpdateNook(ctx context.Context, nookID, hostID uuid.UUID, req *dto.UpdateNookRequest) (*dto.NookResponse, *errors.AppError) {
	nook, err := s.nookRepo.GetNookByID(ctx, nookID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get nook", err)
	}
	if nook == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "This nook is no longer available", nil)
	}
	if nook.HostID != hostID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the host can update this nook", nil)
	}
	if nook.Status == entity.NookStatusCancelled {
		return nil, errors.NewAppError(errors.ErrNookCancelled, "This nook has been cancelled", nil)
	}

	if req.Title != "" {
		nook.Title = req.Title
	}
	if req.Description != "" {
		nook.Description = &req.Description
	}
	if req.Address != "" {
		nook.Address = &req.Address
	}
	rescheduled := false
	if req.StartTime != "" {
		startTime, parseErr := time.Parse(time.RFC3339, req.StartTime)
		if parseErr != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid start time format", parseErr)
		}
		nook.StartTime = startTime
		rescheduled = true
	}
	if req.DurationMinutes > 0 {
		nook.DurationMinutes = req.DurationMinutes
		rescheduled = true
	}
	if req.MinPeople > 0 {
		nook.MinPeople = req.MinPeople
	}
	if req.MaxPeople > 0 {
		nook.MaxPeople = req.MaxPeople
	}

	if err := s.nookRepo.UpdateNook(ctx, nook); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update nook", err)
	}
	if rescheduled {
		s.scheduleFinalize(ctx, nook)
	}

	return s.GetNookByID(ctx, nookID)
}

// CancelNook is the host explicitly calling the nook off, outside the
// commitment flow. Everyone else gets told; notification failures never
// block the cancellation.
func (s *NookService) CancelNook(ctx context.Context, nookID, hostID uuid.UUID) *errors.AppError {
	nook, err := s.nookRepo.GetNookByID(ctx, nookID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get nook", err)
	}
	if nook == nil {
		return errors.NewAppError(errors.ErrNotFound, "This nook is no longer available", nil)
	}
	if nook.HostID != hostID {
		return errors.NewAppError(errors.ErrForbidden, "Only the host can cancel this nook", nil)
	}
	if nook.Status == entity.NookStatusCancelled {
		return errors.NewAppError(errors.ErrNookCancelled, "This nook has already been cancelled", nil)
	}

	if err := s.nookRepo.CancelNook(ctx, nookID, hostID, s.now()); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to cancel nook", err)
	}

	members, err := s.memberRepo.ListApprovedByNookID(ctx, nookID)
	if err != nil {
		logger.Error("NookService:CancelNook:ListMembers", "nook_id", nookID, "error", err)
		return nil
	}
	for _, m := range members {
		if m.UserID == hostID || s.notifier == nil {
			continue
		}
		intent := NotificationIntent{
			UserID:   m.UserID,
			Title:    "Nook cancelled",
			Message:  fmt.Sprintf("The host cancelled %q.", nook.Title),
			Category: "nook_cancelled",
			NookID:   nook.ID,
		}
		if err := s.notifier.Notify(ctx, intent); err != nil {
			logger.Error("NookService:CancelNook:Notify", "nook_id", nookID, "user_id", m.UserID, "error", err)
		}
	}

	return nil
}

// JoinNook files a join request as a pending membership and pings the host.
func (s *NookService) JoinNook(ctx context.Context, nookID, userID uuid.UUID) (*dto.MembershipResponse, *errors.AppError) {
	nook, err := s.nookRepo.GetNookByID(ctx, nookID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get nook", err)
	}
	if nook == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "This nook is no longer available", nil)
	}
	if nook.Status == entity.NookStatusCancelled {
		return nil, errors.NewAppError(errors.ErrNookCancelled, "This nook has been cancelled", nil)
	}
	if !s.now().Before(nook.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "This nook has already started", nil)
	}

	existing, err := s.memberRepo.GetMembership(ctx, nookID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check membership", err)
	}
	if existing != nil && existing.ApprovalStatus != entity.ApprovalStatusDeclined {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "You have already requested to join this nook", nil)
	}

	member := &entity.Membership{
		NookID:           nookID,
		UserID:           userID,
		ApprovalStatus:   entity.ApprovalStatusPending,
		CommitmentStatus: entity.CommitmentUnset,
	}
	created, err := s.memberRepo.CreateMembership(ctx, member)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create join request", err)
	}

	if s.notifier != nil {
		intent := NotificationIntent{
			UserID:   nook.HostID,
			Title:    "New join request",
			Message:  fmt.Sprintf("Someone wants to join %q.", nook.Title),
			Category: "join_request",
			NookID:   nook.ID,
		}
		if err := s.notifier.Notify(ctx, intent); err != nil {
			logger.Error("NookService:JoinNook:Notify", "nook_id", nookID, "error", err)
		}
	}

	resp := dto.ToMembershipResponse(created)
	return &resp, nil
}

// ApproveMember admits a pending member, capacity permitting, and confirms
// the nook once the minimum headcount is reached.
func (s *NookService) ApproveMember(ctx context.Context, nookID, hostID, userID uuid.UUID) (*dto.MembershipResponse, *errors.AppError) {
	nook, err := s.nookRepo.GetNookByID(ctx, nookID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get nook", err)
	}
	if nook == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "This nook is no longer available", nil)
	}
	if nook.HostID != hostID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the host can approve members", nil)
	}
	if nook.Status == entity.NookStatusCancelled {
		return nil, errors.NewAppError(errors.ErrNookCancelled, "This nook has been cancelled", nil)
	}

	member, err := s.memberRepo.GetMembership(ctx, nookID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load membership", err)
	}
	if member == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "No join request from that user", nil)
	}
	if member.ApprovalStatus == entity.ApprovalStatusApproved {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "That member is already approved", nil)
	}

	ok, err := s.nookRepo.IncrementCurrentPeople(ctx, nookID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update headcount", err)
	}
	if !ok {
		return nil, errors.NewAppError(errors.ErrNookFull, "This nook is full", nil)
	}

	if err := s.memberRepo.UpdateApprovalStatus(ctx, nookID, userID, entity.ApprovalStatusApproved); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to approve member", err)
	}

	if nook.Status == entity.NookStatusPending && nook.CurrentPeople+1 >= nook.MinPeople {
		if err := s.nookRepo.UpdateNookStatus(ctx, nookID, entity.NookStatusConfirmed); err != nil {
			logger.Error("NookService:ApproveMember:Confirm", "nook_id", nookID, "error", err)
		}
	}

	if s.notifier != nil {
		intent := NotificationIntent{
			UserID:   userID,
			Title:    "You're in",
			Message:  fmt.Sprintf("Your request to join %q was approved.", nook.Title),
			Category: "join_approved",
			NookID:   nook.ID,
		}
		if err := s.notifier.Notify(ctx, intent); err != nil {
			logger.Error("NookService:ApproveMember:Notify", "nook_id", nookID, "error", err)
		}
	}

	member.ApprovalStatus = entity.ApprovalStatusApproved
	resp := dto.ToMembershipResponse(member)
	return &resp, nil
}

func (s *NookService) DeclineMember(ctx context.Context, nookID, hostID, userID uuid.UUID) *errors.AppError {
	nook, err := s.nookRepo.GetNookByID(ctx, nookID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get nook", err)
	}
	if nook == nil {
		return errors.NewAppError(errors.ErrNotFound, "This nook is no longer available", nil)
	}
	if nook.HostID != hostID {
		return errors.NewAppError(errors.ErrForbidden, "Only the host can decline members", nil)
	}

	member, err := s.memberRepo.GetMembership(ctx, nookID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load membership", err)
	}
	if member == nil || member.ApprovalStatus != entity.ApprovalStatusPending {
		return errors.NewAppError(errors.ErrNotFound, "No pending join request from that user", nil)
	}

	if err := s.memberRepo.UpdateApprovalStatus(ctx, nookID, userID, entity.ApprovalStatusDeclined); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to decline member", err)
	}

	return nil
}
