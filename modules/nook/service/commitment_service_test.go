package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreErrors "github.com/RahulGiri5677/nookly-sub000/core/errors"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
)

func newTestNook(hostID uuid.UUID, start time.Time) *entity.Nook {
	n := &entity.Nook{
		HostID:          hostID,
		Title:           "Board games at the cafe",
		StartTime:       start,
		DurationMinutes: 90,
		Status:          entity.NookStatusConfirmed,
		MinPeople:       3,
		MaxPeople:       6,
		CurrentPeople:   3,
	}
	n.ID = uuid.New()
	return n
}

type commitmentFixture struct {
	svc        *CommitmentService
	nookRepo   *fakeNookRepo
	memberRepo *fakeMembershipRepo
	sink       *recordingSink
	cache      *fakeCache
	nook       *entity.Nook
	hostID     uuid.UUID
}

func newCommitmentFixture(t *testing.T, start time.Time, now time.Time) *commitmentFixture {
	t.Helper()

	hostID := uuid.New()
	nook := newTestNook(hostID, start)

	nookRepo := newFakeNookRepo(nook)
	memberRepo := &fakeMembershipRepo{}
	memberRepo.add(nook.ID, hostID, entity.ApprovalStatusApproved, entity.CommitmentConfirmed)

	sink := &recordingSink{}
	c := newFakeCache()
	failover := NewFailoverService(nookRepo, memberRepo, sink)
	failover.now = func() time.Time { return now }

	svc := NewCommitmentService(nookRepo, memberRepo, NewPhaseCalculator(), failover, c)
	svc.now = func() time.Time { return now }

	return &commitmentFixture{
		svc:        svc,
		nookRepo:   nookRepo,
		memberRepo: memberRepo,
		sink:       sink,
		cache:      c,
		nook:       nook,
		hostID:     hostID,
	}
}

func TestUpdateCommitment_Transitions(t *testing.T) {
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		from     entity.CommitmentStatus
		to       entity.CommitmentStatus
		wantCode coreErrors.ErrorCode
	}{
		// intention window
		{"confirm from unset", start.Add(-2 * time.Hour), entity.CommitmentUnset, entity.CommitmentConfirmed, ""},
		{"unsure from unset", start.Add(-2 * time.Hour), entity.CommitmentUnset, entity.CommitmentUnsure, ""},
		{"cancel from unsure", start.Add(-2 * time.Hour), entity.CommitmentUnsure, entity.CommitmentCancelled, ""},
		{"re-confirm after cancelling", start.Add(-2 * time.Hour), entity.CommitmentCancelled, entity.CommitmentConfirmed, ""},
		{"unsure after confirming is rejected", start.Add(-2 * time.Hour), entity.CommitmentConfirmed, entity.CommitmentUnsure, coreErrors.ErrInvalidTransition},
		{"on_the_way too early", start.Add(-2 * time.Hour), entity.CommitmentConfirmed, entity.CommitmentOnTheWay, coreErrors.ErrInvalidTransition},

		// status-update window
		{"on_the_way from confirmed", start.Add(-30 * time.Minute), entity.CommitmentConfirmed, entity.CommitmentOnTheWay, ""},
		{"running_late from on_the_way", start.Add(-30 * time.Minute), entity.CommitmentOnTheWay, entity.CommitmentRunningLate, ""},
		{"late cancel from confirmed", start.Add(-30 * time.Minute), entity.CommitmentConfirmed, entity.CommitmentCancelled, ""},
		{"no coming back after cancelling late", start.Add(-30 * time.Minute), entity.CommitmentCancelled, entity.CommitmentOnTheWay, coreErrors.ErrInvalidTransition},
		{"confirm closed in update window", start.Add(-30 * time.Minute), entity.CommitmentUnset, entity.CommitmentConfirmed, coreErrors.ErrInvalidTransition},

		// closed phases
		{"too early entirely", start.Add(-5 * time.Hour), entity.CommitmentUnset, entity.CommitmentConfirmed, coreErrors.ErrCommitmentPhaseClosed},
		{"arrival window closed to self-reports", start.Add(-5 * time.Minute), entity.CommitmentOnTheWay, entity.CommitmentCancelled, coreErrors.ErrCommitmentPhaseClosed},
		{"after end", start.Add(2 * time.Hour), entity.CommitmentConfirmed, entity.CommitmentCancelled, coreErrors.ErrCommitmentPhaseClosed},

		// no-show is terminal regardless of window
		{"no_show never transitions", start.Add(-30 * time.Minute), entity.CommitmentNoShow, entity.CommitmentOnTheWay, coreErrors.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newCommitmentFixture(t, start, tt.now)
			userID := uuid.New()
			fx.memberRepo.add(fx.nook.ID, userID, entity.ApprovalStatusApproved, tt.from)

			resp, appErr := fx.svc.UpdateCommitment(context.Background(), fx.nook.ID, userID, tt.to)

			if tt.wantCode != "" {
				require.NotNil(t, appErr)
				assert.Equal(t, tt.wantCode, appErr.Code)
				return
			}

			require.Nil(t, appErr)
			assert.Equal(t, string(tt.to), resp.Status)

			stored, _ := fx.memberRepo.GetMembership(context.Background(), fx.nook.ID, userID)
			assert.Equal(t, tt.to, stored.CommitmentStatus)
		})
	}
}

func TestUpdateCommitment_RequiresApprovedMembership(t *testing.T) {
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	fx := newCommitmentFixture(t, start, start.Add(-2*time.Hour))

	pendingUser := uuid.New()
	fx.memberRepo.add(fx.nook.ID, pendingUser, entity.ApprovalStatusPending, entity.CommitmentUnset)

	_, appErr := fx.svc.UpdateCommitment(context.Background(), fx.nook.ID, pendingUser, entity.CommitmentConfirmed)
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNotApprovedMember, appErr.Code)

	_, appErr = fx.svc.UpdateCommitment(context.Background(), fx.nook.ID, uuid.New(), entity.CommitmentConfirmed)
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNotApprovedMember, appErr.Code)
}

func TestUpdateCommitment_CancelledNook(t *testing.T) {
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	fx := newCommitmentFixture(t, start, start.Add(-2*time.Hour))
	fx.nook.Status = entity.NookStatusCancelled

	_, appErr := fx.svc.UpdateCommitment(context.Background(), fx.nook.ID, fx.hostID, entity.CommitmentCancelled)
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNookCancelled, appErr.Code)
}

func TestUpdateCommitment_PersistenceFailureSurfaces(t *testing.T) {
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	fx := newCommitmentFixture(t, start, start.Add(-2*time.Hour))

	userID := uuid.New()
	fx.memberRepo.add(fx.nook.ID, userID, entity.ApprovalStatusApproved, entity.CommitmentUnset)
	fx.memberRepo.updateCommitmentErr = errors.New("connection reset")

	_, appErr := fx.svc.UpdateCommitment(context.Background(), fx.nook.ID, userID, entity.CommitmentConfirmed)
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrInternalServer, appErr.Code)
}

func TestUpdateCommitment_HostCancelTriggersFailover(t *testing.T) {
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	// Status-update window: a confirmed host can still bail here.
	fx := newCommitmentFixture(t, start, start.Add(-30*time.Minute))

	successorID := uuid.New()
	fx.memberRepo.add(fx.nook.ID, successorID, entity.ApprovalStatusApproved, entity.CommitmentConfirmed)

	resp, appErr := fx.svc.UpdateCommitment(context.Background(), fx.nook.ID, fx.hostID, entity.CommitmentCancelled)
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.CommitmentCancelled), resp.Status)

	require.NotNil(t, fx.nookRepo.reassigned)
	assert.Equal(t, successorID, *fx.nookRepo.reassigned)
}

func TestUpdateCommitment_NonHostCancelDoesNotFailover(t *testing.T) {
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	fx := newCommitmentFixture(t, start, start.Add(-2*time.Hour))

	userID := uuid.New()
	fx.memberRepo.add(fx.nook.ID, userID, entity.ApprovalStatusApproved, entity.CommitmentUnsure)

	_, appErr := fx.svc.UpdateCommitment(context.Background(), fx.nook.ID, userID, entity.CommitmentCancelled)
	require.Nil(t, appErr)
	assert.Nil(t, fx.nookRepo.reassigned)
	assert.Nil(t, fx.nookRepo.cancelledBy)
}

func TestUpdateCommitment_FailoverFailureDoesNotMaskWrite(t *testing.T) {
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	fx := newCommitmentFixture(t, start, start.Add(-30*time.Minute))

	fx.memberRepo.add(fx.nook.ID, uuid.New(), entity.ApprovalStatusApproved, entity.CommitmentConfirmed)
	fx.nookRepo.reassignErr = errors.New("deadlock detected")

	resp, appErr := fx.svc.UpdateCommitment(context.Background(), fx.nook.ID, fx.hostID, entity.CommitmentCancelled)
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.CommitmentCancelled), resp.Status)

	stored, _ := fx.memberRepo.GetMembership(context.Background(), fx.nook.ID, fx.hostID)
	assert.Equal(t, entity.CommitmentCancelled, stored.CommitmentStatus)
}

func TestUpdateCommitment_InvalidatesReadinessCache(t *testing.T) {
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	fx := newCommitmentFixture(t, start, start.Add(-2*time.Hour))

	userID := uuid.New()
	fx.memberRepo.add(fx.nook.ID, userID, entity.ApprovalStatusApproved, entity.CommitmentUnset)

	key := "readiness:" + fx.nook.ID.String()
	fx.cache.readiness[key] = []byte(`{"nook_id":"stale"}`)

	_, appErr := fx.svc.UpdateCommitment(context.Background(), fx.nook.ID, userID, entity.CommitmentConfirmed)
	require.Nil(t, appErr)
	assert.NotContains(t, fx.cache.readiness, key)
}
