package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nookEntity "github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
)

func finalizePayload(t *testing.T, nookID uuid.UUID) []byte {
	t.Helper()
	raw, err := json.Marshal(FinalizePayload{NookID: nookID})
	require.NoError(t, err)
	return raw
}

func TestHandleFinalizeTask_MarksNoShows(t *testing.T) {
	hostID := uuid.New()
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	nook := newTestNook(hostID, start)

	nookRepo := newFakeNookRepo(nook)
	memberRepo := newFakeMembershipRepo()
	attendanceRepo := newFakeAttendanceRepo()

	entered := uuid.New()
	ghost := uuid.New()
	bailed := uuid.New()
	memberRepo.add(nook.ID, entered, nookEntity.ApprovalStatusApproved, nookEntity.CommitmentArrived)
	memberRepo.add(nook.ID, ghost, nookEntity.ApprovalStatusApproved, nookEntity.CommitmentConfirmed)
	memberRepo.add(nook.ID, bailed, nookEntity.ApprovalStatusApproved, nookEntity.CommitmentCancelled)
	_, err := attendanceRepo.MarkEntry(context.Background(), nook.ID, entered, start)
	require.NoError(t, err)

	f := NewFinalizer(nookRepo, memberRepo, attendanceRepo)
	f.now = func() time.Time { return nook.EndTime().Add(time.Hour) }

	require.NoError(t, f.HandleFinalizeTask(context.Background(), finalizePayload(t, nook.ID)))

	// Only the committed member who never scanned in becomes a no-show.
	assert.Equal(t, []uuid.UUID{ghost}, memberRepo.noShowsMarked)

	m, _ := memberRepo.GetMembership(context.Background(), nook.ID, bailed)
	assert.Equal(t, nookEntity.CommitmentCancelled, m.CommitmentStatus)
}

func TestHandleFinalizeTask_SkipsCancelledNook(t *testing.T) {
	hostID := uuid.New()
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	nook := newTestNook(hostID, start)
	nook.Status = nookEntity.NookStatusCancelled

	memberRepo := newFakeMembershipRepo()
	memberRepo.add(nook.ID, uuid.New(), nookEntity.ApprovalStatusApproved, nookEntity.CommitmentConfirmed)

	f := NewFinalizer(newFakeNookRepo(nook), memberRepo, newFakeAttendanceRepo())
	f.now = func() time.Time { return nook.EndTime().Add(time.Hour) }

	require.NoError(t, f.HandleFinalizeTask(context.Background(), finalizePayload(t, nook.ID)))
	assert.Empty(t, memberRepo.noShowsMarked)
}

func TestHandleFinalizeTask_SkipsWhileExitWindowOpen(t *testing.T) {
	hostID := uuid.New()
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	nook := newTestNook(hostID, start)

	memberRepo := newFakeMembershipRepo()
	memberRepo.add(nook.ID, uuid.New(), nookEntity.ApprovalStatusApproved, nookEntity.CommitmentConfirmed)

	f := NewFinalizer(newFakeNookRepo(nook), memberRepo, newFakeAttendanceRepo())
	f.now = func() time.Time { return nook.EndTime().Add(10 * time.Minute) }

	require.NoError(t, f.HandleFinalizeTask(context.Background(), finalizePayload(t, nook.ID)))
	assert.Empty(t, memberRepo.noShowsMarked)
}

func TestHandleFinalizeTask_UnknownNookIsNotRetried(t *testing.T) {
	f := NewFinalizer(newFakeNookRepo(), newFakeMembershipRepo(), newFakeAttendanceRepo())
	assert.NoError(t, f.HandleFinalizeTask(context.Background(), finalizePayload(t, uuid.New())))
}

func TestHandleFinalizeTask_BadPayloadIsNotRetried(t *testing.T) {
	f := NewFinalizer(newFakeNookRepo(), newFakeMembershipRepo(), newFakeAttendanceRepo())
	assert.NoError(t, f.HandleFinalizeTask(context.Background(), []byte("not json")))
}
