package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/entity"
	nookEntity "github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
)

// fakeNookRepo serves a fixed set of nooks; only the reads the attendance
// services use are meaningful.
type fakeNookRepo struct {
	nooks  map[uuid.UUID]*nookEntity.Nook
	getErr error
}

func newFakeNookRepo(nooks ...*nookEntity.Nook) *fakeNookRepo {
	repo := &fakeNookRepo{nooks: make(map[uuid.UUID]*nookEntity.Nook)}
	for _, n := range nooks {
		repo.nooks[n.ID] = n
	}
	return repo
}

func (r *fakeNookRepo) GetNookByID(_ context.Context, id uuid.UUID) (*nookEntity.Nook, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	n, ok := r.nooks[id]
	if !ok {
		return nil, nil
	}
	copy := *n
	return &copy, nil
}

func (r *fakeNookRepo) CreateNook(_ context.Context, n *nookEntity.Nook) (*nookEntity.Nook, error) {
	r.nooks[n.ID] = n
	return n, nil
}

func (r *fakeNookRepo) GetNooksByHostID(context.Context, uuid.UUID) ([]nookEntity.Nook, error) {
	return nil, nil
}

func (r *fakeNookRepo) GetNooksByMemberID(context.Context, uuid.UUID) ([]nookEntity.Nook, error) {
	return nil, nil
}

func (r *fakeNookRepo) UpdateNook(_ context.Context, n *nookEntity.Nook) error {
	r.nooks[n.ID] = n
	return nil
}

func (r *fakeNookRepo) UpdateNookStatus(context.Context, uuid.UUID, nookEntity.NookStatus) error {
	return nil
}

func (r *fakeNookRepo) ReassignHost(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (r *fakeNookRepo) CancelNook(context.Context, uuid.UUID, uuid.UUID, time.Time) error {
	return nil
}

func (r *fakeNookRepo) IncrementCurrentPeople(context.Context, uuid.UUID) (bool, error) {
	return true, nil
}

func (r *fakeNookRepo) DecrementCurrentPeople(context.Context, uuid.UUID) error { return nil }

// fakeMembershipRepo covers the membership reads and the arrival bump.
type fakeMembershipRepo struct {
	members map[uuid.UUID]*nookEntity.Membership

	noShowsMarked []uuid.UUID
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{members: make(map[uuid.UUID]*nookEntity.Membership)}
}

func (r *fakeMembershipRepo) add(nookID, userID uuid.UUID, approval nookEntity.ApprovalStatus, commitment nookEntity.CommitmentStatus) {
	r.members[userID] = &nookEntity.Membership{
		NookID:           nookID,
		UserID:           userID,
		ApprovalStatus:   approval,
		CommitmentStatus: commitment,
	}
}

func (r *fakeMembershipRepo) CreateMembership(_ context.Context, m *nookEntity.Membership) (*nookEntity.Membership, error) {
	r.members[m.UserID] = m
	return m, nil
}

func (r *fakeMembershipRepo) GetMembership(_ context.Context, _, userID uuid.UUID) (*nookEntity.Membership, error) {
	m, ok := r.members[userID]
	if !ok {
		return nil, nil
	}
	copy := *m
	return &copy, nil
}

func (r *fakeMembershipRepo) ListByNookID(context.Context, uuid.UUID) ([]nookEntity.Membership, error) {
	return nil, nil
}

func (r *fakeMembershipRepo) ListApprovedByNookID(context.Context, uuid.UUID) ([]nookEntity.Membership, error) {
	return nil, nil
}

func (r *fakeMembershipRepo) UpdateApprovalStatus(context.Context, uuid.UUID, uuid.UUID, nookEntity.ApprovalStatus) error {
	return nil
}

func (r *fakeMembershipRepo) UpdateCommitmentStatus(_ context.Context, _, userID uuid.UUID, status nookEntity.CommitmentStatus) error {
	if m, ok := r.members[userID]; ok {
		m.CommitmentStatus = status
	}
	return nil
}

func (r *fakeMembershipRepo) CountCommitments(context.Context, uuid.UUID) (map[nookEntity.CommitmentStatus]int, error) {
	return nil, nil
}

func (r *fakeMembershipRepo) MarkNoShows(_ context.Context, _ uuid.UUID, enteredUserIDs []uuid.UUID) (int64, error) {
	entered := make(map[uuid.UUID]bool, len(enteredUserIDs))
	for _, id := range enteredUserIDs {
		entered[id] = true
	}
	var n int64
	for _, m := range r.members {
		if m.ApprovalStatus != nookEntity.ApprovalStatusApproved {
			continue
		}
		if entered[m.UserID] || m.CommitmentStatus.Terminal() || m.CommitmentStatus == nookEntity.CommitmentArrived {
			continue
		}
		m.CommitmentStatus = nookEntity.CommitmentNoShow
		r.noShowsMarked = append(r.noShowsMarked, m.UserID)
		n++
	}
	return n, nil
}

// fakeAttendanceRepo mirrors the real repo's conditional-write semantics.
type fakeAttendanceRepo struct {
	records map[uuid.UUID]*entity.Attendance

	noShowRecords int64
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[uuid.UUID]*entity.Attendance)}
}

func (r *fakeAttendanceRepo) GetByNookAndUser(_ context.Context, _, userID uuid.UUID) (*entity.Attendance, error) {
	a, ok := r.records[userID]
	if !ok {
		return nil, nil
	}
	copy := *a
	return &copy, nil
}

func (r *fakeAttendanceRepo) MarkEntry(_ context.Context, nookID, userID uuid.UUID, at time.Time) (bool, error) {
	if a, ok := r.records[userID]; ok {
		if a.EntryMarked {
			return false, nil
		}
		a.EntryMarked = true
		a.EntryTime = &at
		a.Status = entity.AttendanceStatusAttended
		return true, nil
	}
	r.records[userID] = &entity.Attendance{
		NookID:      nookID,
		UserID:      userID,
		Status:      entity.AttendanceStatusAttended,
		EntryMarked: true,
		EntryTime:   &at,
	}
	return true, nil
}

func (r *fakeAttendanceRepo) MarkExit(_ context.Context, _, userID uuid.UUID, at time.Time) (bool, error) {
	a, ok := r.records[userID]
	if !ok || !a.EntryMarked || a.ExitMarked {
		return false, nil
	}
	a.ExitMarked = true
	a.ExitTime = &at
	return true, nil
}

func (r *fakeAttendanceRepo) ListEnteredUserIDs(_ context.Context, nookID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, a := range r.records {
		if a.NookID == nookID && a.EntryMarked {
			out = append(out, a.UserID)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) CreateNoShowRecords(_ context.Context, _ uuid.UUID) (int64, error) {
	r.noShowRecords++
	return r.noShowRecords, nil
}

// fakeCache is an in-memory cache.Cache.
type fakeCache struct {
	readiness map[string][]byte
	attempts  map[string]int64

	incrErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		readiness: make(map[string][]byte),
		attempts:  make(map[string]int64),
	}
}

func (c *fakeCache) IsTokenBlacklisted(context.Context, string) (bool, error) { return false, nil }
func (c *fakeCache) AddToTokenBlacklist(context.Context, string, time.Duration) error {
	return nil
}

func (c *fakeCache) GetReadiness(_ context.Context, key string, _ any) (bool, error) {
	_, ok := c.readiness[key]
	return ok, nil
}

func (c *fakeCache) SetReadiness(_ context.Context, key string, _ any) error {
	c.readiness[key] = []byte("{}")
	return nil
}

func (c *fakeCache) InvalidateReadiness(_ context.Context, key string) error {
	delete(c.readiness, key)
	return nil
}

func (c *fakeCache) IncrementScanAttempts(_ context.Context, key string) (int64, error) {
	if c.incrErr != nil {
		return 0, c.incrErr
	}
	c.attempts[key]++
	return c.attempts[key], nil
}

func (c *fakeCache) Expire(context.Context, string, time.Duration) error { return nil }
func (c *fakeCache) Close() error                                        { return nil }
