package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
)

// fakeNookRepo is an in-memory NookRepositoryInterface.
type fakeNookRepo struct {
	nooks map[uuid.UUID]*entity.Nook

	getErr      error
	cancelErr   error
	reassignErr error

	cancelledBy *uuid.UUID
	reassigned  *uuid.UUID
}

func newFakeNookRepo(nooks ...*entity.Nook) *fakeNookRepo {
	repo := &fakeNookRepo{nooks: make(map[uuid.UUID]*entity.Nook)}
	for _, n := range nooks {
		repo.nooks[n.ID] = n
	}
	return repo
}

func (r *fakeNookRepo) CreateNook(_ context.Context, nook *entity.Nook) (*entity.Nook, error) {
	if nook.ID == uuid.Nil {
		nook.ID = uuid.New()
	}
	r.nooks[nook.ID] = nook
	return nook, nil
}

func (r *fakeNookRepo) GetNookByID(_ context.Context, id uuid.UUID) (*entity.Nook, error) {
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

func (r *fakeNookRepo) GetNooksByHostID(_ context.Context, hostID uuid.UUID) ([]entity.Nook, error) {
	var out []entity.Nook
	for _, n := range r.nooks {
		if n.HostID == hostID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNookRepo) GetNooksByMemberID(_ context.Context, _ uuid.UUID) ([]entity.Nook, error) {
	return nil, nil
}

func (r *fakeNookRepo) UpdateNook(_ context.Context, nook *entity.Nook) error {
	r.nooks[nook.ID] = nook
	return nil
}

func (r *fakeNookRepo) UpdateNookStatus(_ context.Context, id uuid.UUID, status entity.NookStatus) error {
	if n, ok := r.nooks[id]; ok && n.Status != entity.NookStatusCancelled {
		n.Status = status
	}
	return nil
}

func (r *fakeNookRepo) ReassignHost(_ context.Context, id uuid.UUID, newHostID uuid.UUID) error {
	if r.reassignErr != nil {
		return r.reassignErr
	}
	if n, ok := r.nooks[id]; ok {
		n.HostID = newHostID
	}
	r.reassigned = &newHostID
	return nil
}

func (r *fakeNookRepo) CancelNook(_ context.Context, id uuid.UUID, actorID uuid.UUID, at time.Time) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	if n, ok := r.nooks[id]; ok {
		n.Status = entity.NookStatusCancelled
		n.CancelledAt = &at
		n.CancelledBy = &actorID
	}
	r.cancelledBy = &actorID
	return nil
}

func (r *fakeNookRepo) IncrementCurrentPeople(_ context.Context, id uuid.UUID) (bool, error) {
	n, ok := r.nooks[id]
	if !ok || n.CurrentPeople >= n.MaxPeople {
		return false, nil
	}
	n.CurrentPeople++
	return true, nil
}

func (r *fakeNookRepo) DecrementCurrentPeople(_ context.Context, id uuid.UUID) error {
	if n, ok := r.nooks[id]; ok && n.CurrentPeople > 0 {
		n.CurrentPeople--
	}
	return nil
}

// fakeMembershipRepo is an in-memory MembershipRepositoryInterface. Members
// keep insertion order, matching the join-order listing of the real repo.
type fakeMembershipRepo struct {
	members []*entity.Membership

	updateCommitmentErr error
	countErr            error
}

func (r *fakeMembershipRepo) add(nookID, userID uuid.UUID, approval entity.ApprovalStatus, commitment entity.CommitmentStatus) *entity.Membership {
	m := &entity.Membership{
		NookID:           nookID,
		UserID:           userID,
		ApprovalStatus:   approval,
		CommitmentStatus: commitment,
	}
	m.CreatedAt = time.Now().Add(time.Duration(len(r.members)) * time.Minute)
	r.members = append(r.members, m)
	return m
}

func (r *fakeMembershipRepo) CreateMembership(_ context.Context, m *entity.Membership) (*entity.Membership, error) {
	r.members = append(r.members, m)
	return m, nil
}

func (r *fakeMembershipRepo) GetMembership(_ context.Context, nookID, userID uuid.UUID) (*entity.Membership, error) {
	for _, m := range r.members {
		if m.NookID == nookID && m.UserID == userID {
			copy := *m
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeMembershipRepo) ListByNookID(_ context.Context, nookID uuid.UUID) ([]entity.Membership, error) {
	var out []entity.Membership
	for _, m := range r.members {
		if m.NookID == nookID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) ListApprovedByNookID(_ context.Context, nookID uuid.UUID) ([]entity.Membership, error) {
	var out []entity.Membership
	for _, m := range r.members {
		if m.NookID == nookID && m.ApprovalStatus == entity.ApprovalStatusApproved {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) UpdateApprovalStatus(_ context.Context, nookID, userID uuid.UUID, status entity.ApprovalStatus) error {
	for _, m := range r.members {
		if m.NookID == nookID && m.UserID == userID {
			m.ApprovalStatus = status
		}
	}
	return nil
}

func (r *fakeMembershipRepo) UpdateCommitmentStatus(_ context.Context, nookID, userID uuid.UUID, status entity.CommitmentStatus) error {
	if r.updateCommitmentErr != nil {
		return r.updateCommitmentErr
	}
	for _, m := range r.members {
		if m.NookID == nookID && m.UserID == userID {
			m.CommitmentStatus = status
		}
	}
	return nil
}

func (r *fakeMembershipRepo) CountCommitments(_ context.Context, nookID uuid.UUID) (map[entity.CommitmentStatus]int, error) {
	if r.countErr != nil {
		return nil, r.countErr
	}
	counts := make(map[entity.CommitmentStatus]int)
	for _, m := range r.members {
		if m.NookID == nookID && m.ApprovalStatus == entity.ApprovalStatusApproved && m.CommitmentStatus != entity.CommitmentUnset {
			counts[m.CommitmentStatus]++
		}
	}
	return counts, nil
}

func (r *fakeMembershipRepo) MarkNoShows(_ context.Context, nookID uuid.UUID, enteredUserIDs []uuid.UUID) (int64, error) {
	entered := make(map[uuid.UUID]bool, len(enteredUserIDs))
	for _, id := range enteredUserIDs {
		entered[id] = true
	}
	var n int64
	for _, m := range r.members {
		if m.NookID != nookID || m.ApprovalStatus != entity.ApprovalStatusApproved {
			continue
		}
		if entered[m.UserID] || m.CommitmentStatus.Terminal() || m.CommitmentStatus == entity.CommitmentArrived {
			continue
		}
		m.CommitmentStatus = entity.CommitmentNoShow
		n++
	}
	return n, nil
}

// fakeCache is an in-memory cache.Cache.
type fakeCache struct {
	readiness map[string][]byte
	attempts  map[string]int64

	getErr error
	setErr error
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

func (c *fakeCache) GetReadiness(_ context.Context, key string, dest any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.readiness[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetReadiness(_ context.Context, key string, value any) error {
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.readiness[key] = raw
	return nil
}

func (c *fakeCache) InvalidateReadiness(_ context.Context, key string) error {
	delete(c.readiness, key)
	return nil
}

func (c *fakeCache) IncrementScanAttempts(_ context.Context, key string) (int64, error) {
	c.attempts[key]++
	return c.attempts[key], nil
}

func (c *fakeCache) Expire(context.Context, string, time.Duration) error { return nil }
func (c *fakeCache) Close() error                                        { return nil }

// recordingSink collects notification intents for assertions.
type recordingSink struct {
	intents []NotificationIntent
	err     error
}

func (s *recordingSink) Notify(_ context.Context, intent NotificationIntent) error {
	s.intents = append(s.intents, intent)
	return s.err
}

func (s *recordingSink) forUser(userID uuid.UUID) []NotificationIntent {
	var out []NotificationIntent
	for _, i := range s.intents {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out
}
