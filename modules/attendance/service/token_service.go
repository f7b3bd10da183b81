package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/RahulGiri5677/nookly-sub000/core/constants"
	"github.com/RahulGiri5677/nookly-sub000/core/errors"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/entity"
	nookEntity "github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
	nookRepository "github.com/RahulGiri5677/nookly-sub000/modules/nook/repository"
)

// TokenService issues and signs attendance tokens on the host's behalf. The
// signing secret is process-wide and read-only; tokens are transient and
// never stored.
type TokenService struct {
	secret   []byte
	nookRepo nookRepository.NookRepositoryInterface
	now      func() time.Time
}

func NewTokenService(secret string, nookRepo nookRepository.NookRepositoryInterface) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		nookRepo: nookRepo,
		now:      time.Now,
	}
}

// Sign computes the truncated hex HMAC over the token's identity fields.
func (s *TokenService) Sign(nookID uuid.UUID, phase entity.ScanPhase, issuedAt int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%s:%d", nookID, phase, issuedAt)
	return hex.EncodeToString(mac.Sum(nil))[:constants.TokenSignatureHexLen]
}

// VerifySignature recomputes the expected signature and compares in
// constant time.
func (s *TokenService) VerifySignature(token *entity.AttendanceToken) bool {
	expected := s.Sign(token.NookID, token.Phase, token.IssuedAt)
	return hmac.Equal([]byte(expected), []byte(token.Signature))
}

// ScanWindow returns the wall-clock bounds within which a phase may be
// scanned, derived from the nook's stored schedule.
func ScanWindow(nook *nookEntity.Nook, phase entity.ScanPhase) (time.Time, time.Time) {
	var anchor time.Time
	if phase == entity.ScanPhaseEntry {
		anchor = nook.StartTime
	} else {
		anchor = nook.EndTime()
	}
	return anchor.Add(-constants.ScanWindowHalfWidth), anchor.Add(constants.ScanWindowHalfWidth)
}

// InScanWindow reports whether now falls inside the phase's window,
// boundaries included.
func InScanWindow(nook *nookEntity.Nook, phase entity.ScanPhase, now time.Time) bool {
	open, close := ScanWindow(nook, phase)
	return !now.Before(open) && !now.After(close)
}

// ActivePhase picks the scan phase whose window is currently open. Entry
// wins if the windows ever overlap (very short nooks).
func ActivePhase(nook *nookEntity.Nook, now time.Time) (entity.ScanPhase, bool) {
	if InScanWindow(nook, entity.ScanPhaseEntry, now) {
		return entity.ScanPhaseEntry, true
	}
	if InScanWindow(nook, entity.ScanPhaseExit, now) {
		return entity.ScanPhaseExit, true
	}
	return "", false
}

// anchorVisible is the coarse gate for the host's QR screen. It opens with
// the entry scan window, never after it, and stays up well past the end so
// late exits can still be handled.
func anchorVisible(nook *nookEntity.Nook, now time.Time) bool {
	lead := constants.AnchorVisibleBeforeStart
	if constants.ScanWindowHalfWidth > lead {
		lead = constants.ScanWindowHalfWidth
	}
	open := nook.StartTime.Add(-lead)
	close := nook.EndTime().Add(constants.AnchorVisibleAfterEnd)
	return !now.Before(open) && !now.After(close)
}

// IssueToken mints a signed, time-boxed token for the requested phase. The
// caller must be the nook's host. Clients re-request on the token TTL
// cadence while the scan screen stays open.
func (s *TokenService) IssueToken(ctx context.Context, nookID, hostID uuid.UUID, requestedPhase entity.ScanPhase) (*entity.AttendanceToken, *errors.AppError) {
	nook, err := s.nookRepo.GetNookByID(ctx, nookID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load nook", err)
	}
	if nook == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "This nook is no longer available", nil)
	}
	if nook.Status == nookEntity.NookStatusCancelled {
		return nil, errors.NewAppError(errors.ErrNookCancelled, "This nook has been cancelled", nil)
	}
	if nook.HostID != hostID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the host can show the check-in code", nil)
	}

	now := s.now()
	if !anchorVisible(nook, now) {
		return nil, errors.NewAppError(errors.ErrAnchorNotActive, "Check-in isn't active for this nook yet", nil)
	}

	phase := requestedPhase
	if phase == "" {
		active, ok := ActivePhase(nook, now)
		if !ok {
			return nil, errors.NewAppError(errors.ErrBetweenScanWindows, "Between check-in and check-out windows", nil)
		}
		phase = active
	} else {
		if !phase.Valid() {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown scan phase", nil)
		}
		if !InScanWindow(nook, phase, now) {
			return nil, errors.NewAppError(errors.ErrBetweenScanWindows, "That scan window isn't open right now", nil)
		}
	}

	issuedAt := now.Unix()
	return &entity.AttendanceToken{
		NookID:    nookID,
		Phase:     phase,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt + int64(constants.TokenTTL/time.Second),
		Signature: s.Sign(nookID, phase, issuedAt),
	}, nil
}
