package entity

import "github.com/google/uuid"

// ScanPhase says which attendance transition a token authorizes.
type ScanPhase string

const (
	ScanPhaseEntry ScanPhase = "entry"
	ScanPhaseExit  ScanPhase = "exit"
)

func (p ScanPhase) Valid() bool {
	return p == ScanPhaseEntry || p == ScanPhaseExit
}

// AttendanceToken is an ephemeral signed capability: "this nook's host
// authorized scanning for this phase at this time". Never persisted; the
// verifier recomputes the expected signature from the same inputs.
// Timestamps are unix seconds.
type AttendanceToken struct {
	NookID    uuid.UUID `json:"nook_id"`
	Phase     ScanPhase `json:"phase"`
	IssuedAt  int64     `json:"issued_at"`
	ExpiresAt int64     `json:"expires_at"`
	Signature string    `json:"signature"`
}
