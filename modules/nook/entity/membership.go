package entity

import (
	"time"

	"github.com/google/uuid"

	coreEntity "github.com/RahulGiri5677/nookly-sub000/core/entity"
)

// ApprovalStatus is the join-request state of a membership. Only approved
// members count toward capacity, readiness, and attendance.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusDeclined ApprovalStatus = "declined"
)

// CommitmentStatus is a participant's self-reported state ahead of a nook.
// Unset is the zero value; cancelled and no_show are terminal for that
// participant within that nook.
type CommitmentStatus string

const (
	CommitmentUnset       CommitmentStatus = ""
	CommitmentConfirmed   CommitmentStatus = "confirmed"
	CommitmentUnsure      CommitmentStatus = "unsure"
	CommitmentOnTheWay    CommitmentStatus = "on_the_way"
	CommitmentRunningLate CommitmentStatus = "running_late"
	CommitmentArrived     CommitmentStatus = "arrived"
	CommitmentCancelled   CommitmentStatus = "cancelled"
	CommitmentNoShow      CommitmentStatus = "no_show"
)

// Terminal reports whether the status admits no further transitions.
func (s CommitmentStatus) Terminal() bool {
	return s == CommitmentCancelled || s == CommitmentNoShow
}

// Membership ties a participant to a nook. CreatedAt doubles as the join
// timestamp and is the failover tie-break ordering.
type Membership struct {
	NookID           uuid.UUID        `db:"nook_id" json:"nook_id"`
	UserID           uuid.UUID        `db:"user_id" json:"user_id"`
	ApprovalStatus   ApprovalStatus   `db:"approval_status" json:"approval_status"`
	CommitmentStatus CommitmentStatus `db:"commitment_status" json:"commitment_status"`
	// ArrivedAt is a legacy column kept for older rows; the attendance
	// record is the source of truth for verified arrival.
	ArrivedAt *time.Time `db:"arrived_at" json:"arrived_at,omitempty"`
	coreEntity.BaseEntity
}
