package entity

import (
	"time"

	"github.com/google/uuid"

	coreEntity "github.com/RahulGiri5677/nookly-sub000/core/entity"
)

// AttendanceStatus is the overall verification outcome for a participant.
type AttendanceStatus string

const (
	AttendanceStatusAttended AttendanceStatus = "attended"
	AttendanceStatusNoShow   AttendanceStatus = "no_show"
	AttendanceStatusPartial  AttendanceStatus = "partial_attendance"
)

// Attendance records physical verification for a participant at a nook.
// Entry must be marked before exit; each phase can only be marked once.
type Attendance struct {
	NookID      uuid.UUID        `db:"nook_id" json:"nook_id"`
	UserID      uuid.UUID        `db:"user_id" json:"user_id"`
	Status      AttendanceStatus `db:"status" json:"status"`
	EntryMarked bool             `db:"entry_marked" json:"entry_marked"`
	EntryTime   *time.Time       `db:"entry_time" json:"entry_time,omitempty"`
	ExitMarked  bool             `db:"exit_marked" json:"exit_marked"`
	ExitTime    *time.Time       `db:"exit_time" json:"exit_time,omitempty"`
	coreEntity.BaseEntity
}
