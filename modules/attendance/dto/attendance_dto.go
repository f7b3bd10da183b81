package dto

import (
	"time"

	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/entity"
)

type IssueTokenRequest struct {
	NookID string `json:"nook_id"`
	// Phase is optional; when empty the issuer picks whichever scan window
	// is currently open.
	Phase string `json:"phase"`
}

type IssueTokenResponse struct {
	Token *entity.AttendanceToken `json:"token"`
}

type VerifyRequest struct {
	Token *entity.AttendanceToken `json:"token"`
}

// VerifyResponse is the verifier's wire contract. Error carries the machine
// code so the client can tell "rescan" from "wait" from "you're done".
type VerifyResponse struct {
	Success bool   `json:"success"`
	Phase   string `json:"phase,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type AttendanceResponse struct {
	NookID      string     `json:"nook_id"`
	UserID      string     `json:"user_id"`
	Status      string     `json:"status"`
	EntryMarked bool       `json:"entry_marked"`
	EntryTime   *time.Time `json:"entry_time,omitempty"`
	ExitMarked  bool       `json:"exit_marked"`
	ExitTime    *time.Time `json:"exit_time,omitempty"`
}

func ToAttendanceResponse(a *entity.Attendance) *AttendanceResponse {
	return &AttendanceResponse{
		NookID:      a.NookID.String(),
		UserID:      a.UserID.String(),
		Status:      string(a.Status),
		EntryMarked: a.EntryMarked,
		EntryTime:   a.EntryTime,
		ExitMarked:  a.ExitMarked,
		ExitTime:    a.ExitTime,
	}
}
