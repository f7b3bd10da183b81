package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/RahulGiri5677/nookly-sub000/core/database"
	"github.com/RahulGiri5677/nookly-sub000/core/logger"
	"github.com/RahulGiri5677/nookly-sub000/modules/attendance/entity"
)

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	DB database.Database
}

func NewAttendanceRepository(db database.Database) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// AttendanceRepositoryInterface defines the repository contract
type AttendanceRepositoryInterface interface {
	GetByNookAndUser(ctx context.Context, nookID, userID uuid.UUID) (*entity.Attendance, error)
	MarkEntry(ctx context.Context, nookID, userID uuid.UUID, at time.Time) (bool, error)
	MarkExit(ctx context.Context, nookID, userID uuid.UUID, at time.Time) (bool, error)
	ListEnteredUserIDs(ctx context.Context, nookID uuid.UUID) ([]uuid.UUID, error)
	CreateNoShowRecords(ctx context.Context, nookID uuid.UUID) (int64, error)
}

const attendanceColumns = `
	id, nook_id, user_id, status, entry_marked, entry_time, exit_marked, exit_time, created_at, updated_at
`

func (r *AttendanceRepository) GetByNookAndUser(ctx context.Context, nookID, userID uuid.UUID) (*entity.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE nook_id = $1 AND user_id = $2`

	var att entity.Attendance
	err := r.DB.GetContext(ctx, &att, query, nookID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AttendanceRepository:GetByNookAndUser", err)
		return nil, err
	}

	return &att, nil
}

// MarkEntry creates or updates the attendance record with the entry scan.
// The write is conditional on entry not being marked yet so two concurrent
// scans cannot both succeed; returns false when the guard rejected it.
func (r *AttendanceRepository) MarkEntry(ctx context.Context, nookID, userID uuid.UUID, at time.Time) (bool, error) {
	query := `
		INSERT INTO attendances (nook_id, user_id, status, entry_marked, entry_time)
		VALUES ($1, $2, 'attended', true, $3)
		ON CONFLICT (nook_id, user_id) DO UPDATE
		SET entry_marked = true, entry_time = $3, status = 'attended', updated_at = NOW()
		WHERE attendances.entry_marked = false
	`
	result, err := r.DB.ExecResultContext(ctx, query, nookID, userID, at)
	if err != nil {
		logger.Error("AttendanceRepository:MarkEntry", err)
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// MarkExit updates an existing record with the exit scan. Conditional on
// exit not being marked and entry having happened, atomically per row.
func (r *AttendanceRepository) MarkExit(ctx context.Context, nookID, userID uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE attendances
		SET exit_marked = true, exit_time = $3,
		    status = CASE WHEN entry_marked THEN 'attended' ELSE 'partial_attendance' END,
		    updated_at = NOW()
		WHERE nook_id = $1 AND user_id = $2 AND exit_marked = false AND entry_marked = true
	`
	result, err := r.DB.ExecResultContext(ctx, query, nookID, userID, at)
	if err != nil {
		logger.Error("AttendanceRepository:MarkExit", err)
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *AttendanceRepository) ListEnteredUserIDs(ctx context.Context, nookID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT user_id FROM attendances WHERE nook_id = $1 AND entry_marked = true`

	var ids []uuid.UUID
	err := r.DB.SelectContext(ctx, &ids, query, nookID)
	if err != nil {
		logger.Error("AttendanceRepository:ListEnteredUserIDs", err)
		return nil, err
	}

	return ids, nil
}

// CreateNoShowRecords inserts no_show attendance rows for approved members
// with no scan at all, so the history reads the same for everyone.
func (r *AttendanceRepository) CreateNoShowRecords(ctx context.Context, nookID uuid.UUID) (int64, error) {
	query := `
		INSERT INTO attendances (nook_id, user_id, status, entry_marked, exit_marked)
		SELECT m.nook_id, m.user_id, 'no_show', false, false
		FROM memberships m
		WHERE m.nook_id = $1 AND m.approval_status = 'approved'
		ON CONFLICT (nook_id, user_id) DO NOTHING
	`
	result, err := r.DB.ExecResultContext(ctx, query, nookID)
	if err != nil {
		logger.Error("AttendanceRepository:CreateNoShowRecords", err)
		return 0, err
	}
	return result.RowsAffected()
}
