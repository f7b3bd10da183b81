package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/RahulGiri5677/nookly-sub000/core/database"
	"github.com/RahulGiri5677/nookly-sub000/core/logger"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
)

// NookRepository handles nook database operations
type NookRepository struct {
	DB database.Database
}

// NewNookRepository creates a new repository instance
func NewNookRepository(db database.Database) *NookRepository {
	return &NookRepository{DB: db}
}

// NookRepositoryInterface defines the repository contract
type NookRepositoryInterface interface {
	CreateNook(ctx context.Context, nook *entity.Nook) (*entity.Nook, error)
	GetNookByID(ctx context.Context, id uuid.UUID) (*entity.Nook, error)
	GetNooksByHostID(ctx context.Context, hostID uuid.UUID) ([]entity.Nook, error)
	GetNooksByMemberID(ctx context.Context, userID uuid.UUID) ([]entity.Nook, error)
	UpdateNook(ctx context.Context, nook *entity.Nook) error
	UpdateNookStatus(ctx context.Context, id uuid.UUID, status entity.NookStatus) error
	ReassignHost(ctx context.Context, id uuid.UUID, newHostID uuid.UUID) error
	CancelNook(ctx context.Context, id uuid.UUID, actorID uuid.UUID, at time.Time) error
	IncrementCurrentPeople(ctx context.Context, id uuid.UUID) (bool, error)
	DecrementCurrentPeople(ctx context.Context, id uuid.UUID) error
}

const nookColumns = `
	id, host_id, title, description, slug, address, venue_code, start_time,
	duration_minutes, status, min_people, max_people, current_people,
	cancelled_at, cancelled_by, created_at, updated_at
`

func (r *NookRepository) CreateNook(ctx context.Context, nook *entity.Nook) (*entity.Nook, error) {
	query := `
		INSERT INTO nooks (host_id, title, description, slug, address, venue_code,
		                   start_time, duration_minutes, status, min_people, max_people, current_people)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + nookColumns

	var created entity.Nook
	err := r.DB.GetContext(ctx, &created, query,
		nook.HostID, nook.Title, nook.Description, nook.Slug, nook.Address, nook.VenueCode,
		nook.StartTime, nook.DurationMinutes, nook.Status, nook.MinPeople, nook.MaxPeople, nook.CurrentPeople)
	if err != nil {
		logger.Error("NookRepository:CreateNook", err)
		return nil, err
	}

	return &created, nil
}

func (r *NookRepository) GetNookByID(ctx context.Context, id uuid.UUID) (*entity.Nook, error) {
	query := `SELECT ` + nookColumns + ` FROM nooks WHERE id = $1`

	var nook entity.Nook
	err := r.DB.GetContext(ctx, &nook, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("NookRepository:GetNookByID", err)
		return nil, err
	}

	return &nook, nil
}

func (r *NookRepository) GetNooksByHostID(ctx context.Context, hostID uuid.UUID) ([]entity.Nook, error) {
	query := `SELECT ` + nookColumns + ` FROM nooks WHERE host_id = $1 ORDER BY start_time DESC`

	var nooks []entity.Nook
	err := r.DB.SelectContext(ctx, &nooks, query, hostID)
	if err != nil {
		logger.Error("NookRepository:GetNooksByHostID", err)
		return nil, err
	}

	return nooks, nil
}

func (r *NookRepository) GetNooksByMemberID(ctx context.Context, userID uuid.UUID) ([]entity.Nook, error) {
	query := `
		SELECT n.id, n.host_id, n.title, n.description, n.slug, n.address, n.venue_code,
		       n.start_time, n.duration_minutes, n.status, n.min_people, n.max_people,
		       n.current_people, n.cancelled_at, n.cancelled_by, n.created_at, n.updated_at
		FROM nooks n
		JOIN memberships m ON m.nook_id = n.id
		WHERE m.user_id = $1 AND m.approval_status = 'approved'
		ORDER BY n.start_time DESC
	`

	var nooks []entity.Nook
	err := r.DB.SelectContext(ctx, &nooks, query, userID)
	if err != nil {
		logger.Error("NookRepository:GetNooksByMemberID", err)
		return nil, err
	}

	return nooks, nil
}

func (r *NookRepository) UpdateNook(ctx context.Context, nook *entity.Nook) error {
	query := `
		UPDATE nooks
		SET title = $2, description = $3, address = $4, venue_code = $5,
		    start_time = $6, duration_minutes = $7, min_people = $8, max_people = $9,
		    updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		nook.ID, nook.Title, nook.Description, nook.Address, nook.VenueCode,
		nook.StartTime, nook.DurationMinutes, nook.MinPeople, nook.MaxPeople)
	if err != nil {
		logger.Error("NookRepository:UpdateNook", err)
		return err
	}

	return nil
}

// UpdateNookStatus never overwrites a cancelled nook; cancelled is terminal.
func (r *NookRepository) UpdateNookStatus(ctx context.Context, id uuid.UUID, status entity.NookStatus) error {
	query := `UPDATE nooks SET status = $2, updated_at = NOW() WHERE id = $1 AND status != 'cancelled'`
	err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		logger.Error("NookRepository:UpdateNookStatus", err)
		return err
	}
	return nil
}

func (r *NookRepository) ReassignHost(ctx context.Context, id uuid.UUID, newHostID uuid.UUID) error {
	query := `UPDATE nooks SET host_id = $2, updated_at = NOW() WHERE id = $1 AND status != 'cancelled'`
	err := r.DB.ExecContext(ctx, query, id, newHostID)
	if err != nil {
		logger.Error("NookRepository:ReassignHost", err)
		return err
	}
	return nil
}

func (r *NookRepository) CancelNook(ctx context.Context, id uuid.UUID, actorID uuid.UUID, at time.Time) error {
	query := `
		UPDATE nooks
		SET status = 'cancelled', cancelled_at = $2, cancelled_by = $3, updated_at = NOW()
		WHERE id = $1 AND status != 'cancelled'
	`
	err := r.DB.ExecContext(ctx, query, id, at, actorID)
	if err != nil {
		logger.Error("NookRepository:CancelNook", err)
		return err
	}
	return nil
}

// IncrementCurrentPeople bumps the participant count, guarded against the
// capacity ceiling. Returns false when the nook is already full.
func (r *NookRepository) IncrementCurrentPeople(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE nooks
		SET current_people = current_people + 1, updated_at = NOW()
		WHERE id = $1 AND current_people < max_people
	`
	result, err := r.DB.ExecResultContext(ctx, query, id)
	if err != nil {
		logger.Error("NookRepository:IncrementCurrentPeople", err)
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *NookRepository) DecrementCurrentPeople(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE nooks
		SET current_people = GREATEST(current_people - 1, 0), updated_at = NOW()
		WHERE id = $1
	`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("NookRepository:DecrementCurrentPeople", err)
		return err
	}
	return nil
}
