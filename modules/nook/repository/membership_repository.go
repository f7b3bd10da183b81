package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/RahulGiri5677/nookly-sub000/core/database"
	"github.com/RahulGiri5677/nookly-sub000/core/logger"
	"github.com/RahulGiri5677/nookly-sub000/modules/nook/entity"
)

// MembershipRepository handles membership database operations
type MembershipRepository struct {
	DB database.Database
}

func NewMembershipRepository(db database.Database) *MembershipRepository {
	return &MembershipRepository{DB: db}
}

// MembershipRepositoryInterface defines the repository contract
type MembershipRepositoryInterface interface {
	CreateMembership(ctx context.Context, m *entity.Membership) (*entity.Membership, error)
	GetMembership(ctx context.Context, nookID, userID uuid.UUID) (*entity.Membership, error)
	ListByNookID(ctx context.Context, nookID uuid.UUID) ([]entity.Membership, error)
	ListApprovedByNookID(ctx context.Context, nookID uuid.UUID) ([]entity.Membership, error)
	UpdateApprovalStatus(ctx context.Context, nookID, userID uuid.UUID, status entity.ApprovalStatus) error
	UpdateCommitmentStatus(ctx context.Context, nookID, userID uuid.UUID, status entity.CommitmentStatus) error
	CountCommitments(ctx context.Context, nookID uuid.UUID) (map[entity.CommitmentStatus]int, error)
	MarkNoShows(ctx context.Context, nookID uuid.UUID, enteredUserIDs []uuid.UUID) (int64, error)
}

const membershipColumns = `
	id, nook_id, user_id, approval_status, commitment_status, arrived_at, created_at, updated_at
`

func (r *MembershipRepository) CreateMembership(ctx context.Context, m *entity.Membership) (*entity.Membership, error) {
	// One membership per (nook, participant) pair; re-joining after a
	// decline resets the request to pending.
	query := `
		INSERT INTO memberships (nook_id, user_id, approval_status, commitment_status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (nook_id, user_id) DO UPDATE
		SET approval_status = EXCLUDED.approval_status, updated_at = NOW()
		RETURNING ` + membershipColumns

	var created entity.Membership
	err := r.DB.GetContext(ctx, &created, query, m.NookID, m.UserID, m.ApprovalStatus, m.CommitmentStatus)
	if err != nil {
		logger.Error("MembershipRepository:CreateMembership", err)
		return nil, err
	}

	return &created, nil
}

func (r *MembershipRepository) GetMembership(ctx context.Context, nookID, userID uuid.UUID) (*entity.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE nook_id = $1 AND user_id = $2`

	var m entity.Membership
	err := r.DB.GetContext(ctx, &m, query, nookID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MembershipRepository:GetMembership", err)
		return nil, err
	}

	return &m, nil
}

func (r *MembershipRepository) ListByNookID(ctx context.Context, nookID uuid.UUID) ([]entity.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE nook_id = $1 ORDER BY created_at`

	var members []entity.Membership
	err := r.DB.SelectContext(ctx, &members, query, nookID)
	if err != nil {
		logger.Error("MembershipRepository:ListByNookID", err)
		return nil, err
	}

	return members, nil
}

// ListApprovedByNookID returns approved members in join order, earliest
// first. This ordering is the failover selection order.
func (r *MembershipRepository) ListApprovedByNookID(ctx context.Context, nookID uuid.UUID) ([]entity.Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM memberships
		WHERE nook_id = $1 AND approval_status = 'approved'
		ORDER BY created_at ASC
	`

	var members []entity.Membership
	err := r.DB.SelectContext(ctx, &members, query, nookID)
	if err != nil {
		logger.Error("MembershipRepository:ListApprovedByNookID", err)
		return nil, err
	}

	return members, nil
}

func (r *MembershipRepository) UpdateApprovalStatus(ctx context.Context, nookID, userID uuid.UUID, status entity.ApprovalStatus) error {
	query := `UPDATE memberships SET approval_status = $3, updated_at = NOW() WHERE nook_id = $1 AND user_id = $2`
	err := r.DB.ExecContext(ctx, query, nookID, userID, status)
	if err != nil {
		logger.Error("MembershipRepository:UpdateApprovalStatus", err)
		return err
	}
	return nil
}

func (r *MembershipRepository) UpdateCommitmentStatus(ctx context.Context, nookID, userID uuid.UUID, status entity.CommitmentStatus) error {
	query := `UPDATE memberships SET commitment_status = $3, updated_at = NOW() WHERE nook_id = $1 AND user_id = $2`
	err := r.DB.ExecContext(ctx, query, nookID, userID, status)
	if err != nil {
		logger.Error("MembershipRepository:UpdateCommitmentStatus", err)
		return err
	}
	return nil
}

func (r *MembershipRepository) CountCommitments(ctx context.Context, nookID uuid.UUID) (map[entity.CommitmentStatus]int, error) {
	query := `
		SELECT commitment_status, COUNT(*) AS count
		FROM memberships
		WHERE nook_id = $1 AND approval_status = 'approved'
		GROUP BY commitment_status
	`

	var rows []struct {
		CommitmentStatus entity.CommitmentStatus `db:"commitment_status"`
		Count            int                     `db:"count"`
	}
	err := r.DB.SelectContext(ctx, &rows, query, nookID)
	if err != nil {
		logger.Error("MembershipRepository:CountCommitments", err)
		return nil, err
	}

	counts := make(map[entity.CommitmentStatus]int, len(rows))
	for _, row := range rows {
		counts[row.CommitmentStatus] = row.Count
	}
	return counts, nil
}

// MarkNoShows flips approved members with no verified entry to no_show once
// the nook is over. Members who already cancelled keep their status.
func (r *MembershipRepository) MarkNoShows(ctx context.Context, nookID uuid.UUID, enteredUserIDs []uuid.UUID) (int64, error) {
	query := `
		UPDATE memberships
		SET commitment_status = 'no_show', updated_at = NOW()
		WHERE nook_id = ? AND approval_status = 'approved'
		  AND commitment_status NOT IN ('cancelled', 'no_show', 'arrived')
	`
	args := []any{nookID}

	if len(enteredUserIDs) > 0 {
		inQuery, inArgs, err := sqlx.In(query+` AND user_id NOT IN (?)`, nookID, enteredUserIDs)
		if err != nil {
			return 0, err
		}
		query = inQuery
		args = inArgs
	}

	query = r.DB.SQLx().Rebind(query)
	result, err := r.DB.ExecResultContext(ctx, query, args...)
	if err != nil {
		logger.Error("MembershipRepository:MarkNoShows", err)
		return 0, err
	}
	return result.RowsAffected()
}
