package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/grandguard/budget-service/internal/domain/repositories"
	apperrors "github.com/grandguard/budget-service/internal/errors"
	"github.com/grandguard/budget-service/pkg/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type SubawardRepositoryImpl struct {
	db     *pgxpool.Pool
	logger *zerolog.Logger
}

// NewSubawardRepositoryImpl creates new instance of SubawardRepositoryImpl.
func NewSubawardRepositoryImpl(db *pgxpool.Pool) repositories.SubawardRepository {
	l := log.GetLogger()
	return &SubawardRepositoryImpl{
		db:     db,
		logger: &l,
	}
}

// The cap check and the insert are one statement: the subaward is created
// only while the sum of the award's non-Declined subawards plus the new
// amount stays within the award total.
const createWithinCap = `
WITH active AS (
  SELECT COALESCE(SUM(amount), 0) AS total
  FROM subawards
  WHERE award_id = $2 AND status <> 'Declined'
),
created AS (
  INSERT INTO subawards (subaward_id, award_id, recipient_name, recipient_contact, recipient_email, amount, description, status, created_by)
  SELECT $1, $2, $3, $4, $5, $6::NUMERIC(14,2), $7, 'Pending', $8
  FROM active
  WHERE active.total + $6::NUMERIC(14,2) <= $9::NUMERIC(14,2)
  RETURNING subaward_id
)
SELECT a.total, EXISTS (SELECT 1 FROM created) AS admitted FROM active a;`

// CreateWithinCap inserts the subaward as Pending, gated on the per-award
// subaward cap.
func (r *SubawardRepositoryImpl) CreateWithinCap(ctx context.Context, sub *models.Subaward, awardAmount decimal.Decimal) (repositories.CapAdmissionRow, error) {
	args := []interface{}{
		sub.ID,
		sub.AwardID,
		sub.RecipientName,
		sub.RecipientContact,
		sub.RecipientEmail,
		sub.Amount,
		sub.Description,
		sub.CreatedBy,
		awardAmount,
	}

	var row repositories.CapAdmissionRow
	for {
		tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
		if err != nil {
			return row, err
		}

		err = tx.QueryRow(ctx, createWithinCap, args...).Scan(&row.Active, &row.Admitted)
		if err == nil {
			err = tx.Commit(ctx)
			if err == nil {
				return row, nil
			}
		}
		tx.Rollback(ctx)

		if isSerializationError(err) {
			// retry transaction if serialization error occurs (SQLSTATE 40001)
			continue
		}
		if isUniqueViolation(err) {
			return row, apperrors.NewStateConflictError("subaward already exists")
		}
		return row, fmt.Errorf("create subaward: %w", err)
	}
}

func (r *SubawardRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to models.SubawardStatus) (bool, error) {
	tag, err := r.db.Exec(
		ctx,
		"UPDATE subawards SET status = $3 WHERE subaward_id = $1 AND status = $2",
		id, from, to,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const selectSubaward = `
SELECT subaward_id, award_id, recipient_name, COALESCE(recipient_contact, ''), COALESCE(recipient_email, ''),
       amount, COALESCE(description, ''), status, created_by, created_at
FROM subawards`

func (r *SubawardRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Subaward, error) {
	sub := &models.Subaward{}
	err := r.db.QueryRow(ctx, selectSubaward+" WHERE subaward_id = $1", id).
		Scan(&sub.ID, &sub.AwardID, &sub.RecipientName, &sub.RecipientContact, &sub.RecipientEmail,
			&sub.Amount, &sub.Description, &sub.Status, &sub.CreatedBy, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Subaward")
		}
		return nil, err
	}
	return sub, nil
}

func (r *SubawardRepositoryImpl) ListByAward(ctx context.Context, awardID string) ([]models.Subaward, error) {
	rows, err := r.db.Query(ctx, selectSubaward+" WHERE award_id = $1 ORDER BY created_at", awardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]models.Subaward, 0)
	for rows.Next() {
		var sub models.Subaward
		err = rows.Scan(&sub.ID, &sub.AwardID, &sub.RecipientName, &sub.RecipientContact, &sub.RecipientEmail,
			&sub.Amount, &sub.Description, &sub.Status, &sub.CreatedBy, &sub.CreatedAt)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *SubawardRepositoryImpl) SumActive(ctx context.Context, awardID string) (decimal.Decimal, error) {
	return r.sum(ctx, "SELECT COALESCE(SUM(amount), 0) FROM subawards WHERE award_id = $1 AND status <> 'Declined'", awardID)
}

func (r *SubawardRepositoryImpl) SumApproved(ctx context.Context, awardID string) (decimal.Decimal, error) {
	return r.sum(ctx, "SELECT COALESCE(SUM(amount), 0) FROM subawards WHERE award_id = $1 AND status = 'Approved'", awardID)
}

func (r *SubawardRepositoryImpl) sum(ctx context.Context, query, awardID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, awardID).Scan(&total)
	return total, err
}
