package repositories

import (
	"context"
	"encoding/json"
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

type AwardRepositoryImpl struct {
	db     *pgxpool.Pool
	logger *zerolog.Logger
}

// NewAwardRepositoryImpl creates new instance of AwardRepositoryImpl.
func NewAwardRepositoryImpl(db *pgxpool.Pool) repositories.AwardRepository {
	l := log.GetLogger()
	return &AwardRepositoryImpl{
		db:     db,
		logger: &l,
	}
}

const selectAward = `
SELECT award_id, title, amount, breakdown, status, created_by, created_at, updated_at
FROM awards`

func (r *AwardRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Award, error) {
	award, err := scanAward(r.db.QueryRow(ctx, selectAward+" WHERE award_id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Award")
		}
		return nil, err
	}
	return award, nil
}

func (r *AwardRepositoryImpl) List(ctx context.Context) ([]models.Award, error) {
	rows, err := r.db.Query(ctx, selectAward+" ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAwards(rows)
}

func (r *AwardRepositoryImpl) ListByOwner(ctx context.Context, ownerID string) ([]models.Award, error) {
	rows, err := r.db.Query(ctx, selectAward+" WHERE created_by = $1 ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAwards(rows)
}

func (r *AwardRepositoryImpl) Create(ctx context.Context, award *models.Award) error {
	breakdown, err := json.Marshal(award.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO awards (award_id, title, amount, breakdown, status, created_by)
		 VALUES ($1, $2, $3::NUMERIC(14,2), $4, $5, $6)`,
		award.ID, award.Title, award.Amount, breakdown, award.Status, award.CreatedBy,
	)
	return err
}

func (r *AwardRepositoryImpl) Update(ctx context.Context, award *models.Award) error {
	breakdown, err := json.Marshal(award.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	_, err = r.db.Exec(
		ctx,
		`UPDATE awards SET title = $2, amount = $3::NUMERIC(14,2), breakdown = $4, updated_at = now()
		 WHERE award_id = $1`,
		award.ID, award.Title, award.Amount, breakdown,
	)
	return err
}

func (r *AwardRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to models.AwardStatus) (bool, error) {
	tag, err := r.db.Exec(
		ctx,
		"UPDATE awards SET status = $3, updated_at = now() WHERE award_id = $1 AND status = $2",
		id, from, to,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AwardRepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM awards WHERE award_id = $1", id)
	return err
}

func (r *AwardRepositoryImpl) SumApproved(ctx context.Context, excludeID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(
		ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM awards WHERE status = 'Approved' AND award_id <> $1",
		excludeID,
	).Scan(&total)
	return total, err
}

// The pool check and the status flip are one statement: the award moves to
// Approved only while the sum of all other approved awards plus its own
// amount fits under the cap.
const approveWithinPool = `
WITH pool AS (
  SELECT COALESCE(SUM(amount), 0) AS total
  FROM awards
  WHERE status = 'Approved' AND award_id <> $1
),
target AS (
  SELECT award_id, amount FROM awards WHERE award_id = $1 AND status = 'Pending'
),
approved AS (
  UPDATE awards a
  SET status = 'Approved', updated_at = now()
  FROM pool, target t
  WHERE a.award_id = t.award_id
    AND pool.total + t.amount <= $2::NUMERIC(14,2)
  RETURNING a.award_id
)
SELECT $2::NUMERIC(14,2) - pool.total AS pool_remaining,
       t.amount AS required,
       EXISTS (SELECT 1 FROM approved) AS admitted
FROM pool, target t;`

// ApproveWithinPool admits the award against the institutional pool cap and
// flips its status in the same statement.
func (r *AwardRepositoryImpl) ApproveWithinPool(ctx context.Context, id string, poolCap decimal.Decimal) (repositories.PoolAdmissionRow, error) {
	var row repositories.PoolAdmissionRow
	for {
		tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
		if err != nil {
			return row, err
		}

		err = tx.QueryRow(ctx, approveWithinPool, id, poolCap).Scan(&row.PoolRemaining, &row.Required, &row.Admitted)
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
		if errors.Is(err, pgx.ErrNoRows) {
			return row, apperrors.NewStateConflictError("award is not pending approval")
		}
		return row, fmt.Errorf("approve award: %w", err)
	}
}

func scanAward(row pgx.Row) (*models.Award, error) {
	award := &models.Award{}
	var breakdown []byte
	err := row.Scan(&award.ID, &award.Title, &award.Amount, &breakdown, &award.Status,
		&award.CreatedBy, &award.CreatedAt, &award.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(breakdown) > 0 {
		if err = json.Unmarshal(breakdown, &award.Breakdown); err != nil {
			return nil, fmt.Errorf("unmarshal breakdown: %w", err)
		}
	}
	return award, nil
}

func collectAwards(rows pgx.Rows) ([]models.Award, error) {
	awards := make([]models.Award, 0)
	for rows.Next() {
		award, err := scanAward(rows)
		if err != nil {
			return nil, err
		}
		awards = append(awards, *award)
	}
	return awards, rows.Err()
}
