package repositories

import (
	"context"
	"fmt"

	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/grandguard/budget-service/internal/domain/repositories"
	"github.com/grandguard/budget-service/pkg/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type BudgetLineRepositoryImpl struct {
	db     *pgxpool.Pool
	logger *zerolog.Logger
}

// NewBudgetLineRepositoryImpl creates new instance of BudgetLineRepositoryImpl.
func NewBudgetLineRepositoryImpl(db *pgxpool.Pool) repositories.BudgetLineRepository {
	l := log.GetLogger()
	return &BudgetLineRepositoryImpl{
		db:     db,
		logger: &l,
	}
}

func (r *BudgetLineRepositoryImpl) ListByAward(ctx context.Context, awardID string) ([]models.BudgetLine, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT line_id, award_id, category, allocated_amount, spent_amount, committed_amount
		 FROM budget_lines WHERE award_id = $1 ORDER BY category`,
		awardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]models.BudgetLine, 0)
	for rows.Next() {
		var line models.BudgetLine
		err = rows.Scan(&line.ID, &line.AwardID, &line.Category, &line.Allocated, &line.Spent, &line.Committed)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

const upsertAllocation = `
INSERT INTO budget_lines (award_id, category, allocated_amount, spent_amount, committed_amount)
VALUES ($1, $2, $3::NUMERIC(14,2), 0, 0)
ON CONFLICT (award_id, category)
DO UPDATE SET allocated_amount = EXCLUDED.allocated_amount`

// UpsertAllocations writes the allocator output in one transaction:
// allocations of every existing line are zeroed first so a category that
// fell out of the derivation no longer counts, then each derived category
// is written. Spent and committed are never touched.
func (r *BudgetLineRepositoryImpl) UpsertAllocations(ctx context.Context, awardID string, alloc map[models.Category]decimal.Decimal) error {
	for {
		err := r.writeAllocations(ctx, awardID, alloc)
		if err == nil {
			return nil
		}
		if isSerializationError(err) {
			// retry transaction if serialization error occurs (SQLSTATE 40001)
			continue
		}
		return fmt.Errorf("upsert allocations: %w", err)
	}
}

func (r *BudgetLineRepositoryImpl) writeAllocations(ctx context.Context, awardID string, alloc map[models.Category]decimal.Decimal) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "UPDATE budget_lines SET allocated_amount = 0 WHERE award_id = $1", awardID)
	if err != nil {
		return err
	}

	for category, amount := range alloc {
		if _, err = tx.Exec(ctx, upsertAllocation, awardID, category, amount); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

const replaceFigures = `
INSERT INTO budget_lines (award_id, category, allocated_amount, spent_amount, committed_amount)
VALUES ($1, $2, $3::NUMERIC(14,2), $4::NUMERIC(14,2), $5::NUMERIC(14,2))
ON CONFLICT (award_id, category)
DO UPDATE SET spent_amount = EXCLUDED.spent_amount,
              committed_amount = EXCLUDED.committed_amount`

// ReplaceFigures overwrites spent/committed with replayed values. Allocated
// is written only for lines that do not exist yet.
func (r *BudgetLineRepositoryImpl) ReplaceFigures(ctx context.Context, awardID string, lines []models.BudgetLine) error {
	for {
		err := r.writeFigures(ctx, awardID, lines)
		if err == nil {
			return nil
		}
		if isSerializationError(err) {
			// retry transaction if serialization error occurs (SQLSTATE 40001)
			continue
		}
		return fmt.Errorf("replace figures: %w", err)
	}
}

func (r *BudgetLineRepositoryImpl) writeFigures(ctx context.Context, awardID string, lines []models.BudgetLine) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, line := range lines {
		_, err = tx.Exec(ctx, replaceFigures, awardID, line.Category, line.Allocated, line.Spent, line.Committed)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
