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
)

type TransactionRepositoryImpl struct {
	db     *pgxpool.Pool
	logger *zerolog.Logger
}

// NewTransactionRepositoryImpl creates new instance of TransactionRepositoryImpl.
func NewTransactionRepositoryImpl(db *pgxpool.Pool) repositories.TransactionRepository {
	l := log.GetLogger()
	return &TransactionRepositoryImpl{
		db:     db,
		logger: &l,
	}
}

// The availability check and the insert are one statement. A category with
// no allocation admits any amount (the transaction establishes it); an
// allocated category admits only amounts within its unclamped remaining.
// A rejected create inserts nothing and mutates no ledger row.
const createWithBudgetCheck = `
WITH line AS (
  SELECT allocated_amount, spent_amount, committed_amount
  FROM budget_lines
  WHERE award_id = $2 AND category = $4
),
admission AS (
  SELECT COALESCE((SELECT allocated_amount - spent_amount - committed_amount FROM line), 0) AS remaining,
         COALESCE((SELECT allocated_amount <= 0
                          OR allocated_amount - spent_amount - committed_amount >= $6::NUMERIC(14,2)
                   FROM line), TRUE) AS admitted
),
created AS (
  INSERT INTO transactions (transaction_id, award_id, user_id, category, description, amount, date_submitted, status)
  SELECT $1, $2, $3, $4, $5, $6::NUMERIC(14,2), $7, 'Pending'
  FROM admission
  WHERE admitted
  RETURNING transaction_id
)
SELECT a.remaining, a.admitted FROM admission a;`

// CreateWithBudgetCheck inserts the transaction as Pending, gated on the
// category's remaining balance.
func (r *TransactionRepositoryImpl) CreateWithBudgetCheck(ctx context.Context, txn *models.Transaction) (repositories.AdmissionRow, error) {
	args := []interface{}{
		txn.ID,
		txn.AwardID,
		txn.UserID,
		txn.Category,
		txn.Description,
		txn.Amount,
		txn.DateSubmitted,
	}

	var row repositories.AdmissionRow
	for {
		tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
		if err != nil {
			return row, err
		}

		err = tx.QueryRow(ctx, createWithBudgetCheck, args...).Scan(&row.Remaining, &row.Admitted)
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
			return row, apperrors.NewStateConflictError("transaction already exists")
		}
		return row, fmt.Errorf("create transaction: %w", err)
	}
}

const approveAndCommit = `
WITH txn AS (
  UPDATE transactions
  SET status = 'Approved', compliance_result = $2, compliance_reason = $3, updated_at = now()
  WHERE transaction_id = $1 AND status = 'Pending'
  RETURNING award_id, category, amount
),
line AS (
  INSERT INTO budget_lines (award_id, category, allocated_amount, spent_amount, committed_amount)
  SELECT award_id, category, 0, 0, amount FROM txn
  ON CONFLICT (award_id, category)
  DO UPDATE SET committed_amount = budget_lines.committed_amount + EXCLUDED.committed_amount
  RETURNING line_id
)
SELECT t.award_id, t.category, t.amount FROM txn t, line l;`

// ApproveAndCommit flips the transaction to Approved and adds its amount to
// the category's committed figure in one statement.
func (r *TransactionRepositoryImpl) ApproveAndCommit(ctx context.Context, id string, compliance models.ComplianceResult) (repositories.TransitionRow, error) {
	row, err := r.transition(ctx, approveAndCommit, id, compliance.Verdict, compliance.Reason)
	row.FromStatus = models.TransactionPending
	return row, err
}

const payAndSettle = `
WITH txn AS (
  UPDATE transactions
  SET status = 'Paid', updated_at = now()
  WHERE transaction_id = $1 AND status = 'Approved'
  RETURNING award_id, category, amount
),
line AS (
  UPDATE budget_lines b
  SET committed_amount = GREATEST(0, b.committed_amount - t.amount),
      spent_amount = b.spent_amount + t.amount
  FROM txn t
  WHERE b.award_id = t.award_id AND b.category = t.category
  RETURNING b.line_id
)
SELECT t.award_id, t.category, t.amount FROM txn t, line l;`

// PayAndSettle flips the transaction to Paid and moves its amount from
// committed to spent within the same category, atomically.
func (r *TransactionRepositoryImpl) PayAndSettle(ctx context.Context, id string) (repositories.TransitionRow, error) {
	row, err := r.transition(ctx, payAndSettle, id)
	row.FromStatus = models.TransactionApproved
	return row, err
}

const declineAndRelease = `
WITH current AS (
  SELECT transaction_id, award_id, category, amount, status
  FROM transactions
  WHERE transaction_id = $1 AND status IN ('Pending', 'Approved')
  FOR UPDATE
),
declined AS (
  UPDATE transactions t
  SET status = 'Declined', updated_at = now()
  FROM current c
  WHERE t.transaction_id = c.transaction_id
  RETURNING t.transaction_id
),
released AS (
  UPDATE budget_lines b
  SET committed_amount = GREATEST(0, b.committed_amount - c.amount)
  FROM current c
  WHERE c.status = 'Approved' AND b.award_id = c.award_id AND b.category = c.category
  RETURNING b.line_id
)
SELECT c.award_id, c.category, c.amount, c.status FROM current c;`

// DeclineAndRelease flips the transaction to Declined. An Approved
// transaction has its amount removed from committed; a Pending one leaves
// the ledger untouched.
func (r *TransactionRepositoryImpl) DeclineAndRelease(ctx context.Context, id string) (repositories.TransitionRow, error) {
	var row repositories.TransitionRow
	for {
		tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
		if err != nil {
			return row, err
		}

		err = tx.QueryRow(ctx, declineAndRelease, id).Scan(&row.AwardID, &row.Category, &row.Amount, &row.FromStatus)
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
			return row, apperrors.NewStateConflictError("transaction already processed")
		}
		return row, fmt.Errorf("decline transaction: %w", err)
	}
}

// transition runs a fused status-flip + ledger-mutation statement with the
// serialization retry loop. An empty result means the transaction was not
// in the expected state, i.e. a concurrent request got there first.
func (r *TransactionRepositoryImpl) transition(ctx context.Context, query string, args ...interface{}) (repositories.TransitionRow, error) {
	var row repositories.TransitionRow
	for {
		tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
		if err != nil {
			return row, err
		}

		err = tx.QueryRow(ctx, query, args...).Scan(&row.AwardID, &row.Category, &row.Amount)
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
			return row, apperrors.NewStateConflictError("transaction already processed")
		}
		return row, fmt.Errorf("transaction transition: %w", err)
	}
}

const selectTransaction = `
SELECT transaction_id, award_id, user_id, category, description, amount, date_submitted, status,
       COALESCE(compliance_result, 'unknown'), COALESCE(compliance_reason, ''), created_at, updated_at
FROM transactions`

// GetByID returns the transaction or nil when it does not exist.
func (r *TransactionRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	txn, err := scanTransaction(r.db.QueryRow(ctx, selectTransaction+" WHERE transaction_id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return txn, nil
}

func (r *TransactionRepositoryImpl) ListByAward(ctx context.Context, awardID string) ([]models.Transaction, error) {
	rows, err := r.db.Query(ctx, selectTransaction+" WHERE award_id = $1 ORDER BY created_at", awardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]models.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	txn := &models.Transaction{}
	err := row.Scan(&txn.ID, &txn.AwardID, &txn.UserID, &txn.Category, &txn.Description,
		&txn.Amount, &txn.DateSubmitted, &txn.Status,
		&txn.Compliance.Verdict, &txn.Compliance.Reason, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return txn, nil
}
