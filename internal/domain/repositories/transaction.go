package repositories

import (
	"context"

	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

type TransactionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	ListByAward(ctx context.Context, awardID string) ([]models.Transaction, error)
	// CreateWithBudgetCheck inserts the transaction as Pending only if the
	// category either has no allocation yet or its unclamped remaining
	// covers the amount. Check and insert are one atomic statement; a
	// rejected create mutates nothing.
	CreateWithBudgetCheck(ctx context.Context, txn *models.Transaction) (AdmissionRow, error)
	// ApproveAndCommit flips Pending to Approved and adds the amount to the
	// category's committed figure, creating the budget line if absent.
	ApproveAndCommit(ctx context.Context, id string, compliance models.ComplianceResult) (TransitionRow, error)
	// PayAndSettle flips Approved to Paid and moves the amount from
	// committed to spent within the same category.
	PayAndSettle(ctx context.Context, id string) (TransitionRow, error)
	// DeclineAndRelease flips Pending or Approved to Declined; a previously
	// Approved transaction has its amount removed from committed.
	DeclineAndRelease(ctx context.Context, id string) (TransitionRow, error)
}

// AdmissionRow reports the outcome of a budget-gated insert.
type AdmissionRow struct {
	Admitted  bool
	Remaining decimal.Decimal
}

// TransitionRow reports the ledger effect of a state transition.
type TransitionRow struct {
	AwardID    string
	Category   models.Category
	Amount     decimal.Decimal
	FromStatus models.TransactionStatus
}
