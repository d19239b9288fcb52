package repositories

import (
	"context"

	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

type BudgetLineRepository interface {
	ListByAward(ctx context.Context, awardID string) ([]models.BudgetLine, error)
	// UpsertAllocations writes the allocator's output: the allocated figure
	// of existing lines is overwritten in place, missing lines are created
	// with zero spent/committed, and lines whose category fell out of the
	// derivation have their allocation zeroed. Spent and committed are never
	// touched.
	UpsertAllocations(ctx context.Context, awardID string, alloc map[models.Category]decimal.Decimal) error
	// ReplaceFigures overwrites spent/committed from a full replay of the
	// transaction set.
	ReplaceFigures(ctx context.Context, awardID string, lines []models.BudgetLine) error
}
