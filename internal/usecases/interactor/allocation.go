package interactor

import (
	"context"

	"github.com/grandguard/budget-service/internal/budget"
	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/grandguard/budget-service/internal/domain/repositories"
)

// AllocationRefresher reruns the category allocator for an award and writes
// the result into the budget lines. Safe to call repeatedly: only the
// allocated figures change, spent/committed never do.
type AllocationRefresher struct {
	lineRepository     repositories.BudgetLineRepository
	subawardRepository repositories.SubawardRepository
}

func NewAllocationRefresher(lineRepository repositories.BudgetLineRepository, subawardRepository repositories.SubawardRepository) *AllocationRefresher {
	return &AllocationRefresher{
		lineRepository:     lineRepository,
		subawardRepository: subawardRepository,
	}
}

func (a *AllocationRefresher) Refresh(ctx context.Context, award *models.Award) error {
	subawarded, err := a.subawardRepository.SumActive(ctx, award.ID)
	if err != nil {
		return err
	}

	alloc := budget.Allocate(award.Amount, award.Breakdown, subawarded)
	return a.lineRepository.UpsertAllocations(ctx, award.ID, alloc)
}
