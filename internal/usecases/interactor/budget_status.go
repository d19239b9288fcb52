package interactor

import (
	"context"

	"github.com/grandguard/budget-service/internal/budget"
	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/grandguard/budget-service/internal/domain/repositories"
	apperrors "github.com/grandguard/budget-service/internal/errors"
	"github.com/grandguard/budget-service/pkg/log"
	"github.com/rs/zerolog"
)

// BudgetInteractor serves the ledger read side and the full-replay
// recompute.
type BudgetInteractor struct {
	awardRepository       repositories.AwardRepository
	lineRepository        repositories.BudgetLineRepository
	transactionRepository repositories.TransactionRepository
	subawardRepository    repositories.SubawardRepository
	refresher             *AllocationRefresher
	logger                *zerolog.Logger
}

func NewBudgetInteractor(
	awardRepository repositories.AwardRepository,
	lineRepository repositories.BudgetLineRepository,
	transactionRepository repositories.TransactionRepository,
	subawardRepository repositories.SubawardRepository,
	refresher *AllocationRefresher,
) *BudgetInteractor {
	l := log.GetLogger()
	return &BudgetInteractor{
		awardRepository:       awardRepository,
		lineRepository:        lineRepository,
		transactionRepository: transactionRepository,
		subawardRepository:    subawardRepository,
		refresher:             refresher,
		logger:                &l,
	}
}

// Status returns the per-category ledger view plus award-level totals. For
// an approved award the allocator runs first, so an edited breakdown or a
// new subaward is reflected immediately; the rerun only overwrites
// allocated figures and is idempotent.
func (i *BudgetInteractor) Status(ctx context.Context, actor *models.User, awardID string) (*budget.AwardStatus, error) {
	award, err := i.awardRepository.GetByID(ctx, awardID)
	if err != nil {
		return nil, err
	}
	if !award.OwnedBy(actor) && !actor.Role.CanApprove() {
		return nil, apperrors.NewForbiddenError("no access to this award")
	}

	if award.Status == models.AwardApproved {
		if err = i.refresher.Refresh(ctx, award); err != nil {
			return nil, err
		}
	}

	lines, err := i.lineRepository.ListByAward(ctx, awardID)
	if err != nil {
		return nil, err
	}
	approvedSubawards, err := i.subawardRepository.SumApproved(ctx, awardID)
	if err != nil {
		return nil, err
	}

	status := budget.Compose(lines, approvedSubawards)
	return &status, nil
}

// Recompute replays the award's transaction set and overwrites the
// spent/committed figures with the result. The replay must agree with the
// incrementally maintained rows; running it is a consistency check, not a
// repair path, which is why it is admin-only.
func (i *BudgetInteractor) Recompute(ctx context.Context, actor *models.User, awardID string) error {
	if !actor.Role.IsAdmin() {
		return apperrors.NewForbiddenError("only admins may recompute the ledger")
	}

	if _, err := i.awardRepository.GetByID(ctx, awardID); err != nil {
		return err
	}

	lines, err := i.lineRepository.ListByAward(ctx, awardID)
	if err != nil {
		return err
	}
	txns, err := i.transactionRepository.ListByAward(ctx, awardID)
	if err != nil {
		return err
	}

	replayed := budget.Replay(lines, txns)
	return i.lineRepository.ReplaceFigures(ctx, awardID, replayed)
}
