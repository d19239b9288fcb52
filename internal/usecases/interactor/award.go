package interactor

import (
	"context"

	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/grandguard/budget-service/internal/domain/repositories"
	apperrors "github.com/grandguard/budget-service/internal/errors"
	"github.com/grandguard/budget-service/internal/metrics"
	"github.com/grandguard/budget-service/internal/usecases/dtos"
	"github.com/grandguard/budget-service/pkg/log"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AwardInteractor owns the award lifecycle: Draft -> Pending -> Approved or
// Declined. Approval is gated on the institutional pool cap and seeds the
// award's budget lines through the allocator.
type AwardInteractor struct {
	awardRepository repositories.AwardRepository
	refresher       *AllocationRefresher
	poolCap         decimal.Decimal
	metrics         *metrics.Metrics
	logger          *zerolog.Logger
}

func NewAwardInteractor(awardRepository repositories.AwardRepository, refresher *AllocationRefresher, poolCap decimal.Decimal, m *metrics.Metrics) *AwardInteractor {
	l := log.GetLogger()
	return &AwardInteractor{
		awardRepository: awardRepository,
		refresher:       refresher,
		poolCap:         poolCap,
		metrics:         m,
		logger:          &l,
	}
}

func (i *AwardInteractor) Create(ctx context.Context, actor *models.User, dto *dtos.AwardDTO) (*models.Award, error) {
	if dto.Title == "" {
		return nil, apperrors.NewBadRequestError("Title is required")
	}
	amount, err := parseAmount(dto.Amount)
	if err != nil {
		return nil, err
	}

	award := &models.Award{
		ID:        uuid.New().String(),
		Title:     dto.Title,
		Amount:    amount,
		Breakdown: dto.Breakdown,
		Status:    models.AwardDraft,
		CreatedBy: actor.ID,
	}

	if err = i.awardRepository.Create(ctx, award); err != nil {
		i.logger.Error().Err(err).Msg("Failed to create award")
		return nil, err
	}
	return award, nil
}

func (i *AwardInteractor) Get(ctx context.Context, actor *models.User, id string) (*models.Award, error) {
	award, err := i.awardRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !award.OwnedBy(actor) && !actor.Role.CanApprove() {
		return nil, apperrors.NewForbiddenError("no access to this award")
	}
	return award, nil
}

func (i *AwardInteractor) List(ctx context.Context, actor *models.User) ([]models.Award, error) {
	if actor.Role.CanApprove() {
		return i.awardRepository.List(ctx)
	}
	return i.awardRepository.ListByOwner(ctx, actor.ID)
}

// Update edits the award's title, amount, or itemized breakdown. An edit of
// an already approved award re-derives the category allocations.
func (i *AwardInteractor) Update(ctx context.Context, actor *models.User, id string, dto *dtos.AwardDTO) (*models.Award, error) {
	award, err := i.awardRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !award.OwnedBy(actor) {
		return nil, apperrors.NewForbiddenError("only the award owner may edit it")
	}
	if dto.Title == "" {
		return nil, apperrors.NewBadRequestError("Title is required")
	}
	amount, err := parseAmount(dto.Amount)
	if err != nil {
		return nil, err
	}

	award.Title = dto.Title
	award.Amount = amount
	award.Breakdown = dto.Breakdown

	if err = i.awardRepository.Update(ctx, award); err != nil {
		return nil, err
	}

	if award.Status == models.AwardApproved {
		if err = i.refresher.Refresh(ctx, award); err != nil {
			return nil, err
		}
	}
	return award, nil
}

// Submit moves a draft award into the approval queue.
func (i *AwardInteractor) Submit(ctx context.Context, actor *models.User, id string) error {
	award, err := i.awardRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !award.OwnedBy(actor) {
		return apperrors.NewForbiddenError("only the award owner may submit it")
	}

	ok, err := i.awardRepository.UpdateStatus(ctx, id, models.AwardDraft, models.AwardPending)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewStateConflictError("only draft awards can be submitted")
	}
	return nil
}

// Approve admits the award against the pool cap, flips it to Approved, and
// seeds its budget lines. The admission check and the status flip are one
// atomic statement in the repository.
func (i *AwardInteractor) Approve(ctx context.Context, actor *models.User, id string) error {
	if !actor.Role.IsAdmin() {
		return apperrors.NewForbiddenError("only admins may approve awards")
	}

	award, err := i.awardRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if award.Status != models.AwardPending {
		return apperrors.NewStateConflictError("award is not pending approval")
	}

	row, err := i.awardRepository.ApproveWithinPool(ctx, id, i.poolCap)
	if err != nil {
		return err
	}
	if !row.Admitted {
		i.metrics.RejectPool()
		return apperrors.NewPoolExceededError(row.PoolRemaining, row.Required)
	}

	i.metrics.AwardsApproved.Inc()
	i.logger.Info().Str("award_id", id).
		Str("pool_remaining", row.PoolRemaining.Sub(row.Required).StringFixed(2)).
		Msg("award approved")

	award.Status = models.AwardApproved
	return i.refresher.Refresh(ctx, award)
}

func (i *AwardInteractor) Decline(ctx context.Context, actor *models.User, id string) error {
	if !actor.Role.IsAdmin() {
		return apperrors.NewForbiddenError("only admins may decline awards")
	}

	ok, err := i.awardRepository.UpdateStatus(ctx, id, models.AwardPending, models.AwardDeclined)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewStateConflictError("award is not pending approval")
	}
	return nil
}

// Delete removes an award that never reached approval.
func (i *AwardInteractor) Delete(ctx context.Context, actor *models.User, id string) error {
	award, err := i.awardRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !award.OwnedBy(actor) {
		return apperrors.NewForbiddenError("only the award owner may delete it")
	}
	if award.Status != models.AwardDraft && award.Status != models.AwardDeclined {
		return apperrors.NewStateConflictError("only draft or declined awards can be deleted")
	}
	return i.awardRepository.Delete(ctx, id)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, apperrors.NewBadRequestError("Invalid amount")
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, apperrors.NewBadRequestError("Amount must be positive")
	}
	return amount.Round(2), nil
}
