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
)

// SubawardInteractor carves sub-grants out of an approved award. Creation
// is gated on the per-award cap: non-Declined subawards never sum past the
// award's amount.
type SubawardInteractor struct {
	subawardRepository repositories.SubawardRepository
	awardRepository    repositories.AwardRepository
	metrics            *metrics.Metrics
	logger             *zerolog.Logger
}

func NewSubawardInteractor(subawardRepository repositories.SubawardRepository, awardRepository repositories.AwardRepository, m *metrics.Metrics) *SubawardInteractor {
	l := log.GetLogger()
	return &SubawardInteractor{
		subawardRepository: subawardRepository,
		awardRepository:    awardRepository,
		metrics:            m,
		logger:             &l,
	}
}

func (i *SubawardInteractor) Create(ctx context.Context, actor *models.User, awardID string, dto *dtos.SubawardDTO) (*models.Subaward, error) {
	if dto.RecipientName == "" {
		return nil, apperrors.NewBadRequestError("Recipient name is required")
	}
	amount, err := parseAmount(dto.Amount)
	if err != nil {
		return nil, err
	}

	award, err := i.awardRepository.GetByID(ctx, awardID)
	if err != nil {
		return nil, err
	}
	if award.Status != models.AwardApproved {
		return nil, apperrors.NewStateConflictError("only approved awards can have subawards")
	}
	if !award.OwnedBy(actor) {
		return nil, apperrors.NewForbiddenError("only the award owner may create subawards")
	}

	sub := &models.Subaward{
		ID:               uuid.New().String(),
		AwardID:          awardID,
		RecipientName:    dto.RecipientName,
		RecipientContact: dto.RecipientContact,
		RecipientEmail:   dto.RecipientEmail,
		Amount:           amount,
		Description:      dto.Description,
		Status:           models.SubawardPending,
		CreatedBy:        actor.ID,
	}

	row, err := i.subawardRepository.CreateWithinCap(ctx, sub, award.Amount)
	if err != nil {
		return nil, err
	}
	if !row.Admitted {
		i.metrics.RejectSubawardCap()
		return nil, apperrors.NewSubawardCapError(row.Active, amount, award.Amount)
	}

	i.metrics.SubawardsCreated.Inc()
	return sub, nil
}

func (i *SubawardInteractor) Approve(ctx context.Context, actor *models.User, id string) error {
	return i.transition(ctx, actor, id, models.SubawardApproved)
}

func (i *SubawardInteractor) Decline(ctx context.Context, actor *models.User, id string) error {
	return i.transition(ctx, actor, id, models.SubawardDeclined)
}

func (i *SubawardInteractor) List(ctx context.Context, actor *models.User, awardID string) ([]models.Subaward, error) {
	award, err := i.awardRepository.GetByID(ctx, awardID)
	if err != nil {
		return nil, err
	}
	if !award.OwnedBy(actor) && !actor.Role.CanApprove() {
		return nil, apperrors.NewForbiddenError("no access to this award")
	}
	return i.subawardRepository.ListByAward(ctx, awardID)
}

func (i *SubawardInteractor) transition(ctx context.Context, actor *models.User, id string, to models.SubawardStatus) error {
	if !actor.Role.IsAdmin() {
		return apperrors.NewForbiddenError("only admins may process subawards")
	}

	if _, err := i.subawardRepository.GetByID(ctx, id); err != nil {
		return err
	}

	ok, err := i.subawardRepository.UpdateStatus(ctx, id, models.SubawardPending, to)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewStateConflictError("subaward already processed")
	}
	return nil
}
