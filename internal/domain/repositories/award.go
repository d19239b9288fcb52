package repositories

import (
	"context"

	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

const (
	SerializationError   = "40001"
	UniqueViolationError = "23505"
)

type AwardRepository interface {
	GetByID(ctx context.Context, id string) (*models.Award, error)
	List(ctx context.Context) ([]models.Award, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Award, error)
	Create(ctx context.Context, award *models.Award) error
	Update(ctx context.Context, award *models.Award) error
	UpdateStatus(ctx context.Context, id string, from, to models.AwardStatus) (bool, error)
	Delete(ctx context.Context, id string) error
	// ApproveWithinPool flips the award from Pending to Approved only if the
	// sum of all other approved awards plus this award's amount stays within
	// poolCap. The check and the status write are one atomic statement.
	ApproveWithinPool(ctx context.Context, id string, poolCap decimal.Decimal) (PoolAdmissionRow, error)
	SumApproved(ctx context.Context, excludeID string) (decimal.Decimal, error)
}

type PoolAdmissionRow struct {
	Admitted      bool
	PoolRemaining decimal.Decimal
	Required      decimal.Decimal
}
