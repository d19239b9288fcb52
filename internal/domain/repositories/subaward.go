package repositories

import (
	"context"

	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

type SubawardRepository interface {
	GetByID(ctx context.Context, id string) (*models.Subaward, error)
	ListByAward(ctx context.Context, awardID string) ([]models.Subaward, error)
	// CreateWithinCap inserts the subaward as Pending only if the sum of the
	// award's non-Declined subawards plus this amount stays within the
	// award's total. Check and insert are one atomic statement.
	CreateWithinCap(ctx context.Context, sub *models.Subaward, awardAmount decimal.Decimal) (CapAdmissionRow, error)
	UpdateStatus(ctx context.Context, id string, from, to models.SubawardStatus) (bool, error)
	// SumActive sums non-Declined subawards; SumApproved sums Approved ones.
	SumActive(ctx context.Context, awardID string) (decimal.Decimal, error)
	SumApproved(ctx context.Context, awardID string) (decimal.Decimal, error)
}

type CapAdmissionRow struct {
	Admitted bool
	Active   decimal.Decimal
}
