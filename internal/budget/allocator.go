package budget

import (
	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

// Allocate derives per-category allocated amounts from an award's itemized
// breakdown. subawarded is the sum of the award's non-Declined subawards,
// computed by the caller and merged in here. The residual between the award
// total and the derived categories lands in Other; an award with no
// breakdown at all is allocated entirely to Other.
//
// Allocate is pure: running it twice with unchanged input yields the same
// mapping. Only positive amounts appear in the result.
func Allocate(total decimal.Decimal, b models.Breakdown, subawarded decimal.Decimal) map[models.Category]decimal.Decimal {
	derived := map[models.Category]decimal.Decimal{}

	personnel := decimal.Zero
	for _, p := range b.Personnel {
		personnel = personnel.Add(p.Cost())
	}
	derived[models.CategoryPersonnel] = personnel

	travel := decimal.Zero
	for _, t := range b.Travel {
		travel = travel.Add(t.Cost())
	}
	derived[models.CategoryTravel] = travel

	for _, item := range b.Items {
		cat := item.Bucket()
		derived[cat] = derived[cat].Add(item.Cost)
	}

	derived[models.CategorySubawards] = subawarded

	sum := decimal.Zero
	for _, amount := range derived {
		sum = sum.Add(amount)
	}
	if residual := total.Sub(sum); residual.IsPositive() {
		derived[models.CategoryOther] = residual
	}

	alloc := make(map[models.Category]decimal.Decimal, len(derived))
	for cat, amount := range derived {
		if amount.IsPositive() {
			alloc[cat] = amount
		}
	}
	return alloc
}
