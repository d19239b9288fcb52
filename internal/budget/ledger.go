package budget

import (
	"github.com/grandguard/budget-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

// CategoryStatus is the read-side view of one budget line. Remaining is
// clamped at zero here; admission checks work on the unclamped figure.
type CategoryStatus struct {
	Allocated decimal.Decimal `json:"allocated"`
	Spent     decimal.Decimal `json:"spent"`
	Committed decimal.Decimal `json:"committed"`
	Remaining decimal.Decimal `json:"remaining"`
}

// AwardStatus is the full ledger view of one award. Totals sum the category
// figures; approved subawards are folded into the committed total, since a
// subaward is an obligation exactly like an approved transaction.
type AwardStatus struct {
	Categories map[models.Category]CategoryStatus `json:"categories"`
	Totals     CategoryStatus                     `json:"totals"`
}

// Compose builds the status view from the incrementally maintained ledger
// rows. approvedSubawards is the sum of the award's Approved subawards.
func Compose(lines []models.BudgetLine, approvedSubawards decimal.Decimal) AwardStatus {
	status := AwardStatus{Categories: make(map[models.Category]CategoryStatus, len(lines))}

	for _, line := range lines {
		cs := CategoryStatus{
			Allocated: line.Allocated,
			Spent:     line.Spent,
			Committed: line.Committed,
			Remaining: clamp(line.Remaining()),
		}
		status.Categories[line.Category] = cs

		status.Totals.Allocated = status.Totals.Allocated.Add(cs.Allocated)
		status.Totals.Spent = status.Totals.Spent.Add(cs.Spent)
		status.Totals.Committed = status.Totals.Committed.Add(cs.Committed)
	}

	status.Totals.Committed = status.Totals.Committed.Add(approvedSubawards)
	status.Totals.Remaining = clamp(status.Totals.Allocated.
		Sub(status.Totals.Spent).
		Sub(status.Totals.Committed))

	return status
}

// Replay recomputes spent and committed for every category from the
// transaction set: Approved transactions are committed, Paid transactions
// are spent, Pending and Declined ones contribute nothing. Allocated is
// carried over from the existing lines untouched; categories that appear
// only in transactions get a zero-allocation line. The result must always
// agree with the incrementally maintained rows.
func Replay(lines []models.BudgetLine, txns []models.Transaction) []models.BudgetLine {
	byCategory := make(map[models.Category]*models.BudgetLine, len(lines))
	order := make([]models.Category, 0, len(lines))

	for _, line := range lines {
		l := line
		l.Spent = decimal.Zero
		l.Committed = decimal.Zero
		byCategory[l.Category] = &l
		order = append(order, l.Category)
	}

	for _, txn := range txns {
		line, ok := byCategory[txn.Category]
		if !ok {
			line = &models.BudgetLine{AwardID: txn.AwardID, Category: txn.Category}
			byCategory[txn.Category] = line
			order = append(order, txn.Category)
		}
		switch txn.Status {
		case models.TransactionApproved:
			line.Committed = line.Committed.Add(txn.Amount)
		case models.TransactionPaid:
			line.Spent = line.Spent.Add(txn.Amount)
		}
	}

	replayed := make([]models.BudgetLine, 0, len(order))
	for _, cat := range order {
		replayed = append(replayed, *byCategory[cat])
	}
	return replayed
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
