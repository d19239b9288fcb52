package models

import "github.com/shopspring/decimal"

// BudgetLine is the per-award-per-category ledger row. Allocated is
// overwritten whenever the allocator reruns; spent and committed are
// mutated only by transaction and subaward state transitions.
type BudgetLine struct {
	ID        string          `db:"line_id"`
	AwardID   string          `db:"award_id"`
	Category  Category        `db:"category"`
	Allocated decimal.Decimal `db:"allocated_amount"`
	Spent     decimal.Decimal `db:"spent_amount"`
	Committed decimal.Decimal `db:"committed_amount"`
}

// Remaining is allocated - spent - committed, unclamped. Admission checks
// compare against this figure; display paths clamp it at zero.
func (l BudgetLine) Remaining() decimal.Decimal {
	return l.Allocated.Sub(l.Spent).Sub(l.Committed)
}
