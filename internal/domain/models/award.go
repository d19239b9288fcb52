package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AwardStatus string

const (
	AwardDraft    AwardStatus = "Draft"
	AwardPending  AwardStatus = "Pending"
	AwardApproved AwardStatus = "Approved"
	AwardDeclined AwardStatus = "Declined"
)

type Award struct {
	ID        string          `db:"award_id"`
	Title     string          `db:"title"`
	Amount    decimal.Decimal `db:"amount"`
	Breakdown Breakdown       `db:"breakdown"`
	Status    AwardStatus     `db:"status"`
	CreatedBy string          `db:"created_by"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// OwnedBy reports whether the user may act on the award as its owner.
// Admins have override access to every award.
func (a *Award) OwnedBy(u *User) bool {
	return a.CreatedBy == u.ID || u.Role.IsAdmin()
}
