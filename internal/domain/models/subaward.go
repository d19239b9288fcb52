package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubawardStatus string

const (
	SubawardPending  SubawardStatus = "Pending"
	SubawardApproved SubawardStatus = "Approved"
	SubawardDeclined SubawardStatus = "Declined"
)

// Subaward is a sub-grant carved out of an approved award's amount. The sum
// of non-Declined subawards never exceeds the parent award's amount.
type Subaward struct {
	ID               string          `db:"subaward_id"`
	AwardID          string          `db:"award_id"`
	RecipientName    string          `db:"recipient_name"`
	RecipientContact string          `db:"recipient_contact"`
	RecipientEmail   string          `db:"recipient_email"`
	Amount           decimal.Decimal `db:"amount"`
	Description      string          `db:"description"`
	Status           SubawardStatus  `db:"status"`
	CreatedBy        string          `db:"created_by"`
	CreatedAt        time.Time       `db:"created_at"`
}
