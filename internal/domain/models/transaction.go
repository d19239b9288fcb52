package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "Pending"
	TransactionApproved TransactionStatus = "Approved"
	TransactionPaid     TransactionStatus = "Paid"
	TransactionDeclined TransactionStatus = "Declined"
)

// Terminal reports whether no further transition is allowed.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionPaid || s == TransactionDeclined
}

type Transaction struct {
	ID            string            `db:"transaction_id"`
	AwardID       string            `db:"award_id"`
	UserID        string            `db:"user_id"`
	Category      Category          `db:"category"`
	Description   string            `db:"description"`
	Amount        decimal.Decimal   `db:"amount"`
	DateSubmitted time.Time         `db:"date_submitted"`
	Status        TransactionStatus `db:"status"`
	Compliance    ComplianceResult  `db:"-"`
	CreatedAt     time.Time         `db:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at"`
}
