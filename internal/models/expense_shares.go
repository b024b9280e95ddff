package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// ExpenseShare is one member's portion of a group expense. The stored
// share_amount is never negative.
type ExpenseShare struct {
	ExpenseID   int             `json:"expense_id,omitempty" db:"expense_id,omitempty"`
	UserID      string          `json:"user_id,omitempty" db:"user_id,omitempty"`
	ShareAmount decimal.Decimal `json:"share_amount" db:"share_amount"`
	Paid        bool            `json:"paid" db:"paid"`
	LastUpdated sql.NullString  `json:"last_updated,omitempty" db:"last_updated,omitempty"`
}
