package models

import "github.com/shopspring/decimal"

type GroupMember struct {
	GroupID           int             `json:"group_id,omitempty" db:"group_id,omitempty"`
	UserID            string          `json:"user_id,omitempty" db:"user_id,omitempty"`
	ContributedAmount decimal.Decimal `json:"contributed_amount" db:"contributed_amount"`
	OwedAmount        decimal.Decimal `json:"owed_amount" db:"owed_amount"`
	SettledAmount     decimal.Decimal `json:"settled_amount" db:"settled_amount"`
}
