package services

import (
	"context"
	"errors"
	"fmt"

	"expensor/internal/storage"

	"github.com/shopspring/decimal"
)

// ErrMissingFields is returned when a required identifier is absent.
var ErrMissingFields = errors.New("expense_id and user_id are required")

// ErrNegativeAmount rejects an absolute share assignment below zero.
var ErrNegativeAmount = errors.New("amount cannot be negative")

// QuotaError rejects a delta that would drive a stored share negative.
// Attempted is the subtraction that was requested, Current the amount
// that could legally be subtracted.
type QuotaError struct {
	Attempted decimal.Decimal
	Current   decimal.Decimal
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("Impossibile sottrarre %s€. L'utente ha una quota attuale di soli %s€.",
		e.Attempted.Abs().StringFixed(2), e.Current.StringFixed(2))
}

// ShareSplitEngine maintains the mapping of a group expense's total to
// per-member shares. Only the admin of the group owning the expense
// may mutate shares; the store primitives make that check atomic with
// each write.
type ShareSplitEngine struct {
	store storage.Store
}

func NewShareSplitEngine(store storage.Store) *ShareSplitEngine {
	return &ShareSplitEngine{store: store}
}

// AssignOrAdjustShare applies a signed delta to the target user's
// share of the expense. The delta is a variation, not a final total:
// +10 then -4 leaves a share of 6. A delta that would take the share
// below zero fails with *QuotaError and mutates nothing.
func (e *ShareSplitEngine) AssignOrAdjustShare(ctx context.Context, expenseID int, targetUserID string, delta decimal.Decimal, requesterID string) error {
	if expenseID <= 0 || targetUserID == "" {
		return ErrMissingFields
	}

	err := e.store.AdjustShare(ctx, expenseID, targetUserID, delta, requesterID)

	var negErr *storage.NegativeShareError
	if errors.As(err, &negErr) {
		return &QuotaError{Attempted: delta, Current: negErr.Current}
	}
	return err
}

// SetShare assigns an absolute share amount, replacing whatever the
// user currently holds. Unlike AssignOrAdjustShare it is safe to
// retry: repeating the call leaves the same stored value.
func (e *ShareSplitEngine) SetShare(ctx context.Context, expenseID int, targetUserID string, amount decimal.Decimal, requesterID string) error {
	if expenseID <= 0 || targetUserID == "" {
		return ErrMissingFields
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	return e.store.SetShare(ctx, expenseID, targetUserID, amount, requesterID)
}

// RemoveShare deletes the target user's share of the expense. Once the
// requester is confirmed as admin, removing an absent share succeeds
// (idempotent).
func (e *ShareSplitEngine) RemoveShare(ctx context.Context, expenseID int, targetUserID string, requesterID string) error {
	if expenseID <= 0 || targetUserID == "" {
		return ErrMissingFields
	}

	groupID, err := e.store.GetExpenseGroup(ctx, expenseID)
	if err != nil {
		return err
	}
	admin, err := e.store.GetGroupAdmin(ctx, groupID)
	if err != nil {
		return err
	}
	if admin != requesterID {
		return storage.ErrNotAdmin
	}

	// The delete itself is still admin-conditioned, so an admin change
	// after the check above cannot let the stale requester through.
	return e.store.RemoveShare(ctx, expenseID, targetUserID, requesterID)
}

// ListShares returns the expense's shares joined with user details.
// Any authenticated caller may read them.
func (e *ShareSplitEngine) ListShares(ctx context.Context, expenseID int) ([]storage.ShareRow, error) {
	if expenseID <= 0 {
		return nil, ErrMissingFields
	}
	return e.store.ListShares(ctx, expenseID)
}
