package storage

import (
	"context"
	"errors"
	"fmt"

	"expensor/internal/models"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound signals that a referenced group or expense does not
	// exist.
	ErrNotFound = errors.New("not found")

	// ErrNotAdmin signals that the requester is not the admin of the
	// group owning the target row. No mutation has occurred.
	ErrNotAdmin = errors.New("requester is not the group admin")

	// ErrConflict signals a duplicate membership insert.
	ErrConflict = errors.New("already exists")
)

// NegativeShareError is returned when a share adjustment would drive
// the stored amount below zero. Current is the amount that could
// legally be subtracted.
type NegativeShareError struct {
	Current decimal.Decimal
}

func (e *NegativeShareError) Error() string {
	return fmt.Sprintf("share would go negative, current share is %s", e.Current.StringFixed(2))
}

// ShareRow is a share joined with the member's display details, as
// returned by ListShares.
type ShareRow struct {
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	LastUpdated string          `json:"last_updated"`
	UserName    string          `json:"user_name"`
	UserEmail   string          `json:"user_email"`
}

// Contact is the name/email pair used for notification lookups.
type Contact struct {
	Name  string
	Email string
}

// Store is the narrow transactional contract the services consume.
// Every mutating primitive combines its ownership predicate with the
// write in a single round-trip or transaction, so an admin change
// between check and write cannot slip through.
type Store interface {
	// GetGroupAdmin resolves the admin of a group, or ErrNotFound.
	GetGroupAdmin(ctx context.Context, groupID int) (string, error)

	// GetExpenseGroup resolves the group owning an expense, or
	// ErrNotFound.
	GetExpenseGroup(ctx context.Context, expenseID int) (int, error)

	// AdjustShare adds delta to the (expenseID, userID) share,
	// creating it when absent. Runs as one transaction that locks the
	// owning group row, re-checks that requesterID is still admin, and
	// rejects results below zero with *NegativeShareError.
	AdjustShare(ctx context.Context, expenseID int, userID string, delta decimal.Decimal, requesterID string) error

	// SetShare overwrites the (expenseID, userID) share with an
	// absolute amount (>= 0), same envelope as AdjustShare.
	SetShare(ctx context.Context, expenseID int, userID string, amount decimal.Decimal, requesterID string) error

	// RemoveShare deletes the share row, conditioned on requesterID
	// being the owning group's admin in the same statement. Deleting
	// an absent share is not an error.
	RemoveShare(ctx context.Context, expenseID int, userID string, requesterID string) error

	// ListShares returns all shares of an expense joined with user
	// details. Order is unspecified.
	ListShares(ctx context.Context, expenseID int) ([]ShareRow, error)

	// AddMember inserts a membership row with zeroed counters.
	// A duplicate (groupID, userID) pair yields ErrConflict.
	AddMember(ctx context.Context, groupID int, userID string) error

	// RemoveMemberAsAdmin deletes the membership row only if
	// requesterID is the group admin, as a single conditioned
	// statement. Returns whether a row was removed; a false return
	// does not say which condition failed.
	RemoveMemberAsAdmin(ctx context.Context, groupID int, userID, requesterID string) (bool, error)

	// IsMember reports whether the membership row exists.
	IsMember(ctx context.Context, groupID int, userID string) (bool, error)

	// GetUserContact returns the user's display name and email, or
	// ErrNotFound.
	GetUserContact(ctx context.Context, userID string) (*Contact, error)

	// GetGroupInfo returns the group row, or ErrNotFound.
	GetGroupInfo(ctx context.Context, groupID int) (*models.Group, error)
}
