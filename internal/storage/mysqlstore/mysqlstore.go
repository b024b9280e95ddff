package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"expensor/internal/storage"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

// Duplicate primary key, raised on a second membership insert for the
// same (group_id, user_id).
const erDupEntry = 1062

// Foreign key constraint failure: the referenced group or user row is
// missing.
const erNoReferencedRow = 1452

// Store implements storage.Store on a MySQL/MariaDB pool.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetGroupAdmin(ctx context.Context, groupID int) (string, error) {
	var admin string
	err := s.db.QueryRowContext(ctx, "SELECT admin FROM `groups` WHERE id = ?", groupID).Scan(&admin)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("get group admin: %w", err)
	}
	return admin, nil
}

func (s *Store) GetExpenseGroup(ctx context.Context, expenseID int) (int, error) {
	var groupID int
	err := s.db.QueryRowContext(ctx, "SELECT group_id FROM group_expenses WHERE id = ?", expenseID).Scan(&groupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("get expense group: %w", err)
	}
	return groupID, nil
}

// AdjustShare applies the delta inside a single transaction. The
// owning group row is locked before the write, so the admin resolved
// here cannot change underneath the upsert.
func (s *Store) AdjustShare(ctx context.Context, expenseID int, userID string, delta decimal.Decimal, requesterID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin adjust share: %w", err)
	}

	current, err := lockShareForAdmin(ctx, tx, expenseID, userID, requesterID)
	if err != nil {
		tx.Rollback()
		return err
	}

	if current.Add(delta).IsNegative() {
		tx.Rollback()
		return &storage.NegativeShareError{Current: current}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO group_expense_shares (expense_id, user_id, share_amount, paid, last_updated)
		VALUES (?, ?, ?, FALSE, NOW())
		ON DUPLICATE KEY UPDATE share_amount = share_amount + ?, last_updated = NOW()
	`, expenseID, userID, delta, delta)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("upsert share: %w", err)
	}

	return tx.Commit()
}

// SetShare overwrites the share with an absolute amount, same locking
// envelope as AdjustShare.
func (s *Store) SetShare(ctx context.Context, expenseID int, userID string, amount decimal.Decimal, requesterID string) error {
	if amount.IsNegative() {
		return &storage.NegativeShareError{Current: decimal.Zero}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set share: %w", err)
	}

	if _, err := lockShareForAdmin(ctx, tx, expenseID, userID, requesterID); err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO group_expense_shares (expense_id, user_id, share_amount, paid, last_updated)
		VALUES (?, ?, ?, FALSE, NOW())
		ON DUPLICATE KEY UPDATE share_amount = ?, last_updated = NOW()
	`, expenseID, userID, amount, amount)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("upsert share: %w", err)
	}

	return tx.Commit()
}

// lockShareForAdmin locks the group owning the expense, verifies the
// requester is its admin, and returns the current share amount (zero
// when the row is absent) with the share row locked.
func lockShareForAdmin(ctx context.Context, tx *sql.Tx, expenseID int, userID, requesterID string) (decimal.Decimal, error) {
	var admin string
	err := tx.QueryRowContext(ctx, `
		SELECT g.admin
		FROM `+"`groups`"+` g
		JOIN group_expenses e ON g.id = e.group_id
		WHERE e.id = ?
		FOR UPDATE
	`, expenseID).Scan(&admin)
	if err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, storage.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("resolve expense admin: %w", err)
	}

	if admin != requesterID {
		return decimal.Zero, storage.ErrNotAdmin
	}

	var current decimal.Decimal
	err = tx.QueryRowContext(ctx, `
		SELECT share_amount FROM group_expense_shares
		WHERE expense_id = ? AND user_id = ?
		FOR UPDATE
	`, expenseID, userID).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return decimal.Zero, fmt.Errorf("read current share: %w", err)
	}

	return current, nil
}

// RemoveShare is a single admin-conditioned delete; a vanished or
// never-present share row is not an error.
func (s *Store) RemoveShare(ctx context.Context, expenseID int, userID string, requesterID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE ges FROM group_expense_shares ges
		JOIN group_expenses e ON e.id = ges.expense_id
		JOIN `+"`groups`"+` g ON g.id = e.group_id
		WHERE ges.expense_id = ? AND ges.user_id = ? AND g.admin = ?
	`, expenseID, userID, requesterID)
	if err != nil {
		return fmt.Errorf("remove share: %w", err)
	}
	return nil
}

func (s *Store) ListShares(ctx context.Context, expenseID int) ([]storage.ShareRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ges.user_id, ges.share_amount, ges.last_updated, u.name, u.email
		FROM group_expense_shares ges
		JOIN users u ON ges.user_id = u.microsoft_id
		WHERE ges.expense_id = ?
	`, expenseID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	shares := make([]storage.ShareRow, 0)
	for rows.Next() {
		var row storage.ShareRow
		var lastUpdated sql.NullString
		if err := rows.Scan(&row.UserID, &row.Amount, &lastUpdated, &row.UserName, &row.UserEmail); err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		row.LastUpdated = lastUpdated.String
		shares = append(shares, row)
	}
	return shares, rows.Err()
}

func (s *Store) AddMember(ctx context.Context, groupID int, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, contributed_amount, owed_amount, settled_amount)
		VALUES (?, ?, 0, 0, 0)
	`, groupID, userID)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) {
			switch mysqlErr.Number {
			case erDupEntry:
				return storage.ErrConflict
			case erNoReferencedRow:
				return storage.ErrNotFound
			}
		}
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// RemoveMemberAsAdmin deletes the membership row only when the
// requester is the group admin, in one statement. A false return does
// not distinguish "not admin" from "not a member".
func (s *Store) RemoveMemberAsAdmin(ctx context.Context, groupID int, userID, requesterID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM group_members
		WHERE group_id = ? AND user_id = ?
		AND EXISTS (
			SELECT 1 FROM `+"`groups`"+` g
			WHERE g.id = ? AND g.admin = ?
		)
	`, groupID, userID, groupID, requesterID)
	if err != nil {
		return false, fmt.Errorf("remove member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove member rows: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) IsMember(ctx context.Context, groupID int, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)",
		groupID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return exists, nil
}

func (s *Store) GetUserContact(ctx context.Context, userID string) (*storage.Contact, error) {
	var c storage.Contact
	err := s.db.QueryRowContext(ctx,
		"SELECT name, email FROM users WHERE microsoft_id = ?", userID).Scan(&c.Name, &c.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user contact: %w", err)
	}
	return &c, nil
}
