package mysqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"expensor/internal/models"
	"expensor/internal/storage"
)

// SettleShare marks the user's own share of an expense as paid and
// returns the updated row. Settling an already-paid share succeeds.
func (s *Store) SettleShare(ctx context.Context, expenseID int, userID string) (*models.ExpenseShare, error) {
	_, err := s.db.ExecContext(ctx, `
		UPDATE group_expense_shares
		SET paid = TRUE, last_updated = NOW()
		WHERE expense_id = ? AND user_id = ?
	`, expenseID, userID)
	if err != nil {
		return nil, fmt.Errorf("settle share: %w", err)
	}

	var share models.ExpenseShare
	err = s.db.QueryRowContext(ctx, `
		SELECT expense_id, user_id, share_amount, paid, last_updated
		FROM group_expense_shares
		WHERE expense_id = ? AND user_id = ?
	`, expenseID, userID).
		Scan(&share.ExpenseID, &share.UserID, &share.ShareAmount, &share.Paid, &share.LastUpdated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("read settled share: %w", err)
	}
	return &share, nil
}
