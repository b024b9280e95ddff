package mysqlstore

import (
	"context"
	"fmt"

	"expensor/internal/models"

	"github.com/shopspring/decimal"
)

// Personal expense ledger operations.

func (s *Store) AddExpense(ctx context.Context, userID, description string, amount decimal.Decimal, categoryID int, date string) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, description, amount, category_id, date)
		VALUES (?, ?, ?, ?, ?)
	`, userID, description, amount, categoryID, date)
	if err != nil {
		return 0, fmt.Errorf("add expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add expense id: %w", err)
	}
	return int(id), nil
}

// RemoveExpense deletes the expense only when it belongs to the
// requesting user.
func (s *Store) RemoveExpense(ctx context.Context, expenseID int, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND user_id = ?", expenseID, userID)
	if err != nil {
		return false, fmt.Errorf("remove expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove expense rows: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) ListExpenses(ctx context.Context, userID string, limit int) ([]models.Expense, error) {
	query := `
		SELECT id, user_id, description, amount, category_id, date, created_at
		FROM expenses
		WHERE user_id = ?
		ORDER BY date DESC, id DESC
	`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Amount, &e.CategoryID, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
