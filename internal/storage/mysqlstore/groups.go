package mysqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"expensor/internal/models"
	"expensor/internal/storage"

	"github.com/shopspring/decimal"
)

// MemberRow is a membership row joined with the member's user record.
type MemberRow struct {
	models.GroupMember
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Store) GetGroupInfo(ctx context.Context, groupID int) (*models.Group, error) {
	var g models.Group
	err := s.db.QueryRowContext(ctx,
		"SELECT id, admin, name, created_by, created_at FROM `groups` WHERE id = ?", groupID).
		Scan(&g.ID, &g.Admin, &g.Name, &g.CreatedBy, &g.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return &g, nil
}

// CreateGroup inserts a group with the creator as both created_by and
// admin.
func (s *Store) CreateGroup(ctx context.Context, name, creatorID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO `groups` (name, created_by, admin) VALUES (?, ?, ?)",
		name, creatorID, creatorID)
	if err != nil {
		return 0, fmt.Errorf("create group: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create group id: %w", err)
	}
	return int(id), nil
}

// DeleteGroupAsAdmin removes the group only when the requester is its
// admin; members, expenses and shares go with it via the cascading
// foreign keys.
func (s *Store) DeleteGroupAsAdmin(ctx context.Context, groupID int, requesterID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM `groups` WHERE id = ? AND admin = ?", groupID, requesterID)
	if err != nil {
		return false, fmt.Errorf("delete group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete group rows: %w", err)
	}
	return affected > 0, nil
}

// ListGroupsForUser returns every group the user administers or belongs
// to.
func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT g.id, g.admin, g.name, g.created_by, g.created_at
		FROM `+"`groups`"+` g
		LEFT JOIN group_members gm ON gm.group_id = g.id
		WHERE g.admin = ? OR gm.user_id = ?
	`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Admin, &g.Name, &g.CreatedBy, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *Store) ListGroupMembers(ctx context.Context, groupID int) ([]MemberRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT gm.user_id, u.name, u.email, gm.contributed_amount, gm.owed_amount, gm.settled_amount
		FROM group_members gm
		JOIN users u ON gm.user_id = u.microsoft_id
		WHERE gm.group_id = ?
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]MemberRow, 0)
	for rows.Next() {
		var m MemberRow
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.ContributedAmount, &m.OwedAmount, &m.SettledAmount); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.GroupID = groupID
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddGroupExpense inserts an expense for the group with the admin as
// payer. Admin verification and insert run in one transaction with the
// group row locked.
func (s *Store) AddGroupExpense(ctx context.Context, groupID int, description string, amount decimal.Decimal, requesterID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin add expense: %w", err)
	}

	var admin string
	err = tx.QueryRowContext(ctx, "SELECT admin FROM `groups` WHERE id = ? FOR UPDATE", groupID).Scan(&admin)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("resolve group admin: %w", err)
	}
	if admin != requesterID {
		tx.Rollback()
		return 0, storage.ErrNotAdmin
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO group_expenses (group_id, description, amount, paid_by) VALUES (?, ?, ?, ?)",
		groupID, description, amount, requesterID)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("insert expense id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit add expense: %w", err)
	}
	return int(id), nil
}

// RemoveGroupExpenseAsAdmin deletes the expense only if it belongs to
// the named group and the requester is that group's admin, in one
// statement. Shares cascade away with it.
func (s *Store) RemoveGroupExpenseAsAdmin(ctx context.Context, groupID, expenseID int, requesterID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE ge FROM group_expenses ge
		JOIN `+"`groups`"+` g ON g.id = ge.group_id
		WHERE ge.id = ? AND ge.group_id = ? AND g.admin = ?
	`, expenseID, groupID, requesterID)
	if err != nil {
		return false, fmt.Errorf("remove expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove expense rows: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) ListGroupExpenses(ctx context.Context, groupID int) ([]models.GroupExpense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, description, amount, paid_by, created_at
		FROM group_expenses
		WHERE group_id = ?
		ORDER BY created_at DESC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]models.GroupExpense, 0)
	for rows.Next() {
		var e models.GroupExpense
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Description, &e.Amount, &e.PaidBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Store) GetGroupExpense(ctx context.Context, expenseID int) (*models.GroupExpense, error) {
	var e models.GroupExpense
	err := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, description, amount, paid_by, created_at
		FROM group_expenses WHERE id = ?
	`, expenseID).Scan(&e.ID, &e.GroupID, &e.Description, &e.Amount, &e.PaidBy, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}
