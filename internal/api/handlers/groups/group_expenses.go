package groups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"expensor/internal/storage"
	"expensor/pkg/utils"

	"github.com/shopspring/decimal"
)

// CreateGroupExpenseHandler records an expense against a group, paid
// by the caller. Admin only.
func CreateGroupExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	type request struct {
		GroupID     int             `json:"group_id"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
	}
	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Description = strings.TrimSpace(req.Description)
	if req.GroupID <= 0 || req.Description == "" {
		utils.WriteError(w, "group_id and description are required", http.StatusBadRequest)
		return
	}
	if !req.Amount.IsPositive() {
		utils.WriteError(w, "amount must be greater than zero", http.StatusBadRequest)
		return
	}

	store := groupStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := store.AddGroupExpense(ctx, req.GroupID, req.Description, req.Amount, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, storage.ErrNotAdmin) {
			utils.WriteError(w, "forbidden: not group admin", http.StatusForbidden)
			return
		}
		utils.Logger.Errorf("failed to add expense to group %d: %v", req.GroupID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "expense added successfully",
		"data": map[string]interface{}{
			"expense_id": id,
			"group_id":   req.GroupID,
			"paid_by":    userID,
		},
	})
}

// DeleteGroupExpenseHandler deletes an expense from a group (shares
// cascade). The expense must belong to the named group and the caller
// must be its admin.
func DeleteGroupExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	type request struct {
		GroupID   int `json:"group_id"`
		ExpenseID int `json:"expense_id"`
	}
	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.GroupID <= 0 || req.ExpenseID <= 0 {
		utils.WriteError(w, "group_id and expense_id are required", http.StatusBadRequest)
		return
	}

	store := groupStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	deleted, err := store.RemoveGroupExpenseAsAdmin(ctx, req.GroupID, req.ExpenseID, userID)
	if err != nil {
		utils.Logger.Errorf("failed to delete expense %d: %v", req.ExpenseID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !deleted {
		utils.WriteError(w, "forbidden: not group admin or expense not in group", http.StatusForbidden)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "expense deleted successfully",
	})
}

// ListGroupExpensesHandler lists a group's expenses, newest first.
func ListGroupExpensesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}
	groupID, ok := groupIDFromPath(w, r)
	if !ok {
		return
	}
	store := groupStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	group, err := store.GetGroupInfo(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching group %d: %v", groupID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	member, err := store.IsMember(ctx, groupID, userID)
	if err != nil {
		utils.Logger.Errorf("error checking membership: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !member && group.Admin != userID {
		utils.WriteError(w, "forbidden: you are not a member of this group", http.StatusForbidden)
		return
	}

	expenses, err := store.ListGroupExpenses(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("error listing expenses of group %d: %v", groupID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(expenses),
		"data":   expenses,
	})
}

// GetGroupExpenseHandler returns one expense with its shares.
func GetGroupExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	expenseID, err := strconv.Atoi(r.PathValue("expenseId"))
	if err != nil || expenseID <= 0 {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	store := groupStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	expense, err := store.GetGroupExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching expense %d: %v", expenseID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	group, err := store.GetGroupInfo(ctx, expense.GroupID)
	if err != nil {
		utils.Logger.Errorf("error fetching group %d: %v", expense.GroupID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	member, err := store.IsMember(ctx, expense.GroupID, userID)
	if err != nil {
		utils.Logger.Errorf("error checking membership: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !member && group.Admin != userID {
		utils.WriteError(w, "forbidden: you are not a member of this group", http.StatusForbidden)
		return
	}

	shares, err := store.ListShares(ctx, expenseID)
	if err != nil {
		utils.Logger.Errorf("error listing shares of expense %d: %v", expenseID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"expense": expense,
		"shares":  shares,
	})
}
