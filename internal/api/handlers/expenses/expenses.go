package expenses

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"expensor/internal/repositories/sqlconnect"
	"expensor/internal/storage/mysqlstore"
	"expensor/pkg/utils"

	"github.com/shopspring/decimal"
)

const defaultListLimit = 50

func expenseStore(w http.ResponseWriter) *mysqlstore.Store {
	db, err := sqlconnect.DB()
	if err != nil {
		utils.Logger.Errorf("DB connection failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return nil
	}
	return mysqlstore.New(db)
}

func requesterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := r.Context().Value(utils.ContextKey("userId")).(string)
	if !ok || id == "" {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return id, true
}

// AddExpenseHandler records a personal expense for the caller.
func AddExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	type request struct {
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		CategoryID  int             `json:"category_id"`
		Date        string          `json:"date"`
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
	if req.Description == "" || req.CategoryID <= 0 {
		utils.WriteError(w, "description and category_id are required", http.StatusBadRequest)
		return
	}
	if !req.Amount.IsPositive() {
		utils.WriteError(w, "amount must be greater than zero", http.StatusBadRequest)
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	}

	store := expenseStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := store.AddExpense(ctx, userID, req.Description, req.Amount, req.CategoryID, req.Date)
	if err != nil {
		utils.Logger.Errorf("failed to add expense: %v", err)
		utils.WriteError(w, "failed to add expense, try again later!", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "expense added successfully",
		"data":    map[string]interface{}{"expense_id": id},
	})
}

// RemoveExpenseHandler deletes one of the caller's own expenses.
func RemoveExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	expenseID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || expenseID <= 0 {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	store := expenseStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	deleted, err := store.RemoveExpense(ctx, expenseID, userID)
	if err != nil {
		utils.Logger.Errorf("failed to delete expense %d: %v", expenseID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !deleted {
		utils.WriteError(w, "expense not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "expense deleted successfully",
	})
}

// ListExpensesHandler lists the caller's expenses, newest first.
func ListExpensesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			utils.WriteError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	store := expenseStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	expenseList, err := store.ListExpenses(ctx, userID, limit)
	if err != nil {
		utils.Logger.Errorf("error listing expenses: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(expenseList),
		"data":   expenseList,
	})
}
