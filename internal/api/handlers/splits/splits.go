package splits

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"expensor/internal/repositories/sqlconnect"
	"expensor/internal/services"
	"expensor/internal/storage"
	"expensor/internal/storage/mysqlstore"
	"expensor/pkg/utils"

	"github.com/shopspring/decimal"
)

type splitRequest struct {
	ExpenseID int             `json:"expense_id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func splitEngine(w http.ResponseWriter) *services.ShareSplitEngine {
	db, err := sqlconnect.DB()
	if err != nil {
		utils.Logger.Errorf("DB connection failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return nil
	}
	return services.NewShareSplitEngine(mysqlstore.New(db))
}

func requesterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := r.Context().Value(utils.ContextKey("userId")).(string)
	if !ok || id == "" {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return id, true
}

func decodeSplitRequest(w http.ResponseWriter, r *http.Request) (*splitRequest, bool) {
	var req splitRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}
	defer r.Body.Close()
	return &req, true
}

// writeShareError maps the service error taxonomy to HTTP codes.
func writeShareError(w http.ResponseWriter, err error) {
	var quotaErr *services.QuotaError
	switch {
	case errors.As(err, &quotaErr):
		utils.WriteError(w, quotaErr.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrMissingFields), errors.Is(err, services.ErrNegativeAmount):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storage.ErrNotFound):
		utils.WriteError(w, "expense or group not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrNotAdmin):
		utils.WriteError(w, "forbidden: not group admin", http.StatusForbidden)
	default:
		utils.Logger.Errorf("share operation failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}

// AddExpenseSplitHandler applies a signed variation to a member's
// share of a group expense. The amount is a delta, not a total.
func AddExpenseSplitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}
	req, ok := decodeSplitRequest(w, r)
	if !ok {
		return
	}
	engine := splitEngine(w)
	if engine == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := engine.AssignOrAdjustShare(ctx, req.ExpenseID, req.UserID, req.Amount, userID); err != nil {
		writeShareError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "share updated successfully",
	})
}

// SetExpenseSplitHandler assigns an absolute share amount. Safe to
// retry, unlike the delta endpoint.
func SetExpenseSplitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}
	req, ok := decodeSplitRequest(w, r)
	if !ok {
		return
	}
	engine := splitEngine(w)
	if engine == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := engine.SetShare(ctx, req.ExpenseID, req.UserID, req.Amount, userID); err != nil {
		writeShareError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "share set successfully",
	})
}

// RemoveExpenseSplitHandler deletes a member's share. Removing a share
// that does not exist still succeeds once the caller is the admin.
func RemoveExpenseSplitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}
	req, ok := decodeSplitRequest(w, r)
	if !ok {
		return
	}
	engine := splitEngine(w)
	if engine == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := engine.RemoveShare(ctx, req.ExpenseID, req.UserID, userID); err != nil {
		writeShareError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "share removed successfully",
	})
}

// GetExpenseSplitsHandler lists an expense's shares with the holder's
// name and email.
func GetExpenseSplitsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := requesterID(w, r); !ok {
		return
	}

	expenseID, err := strconv.Atoi(r.PathValue("expenseId"))
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	engine := splitEngine(w)
	if engine == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	shares, err := engine.ListShares(ctx, expenseID)
	if err != nil {
		writeShareError(w, err)
		return
	}

	type shareResponse struct {
		UserID      string          `json:"user_id"`
		Amount      decimal.Decimal `json:"amount"`
		LastUpdated string          `json:"last_updated"`
		UserName    string          `json:"user_name"`
		UserEmail   string          `json:"user_email"`
	}

	data := make([]shareResponse, 0, len(shares))
	for _, s := range shares {
		data = append(data, shareResponse{
			UserID:      s.UserID,
			Amount:      s.Amount,
			LastUpdated: s.LastUpdated,
			UserName:    s.UserName,
			UserEmail:   s.UserEmail,
		})
	}

	utils.WriteJSON(w, struct {
		Status string          `json:"status"`
		Count  int             `json:"count"`
		Data   []shareResponse `json:"data"`
	}{
		Status: "success",
		Count:  len(data),
		Data:   data,
	})
}

// SettleExpenseSplitHandler marks the caller's own share of an expense
// as paid. Settling twice is harmless.
func SettleExpenseSplitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	type request struct {
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

	if req.ExpenseID <= 0 {
		utils.WriteError(w, "expense_id is required", http.StatusBadRequest)
		return
	}

	db, err := sqlconnect.DB()
	if err != nil {
		utils.Logger.Errorf("DB connection failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	store := mysqlstore.New(db)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	share, err := store.SettleShare(ctx, req.ExpenseID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteError(w, "you have no share of this expense", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to settle share of expense %d: %v", req.ExpenseID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "share settled successfully",
		"data":    share,
	})
}
