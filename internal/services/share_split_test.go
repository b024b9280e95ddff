package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"expensor/internal/storage"

	"github.com/shopspring/decimal"
)

const (
	adminID  = "admin-ms-id"
	memberID = "member-ms-id"
	otherID  = "other-ms-id"
)

// setupEngine seeds a group with one expense of 100 owned by adminID.
func setupEngine(t *testing.T) (*ShareSplitEngine, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.addGroup(1, adminID)
	store.addExpense(10, 1, decimal.NewFromInt(100))
	store.addUser(adminID, "Admin", "admin@example.com")
	store.addUser(memberID, "Mario", "mario@example.com")
	store.addUser(otherID, "Luigi", "luigi@example.com")
	return NewShareSplitEngine(store), store
}

func shareOf(t *testing.T, store *fakeStore, expenseID int, userID string) decimal.Decimal {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.shares[shareKey{expenseID, userID}]
}

func TestAssignOrAdjustShareAdditive(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	if err := engine.AssignOrAdjustShare(ctx, 10, memberID, decimal.NewFromInt(10), adminID); err != nil {
		t.Fatalf("first adjust failed: %v", err)
	}
	if err := engine.AssignOrAdjustShare(ctx, 10, memberID, decimal.NewFromInt(-4), adminID); err != nil {
		t.Fatalf("second adjust failed: %v", err)
	}

	got := shareOf(t, store, 10, memberID)
	if !got.Equal(decimal.NewFromInt(6)) {
		t.Errorf("share: expected 6, got %s", got)
	}
}

func TestAssignOrAdjustShareNeverNegative(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	if err := engine.AssignOrAdjustShare(ctx, 10, memberID, decimal.NewFromInt(60), adminID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	err := engine.AssignOrAdjustShare(ctx, 10, memberID, decimal.NewFromInt(-70), adminID)
	var quotaErr *QuotaError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaError, got %v", err)
	}
	if !quotaErr.Current.Equal(decimal.NewFromInt(60)) {
		t.Errorf("ceiling: expected 60, got %s", quotaErr.Current)
	}
	if !strings.Contains(quotaErr.Error(), "60.00") {
		t.Errorf("message should reference the 60 ceiling, got %q", quotaErr.Error())
	}
	if !strings.Contains(quotaErr.Error(), "Impossibile sottrarre 70.00€") {
		t.Errorf("message should reference the attempted subtraction, got %q", quotaErr.Error())
	}

	// Rejected call must not have mutated the share.
	got := shareOf(t, store, 10, memberID)
	if !got.Equal(decimal.NewFromInt(60)) {
		t.Errorf("share after rejection: expected 60, got %s", got)
	}
}

func TestAssignOrAdjustShareExactZeroAllowed(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	if err := engine.AssignOrAdjustShare(ctx, 10, memberID, decimal.NewFromInt(25), adminID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := engine.AssignOrAdjustShare(ctx, 10, memberID, decimal.NewFromInt(-25), adminID); err != nil {
		t.Fatalf("subtracting down to exactly zero should succeed: %v", err)
	}
	if got := shareOf(t, store, 10, memberID); !got.IsZero() {
		t.Errorf("share: expected 0, got %s", got)
	}
}

func TestShareMutationForbiddenForNonAdmin(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	if err := engine.AssignOrAdjustShare(ctx, 10, memberID, decimal.NewFromInt(60), adminID); err != nil {
		t.Fatalf("seed assign failed: %v", err)
	}
	before := store.snapshot()

	if err := engine.AssignOrAdjustShare(ctx, 10, memberID, decimal.NewFromInt(5), otherID); !errors.Is(err, storage.ErrNotAdmin) {
		t.Errorf("adjust by non-admin: expected ErrNotAdmin, got %v", err)
	}
	if err := engine.SetShare(ctx, 10, memberID, decimal.NewFromInt(1), otherID); !errors.Is(err, storage.ErrNotAdmin) {
		t.Errorf("set by non-admin: expected ErrNotAdmin, got %v", err)
	}
	if err := engine.RemoveShare(ctx, 10, memberID, otherID); !errors.Is(err, storage.ErrNotAdmin) {
		t.Errorf("remove by non-admin: expected ErrNotAdmin, got %v", err)
	}

	after := store.snapshot()
	if len(before) != len(after) {
		t.Fatalf("share table changed: %d rows before, %d after", len(before), len(after))
	}
	for k, v := range before {
		if !after[k].Equal(v) {
			t.Errorf("share %v changed from %s to %s", k, v, after[k])
		}
	}
}

func TestShareOperationsOnUnknownExpense(t *testing.T) {
	engine, _ := setupEngine(t)
	ctx := context.Background()

	if err := engine.AssignOrAdjustShare(ctx, 999, memberID, decimal.NewFromInt(10), adminID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("adjust: expected ErrNotFound, got %v", err)
	}
	if err := engine.RemoveShare(ctx, 999, memberID, adminID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("remove: expected ErrNotFound, got %v", err)
	}
}

func TestRemoveShareIdempotent(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	if err := engine.AssignOrAdjustShare(ctx, 10, memberID, decimal.NewFromInt(30), adminID); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	if err := engine.RemoveShare(ctx, 10, memberID, adminID); err != nil {
		t.Fatalf("first remove failed: %v", err)
	}
	if err := engine.RemoveShare(ctx, 10, memberID, adminID); err != nil {
		t.Fatalf("second remove of an absent share should succeed: %v", err)
	}
	if _, ok := store.snapshot()[shareKey{10, memberID}]; ok {
		t.Error("share row still present after removal")
	}
}

func TestListSharesSumToExpenseTotal(t *testing.T) {
	engine, _ := setupEngine(t)
	ctx := context.Background()

	if err := engine.AssignOrAdjustShare(ctx, 10, memberID, decimal.NewFromInt(60), adminID); err != nil {
		t.Fatalf("assign U1 failed: %v", err)
	}
	if err := engine.AssignOrAdjustShare(ctx, 10, otherID, decimal.NewFromInt(40), adminID); err != nil {
		t.Fatalf("assign U2 failed: %v", err)
	}

	rows, err := engine.ListShares(ctx, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(rows))
	}

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	if !total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("shares should sum to 100, got %s", total)
	}
}

func TestSetShareAbsoluteAndRetrySafe(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	if err := engine.AssignOrAdjustShare(ctx, 10, memberID, decimal.NewFromInt(20), adminID); err != nil {
		t.Fatalf("seed assign failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := engine.SetShare(ctx, 10, memberID, decimal.NewFromInt(45), adminID); err != nil {
			t.Fatalf("set attempt %d failed: %v", i+1, err)
		}
	}

	got := shareOf(t, store, 10, memberID)
	if !got.Equal(decimal.NewFromInt(45)) {
		t.Errorf("share: expected 45 after repeated sets, got %s", got)
	}

	if err := engine.SetShare(ctx, 10, memberID, decimal.NewFromInt(-1), adminID); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("negative absolute amount: expected ErrNegativeAmount, got %v", err)
	}
}

func TestShareInputValidation(t *testing.T) {
	engine, _ := setupEngine(t)
	ctx := context.Background()

	if err := engine.AssignOrAdjustShare(ctx, 0, memberID, decimal.NewFromInt(1), adminID); !errors.Is(err, ErrMissingFields) {
		t.Errorf("zero expense id: expected ErrMissingFields, got %v", err)
	}
	if err := engine.AssignOrAdjustShare(ctx, 10, "", decimal.NewFromInt(1), adminID); !errors.Is(err, ErrMissingFields) {
		t.Errorf("empty user id: expected ErrMissingFields, got %v", err)
	}
}
