package services

import (
	"context"
	"sync"

	"expensor/internal/models"
	"expensor/internal/storage"

	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory storage.Store with the same conditional
// semantics as the MySQL implementation. All methods take the lock, so
// each primitive is atomic the way a single conditioned statement is.
type fakeStore struct {
	mu       sync.Mutex
	groups   map[int]*models.Group
	members  map[int]map[string]bool
	expenses map[int]*models.GroupExpense
	shares   map[shareKey]decimal.Decimal
	users    map[string]storage.Contact
}

type shareKey struct {
	expenseID int
	userID    string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		groups:   make(map[int]*models.Group),
		members:  make(map[int]map[string]bool),
		expenses: make(map[int]*models.GroupExpense),
		shares:   make(map[shareKey]decimal.Decimal),
		users:    make(map[string]storage.Contact),
	}
}

func (f *fakeStore) addGroup(id int, admin string) {
	f.groups[id] = &models.Group{ID: id, Admin: admin, Name: "test group", CreatedBy: admin}
	f.members[id] = make(map[string]bool)
}

func (f *fakeStore) addExpense(id, groupID int, amount decimal.Decimal) {
	f.expenses[id] = &models.GroupExpense{ID: id, GroupID: groupID, Amount: amount}
}

func (f *fakeStore) addUser(id, name, email string) {
	f.users[id] = storage.Contact{Name: name, Email: email}
}

// snapshot returns a copy of all share amounts for no-diff assertions.
func (f *fakeStore) snapshot() map[shareKey]decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[shareKey]decimal.Decimal, len(f.shares))
	for k, v := range f.shares {
		out[k] = v
	}
	return out
}

func (f *fakeStore) GetGroupAdmin(ctx context.Context, groupID int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok {
		return "", storage.ErrNotFound
	}
	return g.Admin, nil
}

func (f *fakeStore) GetExpenseGroup(ctx context.Context, expenseID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.expenses[expenseID]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return e.GroupID, nil
}

func (f *fakeStore) AdjustShare(ctx context.Context, expenseID int, userID string, delta decimal.Decimal, requesterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.expenses[expenseID]
	if !ok {
		return storage.ErrNotFound
	}
	g, ok := f.groups[e.GroupID]
	if !ok {
		return storage.ErrNotFound
	}
	if g.Admin != requesterID {
		return storage.ErrNotAdmin
	}

	key := shareKey{expenseID, userID}
	current := f.shares[key]
	next := current.Add(delta)
	if next.IsNegative() {
		return &storage.NegativeShareError{Current: current}
	}
	f.shares[key] = next
	return nil
}

func (f *fakeStore) SetShare(ctx context.Context, expenseID int, userID string, amount decimal.Decimal, requesterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if amount.IsNegative() {
		return &storage.NegativeShareError{Current: decimal.Zero}
	}
	e, ok := f.expenses[expenseID]
	if !ok {
		return storage.ErrNotFound
	}
	g, ok := f.groups[e.GroupID]
	if !ok {
		return storage.ErrNotFound
	}
	if g.Admin != requesterID {
		return storage.ErrNotAdmin
	}

	f.shares[shareKey{expenseID, userID}] = amount
	return nil
}

func (f *fakeStore) RemoveShare(ctx context.Context, expenseID int, userID string, requesterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.expenses[expenseID]
	if !ok {
		return nil
	}
	g, ok := f.groups[e.GroupID]
	if !ok || g.Admin != requesterID {
		return nil
	}
	delete(f.shares, shareKey{expenseID, userID})
	return nil
}

func (f *fakeStore) ListShares(ctx context.Context, expenseID int) ([]storage.ShareRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rows := make([]storage.ShareRow, 0)
	for k, v := range f.shares {
		if k.expenseID != expenseID {
			continue
		}
		c := f.users[k.userID]
		rows = append(rows, storage.ShareRow{
			UserID:    k.userID,
			Amount:    v,
			UserName:  c.Name,
			UserEmail: c.Email,
		})
	}
	return rows, nil
}

func (f *fakeStore) AddMember(ctx context.Context, groupID int, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	members, ok := f.members[groupID]
	if !ok {
		return storage.ErrNotFound
	}
	if members[userID] {
		return storage.ErrConflict
	}
	members[userID] = true
	return nil
}

func (f *fakeStore) RemoveMemberAsAdmin(ctx context.Context, groupID int, userID, requesterID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	g, ok := f.groups[groupID]
	if !ok || g.Admin != requesterID {
		return false, nil
	}
	if !f.members[groupID][userID] {
		return false, nil
	}
	delete(f.members[groupID], userID)
	return true, nil
}

func (f *fakeStore) IsMember(ctx context.Context, groupID int, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[groupID][userID], nil
}

func (f *fakeStore) GetUserContact(ctx context.Context, userID string) (*storage.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (f *fakeStore) GetGroupInfo(ctx context.Context, groupID int) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *g
	return &copied, nil
}
