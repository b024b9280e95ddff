package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"expensor/internal/storage"

	"github.com/shopspring/decimal"
)

// recordingNotifier captures notifications on a channel so tests can
// wait for the async send without sleeping.
type recordingNotifier struct {
	sent chan Notification
	err  error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan Notification, 4)}
}

func (r *recordingNotifier) Notify(n Notification) error {
	r.sent <- n
	return r.err
}

func (r *recordingNotifier) wait(t *testing.T) Notification {
	t.Helper()
	select {
	case n := <-r.sent:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return Notification{}
	}
}

func setupManager(t *testing.T) (*MembershipManager, *fakeStore, *recordingNotifier) {
	t.Helper()
	store := newFakeStore()
	store.addGroup(1, adminID)
	store.addUser(adminID, "Admin", "admin@example.com")
	store.addUser(memberID, "Mario", "mario@example.com")
	notifier := newRecordingNotifier()
	return NewMembershipManager(store, notifier), store, notifier
}

func TestAddMemberThenDuplicate(t *testing.T) {
	mgr, store, notifier := setupManager(t)
	ctx := context.Background()

	if err := mgr.AddMember(ctx, 1, memberID, adminID); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	notifier.wait(t)

	if err := mgr.AddMember(ctx, 1, memberID, adminID); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("duplicate add: expected ErrConflict, got %v", err)
	}

	store.mu.Lock()
	count := len(store.members[1])
	store.mu.Unlock()
	if count != 1 {
		t.Errorf("expected exactly one membership, got %d", count)
	}
}

func TestAddMemberForbiddenForNonAdmin(t *testing.T) {
	mgr, store, _ := setupManager(t)
	ctx := context.Background()

	if err := mgr.AddMember(ctx, 1, memberID, otherID); !errors.Is(err, storage.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}

	still, _ := store.IsMember(ctx, 1, memberID)
	if still {
		t.Error("rejected add must not insert a membership")
	}
}

func TestAddMemberUnknownGroup(t *testing.T) {
	mgr, _, _ := setupManager(t)

	if err := mgr.AddMember(context.Background(), 99, memberID, adminID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddMemberNotificationFailureDoesNotFailAdd(t *testing.T) {
	mgr, store, notifier := setupManager(t)
	notifier.err = errors.New("smtp down")
	ctx := context.Background()

	if err := mgr.AddMember(ctx, 1, memberID, adminID); err != nil {
		t.Fatalf("add must succeed even when the notice cannot be sent: %v", err)
	}
	notifier.wait(t)

	ok, _ := store.IsMember(ctx, 1, memberID)
	if !ok {
		t.Error("membership missing after successful add")
	}
}

func TestAddMemberNotificationContent(t *testing.T) {
	mgr, _, notifier := setupManager(t)
	t.Setenv("FRONTEND_URL", "https://expensor.example")

	if err := mgr.AddMember(context.Background(), 1, memberID, adminID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	n := notifier.wait(t)
	if n.Kind != MemberAdded {
		t.Errorf("kind: expected MemberAdded, got %v", n.Kind)
	}
	if n.UserEmail != "mario@example.com" || n.AdminEmail != "admin@example.com" {
		t.Errorf("unexpected recipients: %+v", n)
	}
	if n.GroupLink != "https://expensor.example/groupHandling/1" {
		t.Errorf("group link: got %q", n.GroupLink)
	}
}

func TestRemoveMemberCollapsedOutcome(t *testing.T) {
	mgr, store, notifier := setupManager(t)
	ctx := context.Background()

	if err := mgr.AddMember(ctx, 1, memberID, adminID); err != nil {
		t.Fatalf("seed add failed: %v", err)
	}
	notifier.wait(t)

	// Non-admin requester and nonexistent member both report false.
	if removed, err := mgr.RemoveMember(ctx, 1, memberID, otherID); err != nil || removed {
		t.Errorf("non-admin remove: expected (false, nil), got (%v, %v)", removed, err)
	}
	if removed, err := mgr.RemoveMember(ctx, 1, "ghost", adminID); err != nil || removed {
		t.Errorf("unknown member remove: expected (false, nil), got (%v, %v)", removed, err)
	}

	still, _ := store.IsMember(ctx, 1, memberID)
	if !still {
		t.Error("failed removals must leave the membership intact")
	}

	removed, err := mgr.RemoveMember(ctx, 1, memberID, adminID)
	if err != nil || !removed {
		t.Fatalf("admin remove: expected (true, nil), got (%v, %v)", removed, err)
	}

	n := notifier.wait(t)
	if n.Kind != MemberRemoved {
		t.Errorf("kind: expected MemberRemoved, got %v", n.Kind)
	}

	still, _ = store.IsMember(ctx, 1, memberID)
	if still {
		t.Error("membership present after admin removal")
	}
}

func TestRemoveThenReAdd(t *testing.T) {
	mgr, _, notifier := setupManager(t)
	ctx := context.Background()

	if err := mgr.AddMember(ctx, 1, memberID, adminID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	notifier.wait(t)

	if removed, err := mgr.RemoveMember(ctx, 1, memberID, adminID); err != nil || !removed {
		t.Fatalf("remove failed: (%v, %v)", removed, err)
	}
	notifier.wait(t)

	if err := mgr.AddMember(ctx, 1, memberID, adminID); err != nil {
		t.Fatalf("re-add after removal must not conflict: %v", err)
	}
	notifier.wait(t)
}

func TestRemoveMemberSharesSurvive(t *testing.T) {
	mgr, store, notifier := setupManager(t)
	ctx := context.Background()
	store.addExpense(10, 1, decimal.NewFromInt(100))

	if err := mgr.AddMember(ctx, 1, memberID, adminID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	notifier.wait(t)
	if err := store.AdjustShare(ctx, 10, memberID, decimal.NewFromInt(40), adminID); err != nil {
		t.Fatalf("share seed failed: %v", err)
	}

	if removed, err := mgr.RemoveMember(ctx, 1, memberID, adminID); err != nil || !removed {
		t.Fatalf("remove failed: (%v, %v)", removed, err)
	}
	notifier.wait(t)

	got := store.snapshot()[shareKey{10, memberID}]
	if !got.Equal(decimal.NewFromInt(40)) {
		t.Errorf("removal must not touch existing shares, got %s", got)
	}
}
