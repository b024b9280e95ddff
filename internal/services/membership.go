package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"expensor/internal/storage"
	"expensor/pkg/utils"
)

// MembershipManager enforces admin-gated add/remove of group members
// with conflict detection and best-effort notification side effects.
type MembershipManager struct {
	store    storage.Store
	notifier Notifier
}

func NewMembershipManager(store storage.Store, notifier Notifier) *MembershipManager {
	return &MembershipManager{store: store, notifier: notifier}
}

// AddMember inserts the user into the group with zeroed financial
// counters. Only the group admin may add; a user already in the group
// yields storage.ErrConflict. The welcome notice is sent after the
// insert commits and never affects the outcome.
func (m *MembershipManager) AddMember(ctx context.Context, groupID int, newUserID, requesterID string) error {
	if groupID <= 0 || newUserID == "" {
		return ErrMissingFields
	}

	admin, err := m.store.GetGroupAdmin(ctx, groupID)
	if err != nil {
		return err
	}
	if admin != requesterID {
		return storage.ErrNotAdmin
	}

	if err := m.store.AddMember(ctx, groupID, newUserID); err != nil {
		return err
	}

	go m.notifyMembershipChange(MemberAdded, groupID, newUserID, admin)
	return nil
}

// RemoveMember deletes the membership row through a single
// admin-conditioned statement. A false return collapses "not admin"
// and "not a member" into one outcome so non-admins cannot probe group
// membership.
func (m *MembershipManager) RemoveMember(ctx context.Context, groupID int, targetUserID, requesterID string) (bool, error) {
	if groupID <= 0 || targetUserID == "" {
		return false, ErrMissingFields
	}

	removed, err := m.store.RemoveMemberAsAdmin(ctx, groupID, targetUserID, requesterID)
	if err != nil || !removed {
		return removed, err
	}

	// Notify only after a follow-up read confirms the row is gone.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		still, err := m.store.IsMember(ctx, groupID, targetUserID)
		if err != nil || still {
			utils.Logger.Warnf("skipping removal notice for user %s in group %d: confirm read failed", targetUserID, groupID)
			return
		}
		m.sendNotice(ctx, MemberRemoved, groupID, targetUserID, requesterID)
	}()

	return true, nil
}

func (m *MembershipManager) notifyMembershipChange(kind NotificationKind, groupID int, userID, adminID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	m.sendNotice(ctx, kind, groupID, userID, adminID)
}

// sendNotice looks up the contact details and fires the notifier.
// Every failure path logs and returns; the triggering operation has
// already succeeded.
func (m *MembershipManager) sendNotice(ctx context.Context, kind NotificationKind, groupID int, userID, adminID string) {
	if m.notifier == nil {
		return
	}

	user, err := m.store.GetUserContact(ctx, userID)
	if err != nil {
		utils.Logger.Warnf("notification skipped: no contact for user %s: %v", userID, err)
		return
	}
	admin, err := m.store.GetUserContact(ctx, adminID)
	if err != nil {
		utils.Logger.Warnf("notification skipped: no contact for admin %s: %v", adminID, err)
		return
	}
	group, err := m.store.GetGroupInfo(ctx, groupID)
	if err != nil {
		utils.Logger.Warnf("notification skipped: group %d lookup failed: %v", groupID, err)
		return
	}

	n := Notification{
		Kind:       kind,
		UserName:   user.Name,
		UserEmail:  user.Email,
		AdminName:  admin.Name,
		AdminEmail: admin.Email,
		GroupName:  group.Name,
		GroupLink:  fmt.Sprintf("%s/groupHandling/%d", os.Getenv("FRONTEND_URL"), groupID),
	}
	if err := m.notifier.Notify(n); err != nil {
		utils.Logger.Errorf("failed to send membership notice to %s: %v", user.Email, err)
	}
}
