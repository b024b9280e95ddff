package services

import (
	"expensor/pkg/utils"
)

// NotificationKind selects the mail template.
type NotificationKind int

const (
	MemberAdded NotificationKind = iota
	MemberRemoved
)

// Notification carries everything a gateway needs to tell a user about
// a membership change.
type Notification struct {
	Kind       NotificationKind
	UserName   string
	UserEmail  string
	AdminName  string
	AdminEmail string
	GroupName  string
	GroupLink  string
}

// Notifier is the fire-and-forget gateway for membership notices.
// Implementations must be safe for concurrent use; failures are the
// caller's to log, never to surface.
type Notifier interface {
	Notify(n Notification) error
}

// MailNotifier sends notifications over SMTP.
type MailNotifier struct{}

func (MailNotifier) Notify(n Notification) error {
	switch n.Kind {
	case MemberAdded:
		return utils.SendMemberAddedEmail(n.UserEmail, n.UserName, n.AdminName, n.AdminEmail, n.GroupName, n.GroupLink)
	case MemberRemoved:
		return utils.SendMemberRemovedEmail(n.UserEmail, n.UserName, n.AdminName, n.AdminEmail, n.GroupName)
	}
	return nil
}
