// Package notify delivers user-facing notices on two channels: a persisted
// in-app Notification row and a best-effort email. The in-app record is the
// channel of record; a failed email is logged and dropped, never retried, and
// never rolls back the notification.
package notify

import (
	"fmt"
	"log"

	"github.com/jayasuriya321/finance/internal/mailer"
	"github.com/jayasuriya321/finance/internal/models"
)

// Store persists in-app notifications.
type Store interface {
	CreateNotification(n *models.Notification) error
}

// Sender delivers outbound email.
type Sender interface {
	Enabled() bool
	Send(msg mailer.Message) error
}

// Dispatcher fans one notice out to the in-app feed and email.
type Dispatcher struct {
	store  Store
	sender Sender
}

func NewDispatcher(store Store, sender Sender) *Dispatcher {
	return &Dispatcher{store: store, sender: sender}
}

// Dispatch persists the in-app message for the user, then emails msg if the
// user has an address and has email notifications enabled. Only the
// notification write can fail the call.
func (d *Dispatcher) Dispatch(user *models.User, inApp string, msg mailer.Message) error {
	n := &models.Notification{
		UserID:  user.ID,
		Message: inApp,
	}
	if err := d.store.CreateNotification(n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if !d.sender.Enabled() || user.Email == "" || !user.EmailNotifications {
		return nil
	}
	msg.To = user.Email
	if err := d.sender.Send(msg); err != nil {
		log.Printf("notify: mail to user %d dropped: %v", user.ID, err)
	}
	return nil
}
