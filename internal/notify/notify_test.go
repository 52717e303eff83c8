package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayasuriya321/finance/internal/mailer"
	"github.com/jayasuriya321/finance/internal/models"
)

type fakeNotificationStore struct {
	created []models.Notification
	err     error
}

func (s *fakeNotificationStore) CreateNotification(n *models.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, *n)
	return nil
}

type fakeSender struct {
	enabled bool
	sent    []mailer.Message
	err     error
}

func (s *fakeSender) Enabled() bool {
	return s.enabled
}

func (s *fakeSender) Send(msg mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func user() *models.User {
	return &models.User{ID: 7, Email: "u@example.com", EmailNotifications: true}
}

func TestDispatch_PersistsAndMails(t *testing.T) {
	store := &fakeNotificationStore{}
	sender := &fakeSender{enabled: true}
	d := NewDispatcher(store, sender)

	err := d.Dispatch(user(), "hello", mailer.Message{Subject: "Hi", Text: "hello"})

	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, uint(7), store.created[0].UserID)
	assert.Equal(t, "hello", store.created[0].Message)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "u@example.com", sender.sent[0].To)
}

func TestDispatch_StoreFailureIsFatal(t *testing.T) {
	store := &fakeNotificationStore{err: errors.New("db closed")}
	sender := &fakeSender{enabled: true}
	d := NewDispatcher(store, sender)

	err := d.Dispatch(user(), "hello", mailer.Message{})

	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestDispatch_MailFailureIsDropped(t *testing.T) {
	store := &fakeNotificationStore{}
	sender := &fakeSender{enabled: true, err: errors.New("smtp down")}
	d := NewDispatcher(store, sender)

	err := d.Dispatch(user(), "hello", mailer.Message{})

	assert.NoError(t, err)
	assert.Len(t, store.created, 1)
}

func TestDispatch_SkipsMailWhenDisabled(t *testing.T) {
	store := &fakeNotificationStore{}
	sender := &fakeSender{enabled: false}
	d := NewDispatcher(store, sender)

	require.NoError(t, d.Dispatch(user(), "hello", mailer.Message{}))
	assert.Empty(t, sender.sent)
}

func TestDispatch_RespectsUserOptOut(t *testing.T) {
	store := &fakeNotificationStore{}
	sender := &fakeSender{enabled: true}
	d := NewDispatcher(store, sender)

	u := user()
	u.EmailNotifications = false
	require.NoError(t, d.Dispatch(u, "hello", mailer.Message{}))

	assert.Len(t, store.created, 1)
	assert.Empty(t, sender.sent)
}

func TestDispatch_SkipsMailWithoutAddress(t *testing.T) {
	store := &fakeNotificationStore{}
	sender := &fakeSender{enabled: true}
	d := NewDispatcher(store, sender)

	u := user()
	u.Email = ""
	require.NoError(t, d.Dispatch(u, "hello", mailer.Message{}))

	assert.Empty(t, sender.sent)
}
