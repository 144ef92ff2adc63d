package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/profiledesk/internal/pubsub"
	"github.com/nfrund/profiledesk/internal/signup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	to, subject, body string
}

// fakeSender records emails and signals each delivery.
type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
	done chan struct{}
}

func newFakeSender() *fakeSender {
	return &fakeSender{done: make(chan struct{}, 4)}
}

func (f *fakeSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	f.mu.Lock()
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, body: htmlBody})
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.err
}

func account() signup.AccountCreatedPayload {
	return signup.AccountCreatedPayload{
		UID:      "uid-1",
		Name:     "Asha <Rao>",
		Username: "asha.rao",
		Email:    "asha@gmail.com",
		Phone:    "+919876543210",
	}
}

func TestWelcomeEmail(t *testing.T) {
	body, err := WelcomeEmail(account(), "http://localhost:8080/login")
	require.NoError(t, err)

	assert.Contains(t, body, "Welcome, Asha &lt;Rao&gt; 🎉")
	assert.Contains(t, body, "Username: asha.rao")
	assert.Contains(t, body, "Phone: +919876543210")
	assert.Contains(t, body, `href="http://localhost:8080/login"`)
}

func TestSubscriber_SendsWelcomeEmail(t *testing.T) {
	bridge := pubsub.NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := newFakeSender()
	require.NoError(t, NewSubscriber(bridge, sender, "http://localhost:8080").Start(ctx))

	require.NoError(t, pubsub.Publish(ctx, bridge, signup.AccountCreated, "uid-1", account()))

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for welcome email")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "asha@gmail.com", sender.sent[0].to)
	assert.Equal(t, WelcomeSubject, sender.sent[0].subject)
}

func TestSubscriber_HandleErrors(t *testing.T) {
	sender := newFakeSender()
	sender.err = errors.New("smtp down")
	s := NewSubscriber(nil, sender, "")

	t.Run("sender failure is returned", func(t *testing.T) {
		msg := pubsub.Message{Topic: signup.AccountCreated.Name(), Payload: []byte(`{"uid":"uid-1","email":"asha@gmail.com"}`)}
		err := s.handle(context.Background(), msg)
		assert.ErrorContains(t, err, "smtp down")
	})

	t.Run("malformed payload is rejected before sending", func(t *testing.T) {
		before := len(sender.sent)
		err := s.handle(context.Background(), pubsub.Message{Topic: signup.AccountCreated.Name(), Payload: []byte(`not json`)})
		assert.Error(t, err)
		assert.Len(t, sender.sent, before)
	})
}
