package listener

import (
	"context"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stephenafamo/sentryscope/identity"
	"github.com/stretchr/testify/require"
)

// newTestHub returns a hub that keeps every event it would have sent
func newTestHub(t *testing.T) (*sentry.Hub, *[]*sentry.Event) {
	t.Helper()

	events := &[]*sentry.Event{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			*events = append(*events, event)
			return nil
		},
	})
	require.NoError(t, err)

	return sentry.NewHub(client, sentry.NewScope()), events
}

// lastEvent sends a message through the hub and returns the resulting event
func lastEvent(t *testing.T, hub *sentry.Hub, events *[]*sentry.Event) *sentry.Event {
	t.Helper()

	hub.CaptureMessage("probe")
	require.NotEmpty(t, *events)
	return (*events)[len(*events)-1]
}

type staticStorage struct {
	token identity.Token
	calls int
}

func (s *staticStorage) CurrentToken(context.Context) identity.Token {
	s.calls++
	return s.token
}

type namedUser struct{ name string }

func (u namedUser) Username() string { return u.name }

type labelledUser struct{ label string }

func (u labelledUser) String() string { return u.label }
