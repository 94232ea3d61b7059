// Package monitor builds the sentry hub the listener reports through
package monitor

import (
	"fmt"
	"sort"

	"github.com/friendsofgo/errors"
	"github.com/getsentry/sentry-go"
)

type Printer interface {
	Printf(format string, a ...interface{}) (n int, err error)
}

type Options struct {
	DSN            string
	Environment    string
	SendDefaultPII bool
	Debug          bool

	// Testing prints events instead of sending them
	Testing bool
	// Used by the logging integration. Defaults to stdout
	Logger Printer
}

// NewHub returns a hub with its own client and an empty scope.
// Events are printed when testing or when there is no DSN to send them to.
func NewHub(opts Options) (*sentry.Hub, error) {
	options := sentry.ClientOptions{
		Dsn:            opts.DSN,
		Environment:    opts.Environment,
		SendDefaultPII: opts.SendDefaultPII,
		Debug:          opts.Debug,
	}

	if opts.Testing || opts.DSN == "" {
		logger := opts.Logger
		if logger == nil {
			logger = stdout{}
		}

		options.Integrations = func(in []sentry.Integration) []sentry.Integration {
			return append(in, LoggingIntegration{
				Logger:         logger,
				SuppressEvents: opts.Testing,
			})
		}
	}

	client, err := sentry.NewClient(options)
	if err != nil {
		return nil, errors.Wrap(err, "could not create sentry client")
	}

	return sentry.NewHub(client, sentry.NewScope()), nil
}

type stdout struct{}

func (stdout) Printf(format string, a ...interface{}) (n int, err error) {
	return fmt.Printf(format, a...)
}

// LoggingIntegration prints every event with its user and tags
type LoggingIntegration struct {
	// Drop events after printing them
	SuppressEvents bool
	Logger         Printer
}

func (LoggingIntegration) Name() string {
	return "Logging"
}

func (li LoggingIntegration) SetupOnce(client *sentry.Client) {
	client.AddEventProcessor(li.processor)
}

func (li LoggingIntegration) processor(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Message != "" {
		li.Logger.Printf("\n%s", event.Message)
	}

	// only the outermost exception
	if len(event.Exception) > 0 {
		li.Logger.Printf("\n%s", event.Exception[len(event.Exception)-1].Value)
	}

	if hasUser(event.User) {
		li.Logger.Printf("\nUser: ID %q, Email %q, IPAddress %q, Username %q",
			event.User.ID, event.User.Email, event.User.IPAddress, event.User.Username)
	}

	if len(event.Tags) > 0 {
		keys := make([]string, 0, len(event.Tags))
		for key := range event.Tags {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		li.Logger.Printf("\nTags:")
		for _, key := range keys {
			li.Logger.Printf("\n%s=%s", key, event.Tags[key])
		}
	}

	if len(event.Exception) > 0 {
		li.printFrames(event.Exception[len(event.Exception)-1].Stacktrace)
	}

	li.Logger.Printf("\n\n")

	if li.SuppressEvents {
		return nil
	}

	return event
}

func (li LoggingIntegration) printFrames(stacktrace *sentry.Stacktrace) {
	if stacktrace == nil {
		return
	}

	frames := stacktrace.Frames
	for i := len(frames) - 1; i >= 0; i-- {
		frame := frames[i]
		li.Logger.Printf("\n%s:%d:%d %s", frame.AbsPath, frame.Lineno, frame.Colno, frame.Function)

		// source context only for the five innermost frames
		if frame.ContextLine == "" || len(frames)-i > 5 {
			continue
		}

		for j, line := range frame.PreContext {
			li.Logger.Printf("\n%04d | %s", frame.Lineno-len(frame.PreContext)+j, line)
		}
		li.Logger.Printf("\n%04d > %s", frame.Lineno, frame.ContextLine)
		for j, line := range frame.PostContext {
			li.Logger.Printf("\n%04d | %s", frame.Lineno+j+1, line)
		}
	}
}

func hasUser(user sentry.User) bool {
	return user.ID != "" || user.Email != "" || user.IPAddress != "" || user.Username != ""
}
