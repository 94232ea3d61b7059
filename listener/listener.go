// Package listener writes request context into the sentry scope.
//
// Two events are observed per request. A RequestEvent attaches the user
// identity and a ControllerEvent attaches the route tag. The net/http
// adapters in this package fire them; other frameworks can fire them
// directly.
package listener

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/stephenafamo/sentryscope/identity"
)

// RouteAttribute is the controller attribute holding the route name
const RouteAttribute = "_route"

// RouteTag is the scope tag the route name is written to
const RouteTag = "route"

// Hub is the part of *sentry.Hub the listener needs
type Hub interface {
	ConfigureScope(f func(scope *sentry.Scope))
}

// TokenStorage gives access to the token of the current request
type TokenStorage interface {
	CurrentToken(ctx context.Context) identity.Token
}

type RequestType int

const (
	// MainRequest is the top-level dispatch of an incoming request
	MainRequest RequestType = iota
	// SubRequest is a nested dispatch inside a main request
	SubRequest
)

func (t RequestType) String() string {
	switch t {
	case MainRequest:
		return "main"
	case SubRequest:
		return "sub"
	default:
		return "unknown"
	}
}

type RequestEvent struct {
	Type          RequestType
	ClientAddress string
	// Context is passed to the token storage
	Context context.Context
}

type ControllerEvent struct {
	Type       RequestType
	Attributes map[string]string
}

type RequestListener struct {
	Hub    Hub
	Tokens TokenStorage
}

// HandleRequest sets the user of the scope from the current token.
// Any user already on the scope is replaced.
// An error is only returned for a principal that cannot be resolved.
func (l RequestListener) HandleRequest(event RequestEvent) error {
	if event.Type != MainRequest {
		return nil
	}

	var token identity.Token
	if l.Tokens != nil {
		token = l.Tokens.CurrentToken(event.Context)
	}

	user, err := identity.Resolve(token, event.ClientAddress)
	if err != nil {
		return err
	}

	l.Hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetUser(sentryUser(user))
	})

	return nil
}

// HandleController tags the scope with the route of a main request
func (l RequestListener) HandleController(event ControllerEvent) {
	if event.Type != MainRequest {
		return
	}

	route, ok := event.Attributes[RouteAttribute]
	if !ok || route == "" {
		return
	}

	l.Hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag(RouteTag, route)
	})
}

func sentryUser(user identity.UserIdentity) sentry.User {
	return sentry.User{
		ID:        user.ID.String,
		Email:     user.Email.String,
		IPAddress: user.IPAddress.String,
		Username:  user.Username.String,
	}
}
