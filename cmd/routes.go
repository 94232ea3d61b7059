package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/stephenafamo/sentryscope/identity"
	"github.com/stephenafamo/sentryscope/internal"
	"github.com/stephenafamo/sentryscope/listener"
	"github.com/stephenafamo/sentryscope/tokens"
)

var errBoom = errors.New("boom")

// newHandler builds the demo server.
// The firewall runs first so the token is known when the listener fires.
func newHandler(settings internal.Settings, hub *sentry.Hub, auth tokens.Authenticator) http.Handler {
	trusted := settings.TRUSTED_PROXIES

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", listener.Route("homepage", http.HandlerFunc(homepage)))
	mux.Handle("GET /whoami", listener.Route("whoami", whoami(trusted)))
	mux.Handle("GET /dashboard", listener.Route("dashboard", http.HandlerFunc(dashboard)))
	mux.Handle("GET /boom", listener.Route("boom", http.HandlerFunc(boom)))

	handler := listener.Middleware(hub, listener.Options{
		Tokens:         tokens.ContextStorage{},
		TrustedProxies: trusted,
	})(mux)

	return tokens.Firewall(auth, hub)(handler)
}

func homepage(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "ok")
}

func whoami(trusted []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := identity.Resolve(
			tokens.ContextStorage{}.CurrentToken(r.Context()),
			listener.ClientIP(r, trusted),
		)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		fmt.Fprintln(w, formatUser(user))
	})
}

// dashboard renders the stats fragment as a sub-request
func dashboard(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "dashboard")
	listener.Dispatch(w, r, listener.Route("stats_fragment", http.HandlerFunc(stats)))
}

func stats(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "stats")
}

// boom reports an error so the scope can be inspected in sentry
func boom(w http.ResponseWriter, r *http.Request) {
	var id sentry.EventID
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		if eventID := hub.CaptureException(errBoom); eventID != nil {
			id = *eventID
		}
	}

	http.Error(w, fmt.Sprintf("boom: event %q", id), http.StatusInternalServerError)
}
