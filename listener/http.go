package listener

import (
	"context"
	"log"
	"net/http"

	"github.com/getsentry/sentry-go"
)

type ctxKey string

var ctxRequestType ctxKey = "request-type"

type Options struct {
	Tokens TokenStorage
	// Peers allowed to set X-Forwarded-For
	TrustedProxies []string
}

// Middleware gives every request its own hub and fires the request event.
// The hub is available to handlers through sentry.GetHubFromContext.
// A principal that cannot be resolved is reported and answered with a 500.
func Middleware(parent *sentry.Hub, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hub := parent.Clone()
			hub.Scope().SetRequest(r)

			r = r.WithContext(sentry.SetHubOnContext(r.Context(), hub))

			defer func() {
				if err := recover(); err != nil {
					hub.RecoverWithContext(
						context.WithValue(r.Context(), sentry.RequestContextKey, r),
						err,
					)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			l := RequestListener{Hub: hub, Tokens: opts.Tokens}
			err := l.HandleRequest(RequestEvent{
				Type:          MainRequest,
				ClientAddress: ClientIP(r, opts.TrustedProxies),
				Context:       r.Context(),
			})
			if err != nil {
				hub.CaptureException(err)
				log.Printf("could not set sentry user for %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Route fires the controller event for the named route before calling next
func Route(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			attributes := map[string]string{}
			if name != "" {
				attributes[RouteAttribute] = name
			}

			RequestListener{Hub: hub}.HandleController(ControllerEvent{
				Type:       RequestTypeFromContext(r.Context()),
				Attributes: attributes,
			})
		}

		next.ServeHTTP(w, r)
	})
}

// Dispatch runs h as a sub-request of r. Events fired inside it do not
// touch the user or the route of the main request.
func Dispatch(w http.ResponseWriter, r *http.Request, h http.Handler) {
	ctx := context.WithValue(r.Context(), ctxRequestType, SubRequest)
	h.ServeHTTP(w, r.WithContext(ctx))
}

func RequestTypeFromContext(ctx context.Context) RequestType {
	if t, ok := ctx.Value(ctxRequestType).(RequestType); ok {
		return t
	}

	return MainRequest
}
