// Package tokens authenticates requests and stores the resulting token on
// the request context, where the scope listener picks it up.
package tokens

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/stephenafamo/sentryscope/identity"
)

// Authenticator turns a request into a token.
// A nil token with a nil error means the request is anonymous.
type Authenticator interface {
	Authenticate(r *http.Request) (identity.Token, error)
}

type Reporter interface {
	CaptureException(err error) *sentry.EventID
}

// Firewall authenticates every request before passing it on.
// It must wrap the listener middleware so the token is present when the
// request event fires. Backend errors are reported and the request continues
// as anonymous.
func Firewall(auth Authenticator, reporter Reporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.Authenticate(r)
			if err != nil {
				log.Printf("could not authenticate %s %s: %v", r.Method, r.URL.Path, err)
				if reporter != nil {
					reporter.CaptureException(err)
				}
				next.ServeHTTP(w, r)
				return
			}

			if token != nil {
				r = r.WithContext(identity.WithToken(r.Context(), token))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ContextStorage reads the token placed on the context by Firewall
type ContextStorage struct{}

func (ContextStorage) CurrentToken(ctx context.Context) identity.Token {
	return identity.TokenFromContext(ctx)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return "", false
	}

	token := strings.TrimSpace(header[len("Bearer "):])
	return token, token != ""
}
