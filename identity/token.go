package identity

import (
	"context"

	"github.com/volatiletech/null/v8"
)

// Token is the result of authenticating a request.
// A nil Token means the visitor is anonymous.
type Token interface {
	IsAuthenticated() bool
	// Principal is a string, a Usernamer or a fmt.Stringer. nil when no
	// subject is attached.
	Principal() any
}

// Usernamer is implemented by principals that know their own username.
type Usernamer interface {
	Username() string
}

// StaticToken is a Token whose fields are known upfront.
type StaticToken struct {
	Authenticated bool
	User          any
}

func (t StaticToken) IsAuthenticated() bool {
	return t.Authenticated
}

func (t StaticToken) Principal() any {
	return t.User
}

// UserIdentity is what gets attached to the scope as the sentry user.
type UserIdentity struct {
	ID        null.String
	Email     null.String
	IPAddress null.String
	Username  null.String
}

type ctxKey string

var ctxToken ctxKey = "token"

// WithToken returns a copy of ctx carrying the token.
func WithToken(ctx context.Context, token Token) context.Context {
	return context.WithValue(ctx, ctxToken, token)
}

// TokenFromContext returns the token stored by WithToken, or nil.
func TokenFromContext(ctx context.Context) Token {
	if ctx == nil {
		return nil
	}

	token, _ := ctx.Value(ctxToken).(Token)
	return token
}
