package identity

import (
	"fmt"

	"github.com/friendsofgo/errors"
	"github.com/volatiletech/null/v8"
)

// ErrUnsupportedPrincipal is returned when a token carries a principal
// that is neither a string, a Usernamer nor a fmt.Stringer.
// It is a setup mistake and should not be recovered from.
var ErrUnsupportedPrincipal = errors.New("unsupported principal")

// Resolve builds the user identity for a request.
// The client address is always kept. The username is only set when the
// token is authenticated and carries a principal.
func Resolve(token Token, clientAddress string) (UserIdentity, error) {
	user := UserIdentity{
		IPAddress: null.StringFrom(clientAddress),
	}

	if token == nil || !token.IsAuthenticated() {
		return user, nil
	}

	principal := token.Principal()
	if principal == nil {
		return user, nil
	}

	username, err := usernameOf(principal)
	if err != nil {
		return UserIdentity{}, err
	}

	user.Username = null.StringFrom(username)
	return user, nil
}

func usernameOf(principal any) (username string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrUnsupportedPrincipal,
				"converting principal of type %T panicked: %v", principal, r)
		}
	}()

	switch p := principal.(type) {
	case string:
		return p, nil
	case Usernamer:
		return p.Username(), nil
	case fmt.Stringer:
		return p.String(), nil
	default:
		return "", errors.Wrapf(ErrUnsupportedPrincipal,
			"cannot get a username from a principal of type %T", principal)
	}
}
