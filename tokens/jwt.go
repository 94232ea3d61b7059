package tokens

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stephenafamo/sentryscope/identity"
)

// Claims is the principal of a JWT token
type Claims struct {
	PreferredUsername string `json:"preferred_username,omitempty"`
	jwt.RegisteredClaims
}

// Username falls back to the subject when no preferred username was issued
func (c *Claims) Username() string {
	if c.PreferredUsername != "" {
		return c.PreferredUsername
	}

	return c.Subject
}

func (c *Claims) String() string {
	return c.Subject
}

// JWT authenticates HS256 bearer tokens.
// A token failing verification is still returned, unauthenticated, with the
// claims it claims to have.
type JWT struct {
	Secret []byte
	// Checked against the iss claim when set
	Issuer string
}

func (j JWT) Authenticate(r *http.Request) (identity.Token, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return nil, nil
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if j.Issuer != "" {
		options = append(options, jwt.WithIssuer(j.Issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, j.key, options...)
	if err == nil {
		return identity.StaticToken{Authenticated: true, User: claimsPrincipal(claims)}, nil
	}

	unverified := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, unverified); err != nil {
		return identity.StaticToken{}, nil
	}

	return identity.StaticToken{User: claimsPrincipal(unverified)}, nil
}

func (j JWT) key(*jwt.Token) (any, error) {
	return j.Secret, nil
}

func claimsPrincipal(claims *Claims) any {
	if claims.PreferredUsername == "" && claims.Subject == "" {
		return nil
	}

	return claims
}
