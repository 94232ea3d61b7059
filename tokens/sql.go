package tokens

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/friendsofgo/errors"
	"github.com/stephenafamo/sentryscope/identity"
	"github.com/volatiletech/null/v8"
)

// User is the principal of tokens stored in the database
type User struct {
	Name string
}

func (u *User) Username() string {
	return u.Name
}

// SQL authenticates bearer tokens stored in the api_tokens table
type SQL struct {
	DB *sql.DB
}

func CreateTables(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}

	// username is NULL for tokens not tied to a user, e.g. service tokens
	_, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS api_tokens (
		token TEXT NOT NULL PRIMARY KEY,
		username TEXT,
		authenticated BOOLEAN NOT NULL DEFAULT TRUE
	);`)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "could not create api_tokens")
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "could not commit tables")
	}

	return nil
}

// Insert adds a token, replacing any existing one
func (s SQL) Insert(ctx context.Context, token string, username null.String, authenticated bool) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT OR REPLACE INTO api_tokens (token, username, authenticated) VALUES (?, ?, ?)`,
		token, username, authenticated,
	)
	if err != nil {
		return errors.Wrap(err, "could not insert token")
	}

	return nil
}

func (s SQL) Authenticate(r *http.Request) (identity.Token, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return nil, nil
	}

	var username null.String
	var authenticated bool

	err := s.DB.QueryRowContext(r.Context(),
		`SELECT username, authenticated FROM api_tokens WHERE token = ?`, raw,
	).Scan(&username, &authenticated)
	if err == sql.ErrNoRows {
		return identity.StaticToken{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not look up token")
	}

	token := identity.StaticToken{Authenticated: authenticated}
	if username.Valid {
		token.User = &User{Name: username.String}
	}

	return token, nil
}
