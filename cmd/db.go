package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/stephenafamo/sentryscope/internal"
	"github.com/stephenafamo/sentryscope/tokens"
	_ "modernc.org/sqlite"
)

type backend struct {
	auth tokens.Authenticator
	// set for the file backend
	file *tokens.File
	// set for the sql backend
	db *sql.DB
}

func (b backend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}

	return nil
}

func getBackend(ctx context.Context, settings internal.Settings) (backend, error) {
	switch settings.TOKEN_BACKEND {
	case internal.BackendFile:
		file, err := tokens.NewFile(settings.TOKENS_FILE)
		if err != nil {
			return backend{}, err
		}
		return backend{auth: file, file: file}, nil

	case internal.BackendJWT:
		return backend{auth: tokens.JWT{
			Secret: []byte(settings.JWT_SECRET),
			Issuer: settings.JWT_ISSUER,
		}}, nil

	case internal.BackendSQL:
		db, err := openDB(ctx, settings.DB_PATH)
		if err != nil {
			return backend{}, err
		}
		return backend{auth: tokens.SQL{DB: db}, db: db}, nil

	default:
		return backend{}, fmt.Errorf("unknown token backend %q", settings.TOKEN_BACKEND)
	}
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	log.Println("Connecting to DB...")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	log.Println("Creating tables...")
	if err := tokens.CreateTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
