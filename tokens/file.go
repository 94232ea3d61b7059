package tokens

import (
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/friendsofgo/errors"
	"github.com/stephenafamo/sentryscope/identity"
)

// FileEntry is one token in the tokens file:
//
//	[tokens.s3cr3t]
//	username = "foo_user"
//	authenticated = true
type FileEntry struct {
	Username string `toml:"username"`
	// Defaults to true
	Authenticated *bool `toml:"authenticated"`
}

type fileContent struct {
	Tokens map[string]FileEntry `toml:"tokens"`
}

// File authenticates bearer tokens listed in a TOML file.
// The principal of a known token is its username as a plain string.
type File struct {
	Path string

	mu           sync.RWMutex
	tokens       map[string]identity.StaticToken
	lastModified time.Time
}

func NewFile(path string) (*File, error) {
	f := &File{Path: path}
	if err := f.Reload(); err != nil {
		return nil, err
	}

	return f, nil
}

// Reload reads the file again and replaces every known token
func (f *File) Reload() error {
	info, err := os.Stat(f.Path)
	if err != nil {
		return errors.Wrapf(err, "could not stat tokens file %q", f.Path)
	}

	var content fileContent
	if _, err := toml.DecodeFile(f.Path, &content); err != nil {
		return errors.Wrapf(err, "could not decode tokens file %q", f.Path)
	}

	tokens := make(map[string]identity.StaticToken, len(content.Tokens))
	for raw, entry := range content.Tokens {
		token := identity.StaticToken{Authenticated: true}
		if entry.Authenticated != nil {
			token.Authenticated = *entry.Authenticated
		}
		if entry.Username != "" {
			token.User = entry.Username
		}

		tokens[raw] = token
	}

	f.mu.Lock()
	f.tokens = tokens
	f.lastModified = info.ModTime()
	f.mu.Unlock()

	return nil
}

// ReloadIfChanged reloads the file when it was modified since the last load
func (f *File) ReloadIfChanged() (bool, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return false, errors.Wrapf(err, "could not stat tokens file %q", f.Path)
	}

	f.mu.RLock()
	changed := info.ModTime().After(f.lastModified)
	f.mu.RUnlock()

	if !changed {
		return false, nil
	}

	return true, f.Reload()
}

// Authenticate looks up the bearer token. An unknown token is returned as
// unauthenticated.
func (f *File) Authenticate(r *http.Request) (identity.Token, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return nil, nil
	}

	f.mu.RLock()
	token, known := f.tokens[raw]
	f.mu.RUnlock()

	if !known {
		return identity.StaticToken{}, nil
	}

	return token, nil
}
