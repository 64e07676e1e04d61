package token

import "errors"

// ErrNoToken is returned when the store holds no bearer token.
var ErrNoToken = errors.New("token: no bearer token available")

// Store supplies the current bearer token. The storage behind it (keychain,
// preferences, env) is an external collaborator; this core only reads.
type Store interface {
	Token() (string, error)
}

// StaticStore is a Store holding a fixed token, used by the daemon and tests.
type StaticStore struct {
	Bearer string
}

func (s StaticStore) Token() (string, error) {
	if s.Bearer == "" {
		return "", ErrNoToken
	}
	return s.Bearer, nil
}
