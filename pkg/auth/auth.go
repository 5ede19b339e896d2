// Package auth validates API keys presented in the X-API-Key request
// header against a static keyring. Keys are hashed with SHA-256 at
// construction and compared in constant time; plaintext keys are not
// retained.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"net/http"
)

// HeaderName is the request header carrying the client's API key.
const HeaderName = "X-API-Key"

// ErrUnauthenticated is returned when a request carries no key or a key
// not present in the keyring.
var ErrUnauthenticated = errors.New("invalid or missing API key")

// Keyring holds the set of accepted API key hashes.
type Keyring struct {
	hashes [][32]byte
}

// NewKeyring builds a keyring from raw keys. Empty keys are skipped so a
// blank configuration value cannot open the gateway.
func NewKeyring(keys ...string) *Keyring {
	k := &Keyring{}
	for _, key := range keys {
		if key == "" {
			continue
		}
		k.hashes = append(k.hashes, sha256.Sum256([]byte(key)))
	}
	return k
}

// Empty reports whether the keyring holds no keys. An empty keyring
// rejects every request.
func (k *Keyring) Empty() bool {
	return len(k.hashes) == 0
}

// Verify reports whether the presented key matches any keyring entry.
// All stored hashes are compared so timing does not reveal which entry
// matched.
func (k *Keyring) Verify(key string) bool {
	if key == "" {
		return false
	}
	presented := sha256.Sum256([]byte(key))
	matched := 0
	for _, h := range k.hashes {
		matched |= subtle.ConstantTimeCompare(presented[:], h[:])
	}
	return matched == 1
}

// Authenticate checks the request's X-API-Key header against the keyring.
func (k *Keyring) Authenticate(r *http.Request) error {
	if !k.Verify(r.Header.Get(HeaderName)) {
		return ErrUnauthenticated
	}
	return nil
}
