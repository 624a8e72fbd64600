// Package accountpk defines the public key type that identifies accounts
// at genesis. Keys are ed25519 points, rendered as base58 in logs, files
// and on the command line.
package accountpk

import (
	"bytes"
	"crypto/ed25519"
	"errors"

	"github.com/mr-tron/base58"
)

// Size is the length of an account public key in bytes.
const Size = ed25519.PublicKeySize

var (
	// ErrBadPubkey is returned for text or bytes that do not form a key.
	ErrBadPubkey = errors.New("malformed account pubkey")
)

// PubKey is a 32-byte ed25519 account public key.
type PubKey [Size]byte

// FromBytes builds a PubKey from raw bytes.
func FromBytes(b []byte) (PubKey, error) {
	var pk PubKey
	if len(b) != Size {
		return pk, ErrBadPubkey
	}
	copy(pk[:], b)
	return pk, nil
}

// FromString parses a base58 string into a PubKey.
func FromString(s string) (PubKey, error) {
	if len(s) == 0 {
		return PubKey{}, ErrBadPubkey
	}
	b, err := base58.Decode(s)
	if err != nil {
		return PubKey{}, ErrBadPubkey
	}
	return FromBytes(b)
}

// Bytes returns a copy of the raw key bytes.
func (pk PubKey) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, pk[:])
	return b
}

// String returns the base58 representation.
func (pk PubKey) String() string {
	return base58.Encode(pk[:])
}

// Empty reports whether the key is all zeroes.
func (pk PubKey) Empty() bool {
	return pk == PubKey{}
}

// Less orders keys by their raw bytes. Canonical account ordering in the
// genesis encoding relies on it.
func (pk PubKey) Less(other PubKey) bool {
	return bytes.Compare(pk[:], other[:]) < 0
}

// Verify checks an ed25519 signature made by this key.
func (pk PubKey) Verify(msg, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pk[:]), msg, sig)
}
