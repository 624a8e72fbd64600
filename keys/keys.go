// Package keys implements keypair generation, recovery and storage for the
// faucet and bootstrap validator identities. A keypair is derived from a
// BIP-39 mnemonic so an operator can always regenerate it from the phrase;
// the on-disk form optionally encrypts the seed under a passphrase.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/tyler-smith/go-bip39"

	"github.com/heliochain/go-helios/inter/accountpk"
)

var (
	ErrEntropyUnavailable = errors.New("secure entropy unavailable")
	ErrFileExists         = errors.New("keypair file already exists")
	ErrDecryptionFailed   = errors.New("keypair decryption failed")
	ErrCorruptKeyFile     = errors.New("corrupt keypair file")
	ErrBadMnemonic        = errors.New("invalid mnemonic phrase")
)

// SeedSize is the length of the secret seed in bytes.
const SeedSize = ed25519.SeedSize

// KeyMaterial is a signing keypair. The public key is always a pure
// function of the seed; both are fixed once created.
type KeyMaterial struct {
	seed   []byte
	priv   ed25519.PrivateKey
	pubkey accountpk.PubKey
}

// Generate draws 256 bits from the entropy source (crypto/rand if nil),
// encodes them as a BIP-39 mnemonic and derives the keypair from the
// mnemonic and seed passphrase. The mnemonic is returned so the caller can
// display it for backup; Recover with the same phrase and passphrase
// yields the same keypair.
func Generate(entropy io.Reader, seedPassphrase string) (*KeyMaterial, string, error) {
	if entropy == nil {
		entropy = rand.Reader
	}
	raw := make([]byte, 32)
	if _, err := io.ReadFull(entropy, raw); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}

	mnemonic, err := bip39.NewMnemonic(raw)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}

	km, err := Recover(mnemonic, seedPassphrase)
	if err != nil {
		return nil, "", err
	}
	return km, mnemonic, nil
}

// Recover re-derives a keypair from its mnemonic phrase and seed
// passphrase.
func Recover(mnemonic string, seedPassphrase string) (*KeyMaterial, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrBadMnemonic
	}
	derived := bip39.NewSeed(mnemonic, seedPassphrase)
	return FromSeed(derived[:SeedSize])
}

// FromSeed builds a KeyMaterial from a raw 32-byte seed.
func FromSeed(seed []byte) (*KeyMaterial, error) {
	if len(seed) != SeedSize {
		return nil, ErrCorruptKeyFile
	}
	cp := make([]byte, SeedSize)
	copy(cp, seed)
	priv := ed25519.NewKeyFromSeed(cp)
	pubkey, err := accountpk.FromBytes(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &KeyMaterial{
		seed:   cp,
		priv:   priv,
		pubkey: pubkey,
	}, nil
}

// PublicKey returns the account public key.
func (km *KeyMaterial) PublicKey() accountpk.PubKey {
	return km.pubkey
}

// Sign signs msg with the secret key.
func (km *KeyMaterial) Sign(msg []byte) []byte {
	return ed25519.Sign(km.priv, msg)
}

// Verify checks a signature against this keypair's public key.
func (km *KeyMaterial) Verify(msg, sig []byte) bool {
	return km.pubkey.Verify(msg, sig)
}
