package keys

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	"github.com/heliochain/go-helios/inter/accountpk"
	"github.com/heliochain/go-helios/utils/cser"
)

// Keypair file layout (CSER):
//
//	magic "hkey" | version | pubkey | encrypted?
//	plain:     seed
//	encrypted: scrypt N,r,p | salt | nonce | sealed seed
//
// The pubkey is stored in the clear either way, so tools can resolve a
// public key from a keypair file without the passphrase.

var fileMagic = []byte("hkey")

const fileVersion = 1

// scrypt parameters for passphrase-protected files. Variables so tests
// can lower the work factor.
var (
	StandardScryptN = 1 << 18
	StandardScryptR = 8
	StandardScryptP = 1
)

const (
	saltSize  = 16
	nonceSize = 24
)

// WriteFile persists the keypair to path, mode 0600. A non-empty
// passphrase encrypts the seed with scrypt+secretbox and a fresh salt.
// Existing files are never overwritten unless force is set. The file is
// written to a temp name and renamed into place.
func (km *KeyMaterial) WriteFile(path string, passphrase string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrFileExists, path)
	}

	raw, err := km.encode(passphrase)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := ioutil.TempFile(dir, "."+filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadFile loads a keypair from path. ErrDecryptionFailed is returned on a
// wrong passphrase; no secret bytes are exposed in that case.
func ReadFile(path string, passphrase string) (*KeyMaterial, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(raw, passphrase)
}

// ReadPubkey resolves an account public key from path. The file may be a
// keypair file (the stored pubkey is returned, no passphrase needed) or a
// text file holding a base58 pubkey.
func ReadPubkey(path string) (accountpk.PubKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return accountpk.PubKey{}, err
	}
	if pk, err := decodePubkey(raw); err == nil {
		return pk, nil
	}
	return accountpk.FromString(strings.TrimSpace(string(raw)))
}

func (km *KeyMaterial) encode(passphrase string) ([]byte, error) {
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		w.FixedBytes(fileMagic)
		w.U8(fileVersion)
		w.FixedBytes(km.pubkey.Bytes())
		encrypted := len(passphrase) > 0
		w.Bool(encrypted)

		if !encrypted {
			w.FixedBytes(km.seed)
			return nil
		}

		salt := make([]byte, saltSize)
		if _, err := rand.Read(salt); err != nil {
			return fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
		}
		var nonce [nonceSize]byte
		if _, err := rand.Read(nonce[:]); err != nil {
			return fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
		}

		key, err := deriveKey(passphrase, salt, StandardScryptN, StandardScryptR, StandardScryptP)
		if err != nil {
			return err
		}
		sealed := secretbox.Seal(nil, km.seed, &nonce, key)

		w.U32(uint32(StandardScryptN))
		w.U8(uint8(StandardScryptR))
		w.U8(uint8(StandardScryptP))
		w.SliceBytes(salt)
		w.FixedBytes(nonce[:])
		w.SliceBytes(sealed)
		return nil
	})
}

func decode(raw []byte, passphrase string) (km *KeyMaterial, err error) {
	var seed []byte
	var stored accountpk.PubKey

	err = cser.UnmarshalBinaryAdapter(raw, func(r *cser.Reader) error {
		magic := make([]byte, len(fileMagic))
		r.FixedBytes(magic)
		if subtle.ConstantTimeCompare(magic, fileMagic) != 1 {
			return ErrCorruptKeyFile
		}
		if r.U8() != fileVersion {
			return ErrCorruptKeyFile
		}

		pkBytes := make([]byte, accountpk.Size)
		r.FixedBytes(pkBytes)
		pk, err := accountpk.FromBytes(pkBytes)
		if err != nil {
			return ErrCorruptKeyFile
		}
		stored = pk

		if !r.Bool() {
			seed = make([]byte, SeedSize)
			r.FixedBytes(seed)
			return nil
		}

		scryptN := int(r.U32())
		scryptR := int(r.U8())
		scryptP := int(r.U8())
		salt := r.SliceBytes(64)
		var nonce [nonceSize]byte
		r.FixedBytes(nonce[:])
		sealed := r.SliceBytes(256)

		key, err := deriveKey(passphrase, salt, scryptN, scryptR, scryptP)
		if err != nil {
			return ErrCorruptKeyFile
		}
		opened, ok := secretbox.Open(nil, sealed, &nonce, key)
		if !ok {
			return ErrDecryptionFailed
		}
		if len(opened) != SeedSize {
			return ErrCorruptKeyFile
		}
		seed = opened
		return nil
	})
	if err != nil {
		if err == cser.ErrMalformedEncoding || err == cser.ErrNonCanonicalEncoding {
			err = fmt.Errorf("%w: %v", ErrCorruptKeyFile, err)
		}
		return nil, err
	}

	km, err = FromSeed(seed)
	if err != nil {
		return nil, err
	}
	// the stored pubkey must match the one re-derived from the seed
	if km.pubkey != stored {
		return nil, ErrCorruptKeyFile
	}
	return km, nil
}

func decodePubkey(raw []byte) (accountpk.PubKey, error) {
	var pk accountpk.PubKey
	err := cser.UnmarshalBinaryAdapter(raw, func(r *cser.Reader) error {
		magic := make([]byte, len(fileMagic))
		r.FixedBytes(magic)
		if subtle.ConstantTimeCompare(magic, fileMagic) != 1 {
			return ErrCorruptKeyFile
		}
		if r.U8() != fileVersion {
			return ErrCorruptKeyFile
		}
		pkBytes := make([]byte, accountpk.Size)
		r.FixedBytes(pkBytes)
		got, err := accountpk.FromBytes(pkBytes)
		if err != nil {
			return ErrCorruptKeyFile
		}
		pk = got

		// skip the secret part without decrypting
		if !r.Bool() {
			r.FixedBytes(make([]byte, SeedSize))
			return nil
		}
		_ = r.U32()
		_ = r.U8()
		_ = r.U8()
		_ = r.SliceBytes(64)
		r.FixedBytes(make([]byte, nonceSize))
		_ = r.SliceBytes(256)
		return nil
	})
	if err != nil {
		return accountpk.PubKey{}, err
	}
	return pk, nil
}

func deriveKey(passphrase string, salt []byte, n, r, p int) (*[32]byte, error) {
	derived, err := scrypt.Key([]byte(passphrase), salt, n, r, p, 32)
	if err != nil {
		return nil, err
	}
	var key [32]byte
	copy(key[:], derived)
	return &key, nil
}
