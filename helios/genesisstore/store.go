// Package genesisstore persists a genesis config as a compressed archive
// next to a hash manifest, and verifies archives produced elsewhere.
//
// Layout inside the ledger directory:
//
//	genesis.tar.lz4  - tar archive, lz4-compressed, one entry "genesis.bin"
//	genesis.hash     - hex content hash of genesis.bin, newline-terminated
//
// The archive is bit-reproducible for a given config: tar metadata is
// pinned, the payload is the canonical serialization, and writes go
// through a temp file plus rename so readers never observe a partial
// archive.
package genesisstore

import (
	"archive/tar"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pierrec/lz4/v4"
	"github.com/sirupsen/logrus"

	"github.com/heliochain/go-helios/helios/genesis"
)

const (
	ArchiveName  = "genesis.tar.lz4"
	HashFileName = "genesis.hash"
	payloadName  = "genesis.bin"
)

var (
	ErrArchiveTooLarge         = errors.New("genesis archive exceeds the unpacked size limit")
	ErrLedgerDirectoryNotEmpty = errors.New("ledger directory is not empty")
	ErrArchiveCorrupt          = errors.New("genesis archive is corrupt")
	ErrGenesisHashMismatch     = errors.New("genesis hash mismatch")
)

// Save validates the config, archives it under ledgerDir and writes the
// hash manifest. A non-empty ledger directory is refused unless force is
// set. Returns the content hash of the archived payload.
func Save(ledgerDir string, cfg *genesis.Config, maxUnpacked uint64, force bool) (common.Hash, error) {
	if err := cfg.Validate(); err != nil {
		return common.Hash{}, err
	}
	raw, err := cfg.CanonicalBytes()
	if err != nil {
		return common.Hash{}, err
	}
	if uint64(len(raw)) > maxUnpacked {
		return common.Hash{}, fmt.Errorf("%w: %d > %d bytes", ErrArchiveTooLarge, len(raw), maxUnpacked)
	}

	if err := os.MkdirAll(ledgerDir, 0755); err != nil {
		return common.Hash{}, err
	}
	if !force {
		if err := ensureEmpty(ledgerDir); err != nil {
			return common.Hash{}, err
		}
	}

	h := genesis.HashOf(raw)

	archive, err := packArchive(raw, cfg.CreationTime.Time())
	if err != nil {
		return common.Hash{}, err
	}
	if err := writeAtomically(filepath.Join(ledgerDir, ArchiveName), archive); err != nil {
		return common.Hash{}, err
	}
	manifest := []byte(hex.EncodeToString(h[:]) + "\n")
	if err := writeAtomically(filepath.Join(ledgerDir, HashFileName), manifest); err != nil {
		return common.Hash{}, err
	}

	logrus.WithFields(logrus.Fields{
		"dir":  ledgerDir,
		"hash": h.Hex(),
		"size": len(raw),
	}).Info("Saved genesis archive")
	return h, nil
}

// Open reads the archive under ledgerDir, enforcing the unpacked size
// limit, and returns the decoded config with its content hash.
func Open(ledgerDir string, maxUnpacked uint64) (*genesis.Config, common.Hash, error) {
	f, err := os.Open(filepath.Join(ledgerDir, ArchiveName))
	if err != nil {
		return nil, common.Hash{}, err
	}
	defer f.Close()

	raw, err := unpackArchive(f, maxUnpacked)
	if err != nil {
		return nil, common.Hash{}, err
	}

	cfg, err := genesis.Decode(raw)
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("%w: %v", ErrArchiveCorrupt, err)
	}
	return cfg, genesis.HashOf(raw), nil
}

// Verify re-reads the archive, re-validates the decoded config, and
// checks the recomputed hash against the stored manifest and, when
// expected is non-nil, against the caller's hash as well.
func Verify(ledgerDir string, expected *common.Hash, maxUnpacked uint64) (common.Hash, error) {
	cfg, got, err := Open(ledgerDir, maxUnpacked)
	if err != nil {
		return common.Hash{}, err
	}
	if err := cfg.Validate(); err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrArchiveCorrupt, err)
	}

	stored, err := readManifest(filepath.Join(ledgerDir, HashFileName))
	if err != nil {
		return common.Hash{}, err
	}
	if got != stored {
		return common.Hash{}, fmt.Errorf("%w: archive %s, manifest %s",
			ErrGenesisHashMismatch, got.Hex(), stored.Hex())
	}
	if expected != nil && got != *expected {
		return common.Hash{}, fmt.Errorf("%w: archive %s, expected %s",
			ErrGenesisHashMismatch, got.Hex(), expected.Hex())
	}
	return got, nil
}

func ensureEmpty(dir string) error {
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s", ErrLedgerDirectoryNotEmpty, dir)
	}
	return nil
}

// packArchive builds the tar+lz4 blob in memory. Header metadata is
// pinned so identical payloads compress to identical archives.
func packArchive(payload []byte, mtime time.Time) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := lz4.NewWriter(buf)
	tw := tar.NewWriter(zw)

	err := tw.WriteHeader(&tar.Header{
		Name:    payloadName,
		Mode:    0644,
		Size:    int64(len(payload)),
		ModTime: mtime.UTC(),
		Format:  tar.FormatPAX,
	})
	if err != nil {
		return nil, err
	}
	if _, err := tw.Write(payload); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unpackArchive(r io.Reader, maxUnpacked uint64) ([]byte, error) {
	tr := tar.NewReader(lz4.NewReader(r))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: no %s entry", ErrArchiveCorrupt, payloadName)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArchiveCorrupt, err)
		}
		if hdr.Name != payloadName {
			continue
		}
		if hdr.Size < 0 || uint64(hdr.Size) > maxUnpacked {
			return nil, fmt.Errorf("%w: entry declares %d bytes, limit %d",
				ErrArchiveTooLarge, hdr.Size, maxUnpacked)
		}
		// trust the limit, not the header
		raw, err := ioutil.ReadAll(io.LimitReader(tr, int64(maxUnpacked)+1))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArchiveCorrupt, err)
		}
		if uint64(len(raw)) > maxUnpacked {
			return nil, fmt.Errorf("%w: payload exceeds %d bytes", ErrArchiveTooLarge, maxUnpacked)
		}
		return raw, nil
	}
}

func readManifest(path string) (common.Hash, error) {
	text, err := ioutil.ReadFile(path)
	if err != nil {
		return common.Hash{}, err
	}
	raw, err := hex.DecodeString(strings.TrimSpace(string(text)))
	if err != nil || len(raw) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: malformed hash manifest", ErrArchiveCorrupt)
	}
	return common.BytesToHash(raw), nil
}

// writeAtomically lands the file via a temp sibling and rename, so a
// crash mid-write leaves either the old file or none.
func writeAtomically(path string, data []byte) error {
	tmp, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
