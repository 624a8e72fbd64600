// Package poh implements the tick hash chain and the genesis-time
// calibration of its density (hashes per tick).
package poh

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
)

// LowPowerMode disables density bookkeeping: every Tick emits an entry
// regardless of the hash count. Selected by hashesPerTick == 0.
const LowPowerMode = ^uint64(0)

// State is a running hash chain. Not safe for concurrent use.
type State struct {
	hash            common.Hash
	numHashes       uint64
	hashesPerTick   uint64
	remainingHashes uint64
	tickNumber      uint64
}

// Entry is one emitted chain entry: the number of hashes rolled since the
// previous entry and the resulting chain hash.
type Entry struct {
	NumHashes uint64
	Hash      common.Hash
}

// NewState starts a chain at seed. hashesPerTick == 0 selects low power
// mode; otherwise it must be above 1 so a tick always has room for its
// own closing hash.
func NewState(seed common.Hash, hashesPerTick uint64) *State {
	if hashesPerTick == 0 {
		hashesPerTick = LowPowerMode
	}
	if hashesPerTick == 1 {
		panic("hashesPerTick of 1 leaves no room to record")
	}
	return &State{
		hash:            seed,
		hashesPerTick:   hashesPerTick,
		remainingHashes: hashesPerTick,
	}
}

// Hash rolls up to maxNumHashes hashes, stopping one short of the tick
// boundary. Returns true when the caller must Tick next.
func (s *State) Hash(maxNumHashes uint64) bool {
	n := s.remainingHashes - 1
	if maxNumHashes < n {
		n = maxNumHashes
	}

	for i := uint64(0); i < n; i++ {
		s.hash = sha256.Sum256(s.hash[:])
	}
	s.numHashes += n
	s.remainingHashes -= n

	return s.remainingHashes == 1
}

// Record mixes external data into the chain. Returns nil when the tick
// boundary has been reached and Tick must be called first.
func (s *State) Record(mixin common.Hash) *Entry {
	if s.remainingHashes == 1 {
		return nil
	}

	h := sha256.New()
	h.Write(s.hash[:])
	h.Write(mixin[:])
	h.Sum(s.hash[:0])

	numHashes := s.numHashes + 1
	s.numHashes = 0
	s.remainingHashes--

	return &Entry{
		NumHashes: numHashes,
		Hash:      s.hash,
	}
}

// Tick rolls one hash and, at a tick boundary (or always, in low power
// mode), emits the tick entry and resets the per-tick counters.
func (s *State) Tick() *Entry {
	s.hash = sha256.Sum256(s.hash[:])
	s.numHashes++
	s.remainingHashes--

	if s.hashesPerTick != LowPowerMode && s.remainingHashes != 0 {
		return nil
	}

	numHashes := s.numHashes
	s.remainingHashes = s.hashesPerTick
	s.numHashes = 0
	s.tickNumber++
	return &Entry{
		NumHashes: numHashes,
		Hash:      s.hash,
	}
}

// TickNumber returns the count of emitted ticks.
func (s *State) TickNumber() uint64 {
	return s.tickNumber
}
