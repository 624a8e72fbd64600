// Package inter holds the small value types shared across the genesis and
// key subsystems.
package inter

import (
	"time"
)

// Timestamp is a UNIX timestamp in nanoseconds.
type Timestamp uint64

// Lamports is a token amount in the smallest base unit.
type Lamports uint64

// FromTime converts a time.Time into a Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixNano())
}

// Time converts the Timestamp into a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t))
}

// MaxTimestamp is used as an upper bound in interval checks.
const MaxTimestamp = Timestamp(1<<63 - 1)
