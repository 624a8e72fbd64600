package helios

import (
	"math/bits"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
)

// EpochSchedule describes how many slots each epoch contains. Without
// warmup every epoch has SlotsPerEpoch slots. With warmup the first
// epochs start at the minimum floor and double until SlotsPerEpoch is
// reached, which shortens the feedback loop for bootstrap validators
// while stake activates.
type EpochSchedule struct {
	// SlotsPerEpoch is the steady-state epoch length.
	SlotsPerEpoch uint64

	// Warmup enables the doubling progression.
	Warmup bool

	// MinSlotsPerEpoch is the floor of the progression (epoch 0 length).
	MinSlotsPerEpoch uint64

	// FirstNormalEpoch is the first epoch of steady-state length.
	FirstNormalEpoch idx.Epoch

	// FirstNormalSlot is the absolute slot at which FirstNormalEpoch
	// begins.
	FirstNormalSlot uint64
}

// NewEpochSchedule returns a constant schedule of slotsPerEpoch.
func NewEpochSchedule(slotsPerEpoch uint64) EpochSchedule {
	return EpochSchedule{
		SlotsPerEpoch:    slotsPerEpoch,
		Warmup:           false,
		MinSlotsPerEpoch: slotsPerEpoch,
		FirstNormalEpoch: 0,
		FirstNormalSlot:  0,
	}
}

// NewWarmupEpochSchedule returns a doubling schedule from minSlots up to
// slotsPerEpoch. A floor at or above the target degenerates to the
// constant schedule.
func NewWarmupEpochSchedule(minSlots uint64, slotsPerEpoch uint64) EpochSchedule {
	if minSlots == 0 {
		minSlots = MinimumSlotsPerEpoch
	}
	if minSlots >= slotsPerEpoch {
		return NewEpochSchedule(slotsPerEpoch)
	}

	// both bounds are treated as powers of two; round up otherwise
	minPow2 := nextPowerOfTwo(minSlots)
	targetPow2 := nextPowerOfTwo(slotsPerEpoch)

	firstNormalEpoch := idx.Epoch(log2(targetPow2) - log2(minPow2))
	firstNormalSlot := minPow2 * ((uint64(1) << firstNormalEpoch) - 1)

	return EpochSchedule{
		SlotsPerEpoch:    slotsPerEpoch,
		Warmup:           true,
		MinSlotsPerEpoch: minPow2,
		FirstNormalEpoch: firstNormalEpoch,
		FirstNormalSlot:  firstNormalSlot,
	}
}

// SlotsInEpoch returns the number of slots in the given epoch.
func (es EpochSchedule) SlotsInEpoch(epoch idx.Epoch) uint64 {
	if !es.Warmup || epoch >= es.FirstNormalEpoch {
		return es.SlotsPerEpoch
	}
	return es.MinSlotsPerEpoch << uint(epoch)
}

// FirstSlotInEpoch returns the absolute slot at which the epoch begins.
func (es EpochSchedule) FirstSlotInEpoch(epoch idx.Epoch) uint64 {
	if !es.Warmup || epoch >= es.FirstNormalEpoch {
		normal := uint64(epoch - es.FirstNormalEpoch)
		return es.FirstNormalSlot + normal*es.SlotsPerEpoch
	}
	return es.MinSlotsPerEpoch * ((uint64(1) << uint(epoch)) - 1)
}

// EpochOfSlot maps an absolute slot to its epoch.
func (es EpochSchedule) EpochOfSlot(slot uint64) idx.Epoch {
	if !es.Warmup || slot >= es.FirstNormalSlot {
		var offset uint64
		if es.Warmup {
			offset = slot - es.FirstNormalSlot
		} else {
			offset = slot
		}
		return es.FirstNormalEpoch + idx.Epoch(offset/es.SlotsPerEpoch)
	}
	// warmup region: epoch boundaries are at min*(2^k - 1)
	epoch := idx.Epoch(log2(slot/es.MinSlotsPerEpoch+1) + 1)
	for es.FirstSlotInEpoch(epoch) > slot {
		epoch--
	}
	return epoch
}

func nextPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	if v&(v-1) == 0 {
		return v
	}
	return uint64(1) << uint(bits.Len64(v))
}

func log2(v uint64) uint {
	return uint(bits.Len64(v) - 1)
}
