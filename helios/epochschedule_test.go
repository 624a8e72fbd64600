package helios

import (
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/stretchr/testify/require"
)

func TestWarmupProgression(t *testing.T) {
	require := require.New(t)

	es := NewWarmupEpochSchedule(32, 1024)
	require.True(es.Warmup)
	require.Equal(idx.Epoch(5), es.FirstNormalEpoch)
	require.Equal(uint64(32*(1<<5-1)), es.FirstNormalSlot)

	exp := []uint64{32, 64, 128, 256, 512, 1024, 1024, 1024}
	for e, slots := range exp {
		require.Equal(slots, es.SlotsInEpoch(idx.Epoch(e)), "epoch %d", e)
	}
}

func TestFixedSchedule(t *testing.T) {
	require := require.New(t)

	es := NewEpochSchedule(1024)
	require.False(es.Warmup)
	for e := idx.Epoch(0); e < 10; e++ {
		require.Equal(uint64(1024), es.SlotsInEpoch(e))
	}
	require.Equal(uint64(0), es.FirstSlotInEpoch(0))
	require.Equal(uint64(3*1024), es.FirstSlotInEpoch(3))
}

func TestWarmupDegeneratesToFixed(t *testing.T) {
	require := require.New(t)

	es := NewWarmupEpochSchedule(1024, 1024)
	require.False(es.Warmup)
	require.Equal(uint64(1024), es.SlotsInEpoch(0))

	es = NewWarmupEpochSchedule(2048, 1024)
	require.False(es.Warmup)
	require.Equal(uint64(1024), es.SlotsInEpoch(0))
}

func TestEpochOfSlot(t *testing.T) {
	require := require.New(t)

	es := NewWarmupEpochSchedule(32, 1024)

	// warmup boundaries
	require.Equal(idx.Epoch(0), es.EpochOfSlot(0))
	require.Equal(idx.Epoch(0), es.EpochOfSlot(31))
	require.Equal(idx.Epoch(1), es.EpochOfSlot(32))
	require.Equal(idx.Epoch(1), es.EpochOfSlot(95))
	require.Equal(idx.Epoch(2), es.EpochOfSlot(96))

	// steady state
	first := es.FirstNormalSlot
	require.Equal(es.FirstNormalEpoch, es.EpochOfSlot(first))
	require.Equal(es.FirstNormalEpoch+1, es.EpochOfSlot(first+1024))

	// slots-in-epoch and first-slot agree
	for e := idx.Epoch(0); e < 8; e++ {
		start := es.FirstSlotInEpoch(e)
		require.Equal(e, es.EpochOfSlot(start), "start of epoch %d", e)
		require.Equal(e, es.EpochOfSlot(start+es.SlotsInEpoch(e)-1), "end of epoch %d", e)
	}
}

func TestNonPowerOfTwoFloorRoundsUp(t *testing.T) {
	require := require.New(t)

	es := NewWarmupEpochSchedule(33, 1024)
	require.Equal(uint64(64), es.MinSlotsPerEpoch)
	require.Equal(uint64(64), es.SlotsInEpoch(0))
}
