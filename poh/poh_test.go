package poh

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestChainDeterminism(t *testing.T) {
	require := require.New(t)

	seed := common.HexToHash("0x01")
	a := NewState(seed, 8)
	b := NewState(seed, 8)

	for i := 0; i < 7; i++ {
		require.Nil(a.Tick())
		require.Nil(b.Tick())
	}
	ea := a.Tick()
	eb := b.Tick()
	require.NotNil(ea)
	require.NotNil(eb)
	require.Equal(ea.Hash, eb.Hash)
	require.Equal(uint64(8), ea.NumHashes)
	require.Equal(uint64(1), a.TickNumber())
}

func TestHashStopsBeforeTickBoundary(t *testing.T) {
	require := require.New(t)

	s := NewState(common.Hash{}, 4)
	require.False(s.Hash(1))
	require.False(s.Hash(1))
	require.True(s.Hash(100)) // clamped to remaining-1

	e := s.Tick()
	require.NotNil(e)
	require.Equal(uint64(4), e.NumHashes)
}

func TestRecord(t *testing.T) {
	require := require.New(t)

	s := NewState(common.Hash{}, 4)
	mixin := common.HexToHash("0xff")

	e := s.Record(mixin)
	require.NotNil(e)
	require.Equal(uint64(1), e.NumHashes)

	// mixing different data diverges the chain
	s2 := NewState(common.Hash{}, 4)
	e2 := s2.Record(common.HexToHash("0xfe"))
	require.NotNil(e2)
	require.NotEqual(e.Hash, e2.Hash)

	// at the tick boundary, record must defer to tick
	s3 := NewState(common.Hash{}, 2)
	require.NotNil(s3.Record(mixin)) // consumes down to the boundary
	require.Nil(s3.Record(mixin))
	require.NotNil(s3.Tick())
}

func TestLowPowerMode(t *testing.T) {
	require := require.New(t)

	s := NewState(common.Hash{}, 0)
	// every tick emits an entry in low power mode
	for i := 0; i < 3; i++ {
		e := s.Tick()
		require.NotNil(e)
		require.Equal(uint64(1), e.NumHashes)
	}
	require.Equal(uint64(3), s.TickNumber())
}
