package cser

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, write func(*Writer), read func(*Reader)) {
	t.Helper()
	buf, err := MarshalBinaryAdapter(func(w *Writer) error {
		write(w)
		return nil
	})
	require.NoError(t, err)
	err = UnmarshalBinaryAdapter(buf, func(r *Reader) error {
		read(r)
		return nil
	})
	require.NoError(t, err)
}

func TestUintsRoundTrip(t *testing.T) {
	require := require.New(t)

	for _, v := range []uint64{0, 1, 0xff, 0x100, 0xffff, 0x10000, math.MaxUint32, math.MaxUint64} {
		v := v
		roundTrip(t,
			func(w *Writer) { w.U64(v) },
			func(r *Reader) { require.Equal(v, r.U64()) },
		)
	}

	roundTrip(t,
		func(w *Writer) {
			w.U8(7)
			w.U16(0xbeef)
			w.U32(0xdeadbeef)
			w.U56(1 << 40)
			w.VarUint(42)
		},
		func(r *Reader) {
			require.Equal(uint8(7), r.U8())
			require.Equal(uint16(0xbeef), r.U16())
			require.Equal(uint32(0xdeadbeef), r.U32())
			require.Equal(uint64(1<<40), r.U56())
			require.Equal(uint64(42), r.VarUint())
		},
	)
}

func TestI64RoundTrip(t *testing.T) {
	require := require.New(t)

	for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64 + 1} {
		v := v
		roundTrip(t,
			func(w *Writer) { w.I64(v) },
			func(r *Reader) { require.Equal(v, r.I64()) },
		)
	}
}

func TestBools(t *testing.T) {
	require := require.New(t)

	// more than 8 booleans, to cross a bitstream byte boundary
	exp := []bool{true, false, true, true, false, false, true, false, true, true, false}
	roundTrip(t,
		func(w *Writer) {
			for _, b := range exp {
				w.Bool(b)
			}
		},
		func(r *Reader) {
			for _, b := range exp {
				require.Equal(b, r.Bool())
			}
		},
	)
}

func TestBytes(t *testing.T) {
	require := require.New(t)

	fixed := []byte{1, 2, 3, 4, 5}
	slice := []byte("genesis")
	empty := []byte{}

	roundTrip(t,
		func(w *Writer) {
			w.FixedBytes(fixed)
			w.SliceBytes(slice)
			w.SliceBytes(empty)
		},
		func(r *Reader) {
			got := make([]byte, len(fixed))
			r.FixedBytes(got)
			require.Equal(fixed, got)
			require.Equal(slice, r.SliceBytes(MaxAlloc))
			require.Equal(empty, r.SliceBytes(MaxAlloc))
		},
	)
}

func TestSliceBytesAllocLimit(t *testing.T) {
	require := require.New(t)

	buf, err := MarshalBinaryAdapter(func(w *Writer) error {
		w.SliceBytes(make([]byte, 100))
		return nil
	})
	require.NoError(err)

	err = UnmarshalBinaryAdapter(buf, func(r *Reader) error {
		_ = r.SliceBytes(10)
		return nil
	})
	require.Equal(ErrMalformedEncoding, err)
}

func TestBigInt(t *testing.T) {
	require := require.New(t)

	for _, v := range []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		new(big.Int).SetUint64(math.MaxUint64),
		new(big.Int).Lsh(big.NewInt(1), 200),
	} {
		v := v
		roundTrip(t,
			func(w *Writer) { w.BigInt(v) },
			func(r *Reader) { require.Equal(v.String(), r.BigInt().String()) },
		)
	}
}

func TestPaddedBytes(t *testing.T) {
	require := require.New(t)

	require.Equal([]byte{0, 0, 1}, PaddedBytes([]byte{1}, 3))
	require.Equal([]byte{1, 2, 3}, PaddedBytes([]byte{1, 2, 3}, 2))
}

func TestPaddedIntIsRejected(t *testing.T) {
	require := require.New(t)

	buf, err := MarshalBinaryAdapter(func(w *Writer) error {
		w.U64(5)
		return nil
	})
	require.NoError(err)

	// force the size side channel to claim 2 bytes for a 1-byte value
	bbits, bbytes, err := binaryToCSER(buf)
	require.NoError(err)
	require.Equal([]byte{5}, bbytes)
	bbits.Bytes[0] = 0x01 // size offset 1 -> 2 bytes
	padded, err := binaryFromCSER(bbits, []byte{5, 0})
	require.NoError(err)

	err = UnmarshalBinaryAdapter(padded, func(r *Reader) error {
		_ = r.U64()
		return nil
	})
	require.Error(err)
}
