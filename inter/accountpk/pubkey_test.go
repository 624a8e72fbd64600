package accountpk

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	require := require.New(t)

	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	exp, err := FromBytes(priv.Public().(ed25519.PublicKey))
	require.NoError(err)

	// round trip through base58
	{
		got, err := FromString(exp.String())
		require.NoError(err)
		require.Equal(exp, got)
	}

	// empty string
	{
		_, err := FromString("")
		require.Equal(ErrBadPubkey, err)
	}

	// invalid base58 characters
	{
		_, err := FromString("0OIl")
		require.Equal(ErrBadPubkey, err)
	}

	// wrong decoded length
	{
		_, err := FromString("3mJr7AoUXx2Wqd")
		require.Equal(ErrBadPubkey, err)
	}
}

func TestFromBytes(t *testing.T) {
	require := require.New(t)

	_, err := FromBytes(make([]byte, Size-1))
	require.Equal(ErrBadPubkey, err)

	pk, err := FromBytes(make([]byte, Size))
	require.NoError(err)
	require.True(pk.Empty())
}

func TestLess(t *testing.T) {
	require := require.New(t)

	var a, b PubKey
	b[0] = 1
	require.True(a.Less(b))
	require.False(b.Less(a))
	require.False(a.Less(a))
}

func TestVerify(t *testing.T) {
	require := require.New(t)

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(err)
	pk, err := FromBytes(pub)
	require.NoError(err)

	msg := []byte("tick")
	sig := ed25519.Sign(priv, msg)
	require.True(pk.Verify(msg, sig))
	sig[0] ^= 0xff
	require.False(pk.Verify(msg, sig))
}
