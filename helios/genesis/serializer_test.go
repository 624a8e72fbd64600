package genesis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heliochain/go-helios/utils/cser"
)

func TestCanonicalBytesDeterminism(t *testing.T) {
	require := require.New(t)

	a, err := testConfig().CanonicalBytes()
	require.NoError(err)
	b, err := testConfig().CanonicalBytes()
	require.NoError(err)
	require.Equal(a, b)

	ha, err := testConfig().Hash()
	require.NoError(err)
	hb, err := testConfig().Hash()
	require.NoError(err)
	require.Equal(ha, hb)
}

func TestCanonicalBytesOrderIndependent(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	cfg.Accounts = append(cfg.Accounts,
		AccountDeclaration{Pubkey: testPubkey(9), Lamports: 5, Owner: SystemProgramID},
		AccountDeclaration{Pubkey: testPubkey(6), Lamports: 7, Owner: SystemProgramID},
	)
	a, err := cfg.CanonicalBytes()
	require.NoError(err)

	// same declarations, shuffled
	shuffled := testConfig()
	shuffled.Accounts = append(
		[]AccountDeclaration{
			{Pubkey: testPubkey(6), Lamports: 7, Owner: SystemProgramID},
			{Pubkey: testPubkey(9), Lamports: 5, Owner: SystemProgramID},
		},
		shuffled.Accounts...,
	)
	b, err := shuffled.CanonicalBytes()
	require.NoError(err)
	require.Equal(a, b)
}

func TestTamperSensitivity(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	base, err := cfg.Hash()
	require.NoError(err)

	cfg.Accounts[0].Lamports++
	changed, err := cfg.Hash()
	require.NoError(err)
	require.NotEqual(base, changed)

	raw, err := testConfig().CanonicalBytes()
	require.NoError(err)
	raw[len(raw)/2] ^= 0x01
	require.NotEqual(base, HashOf(raw))
}

func TestDecodeRoundTrip(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	cfg.Accounts = append(cfg.Accounts,
		AccountDeclaration{Pubkey: testPubkey(9), Lamports: 5, Owner: SystemProgramID},
	)
	raw, err := cfg.CanonicalBytes()
	require.NoError(err)

	got, err := Decode(raw)
	require.NoError(err)

	raw2, err := got.CanonicalBytes()
	require.NoError(err)
	require.Equal(raw, raw2)

	require.Equal(cfg.CreationTime, got.CreationTime)
	require.Equal(cfg.ClusterType, got.ClusterType)
	require.Equal(cfg.EpochSchedule, got.EpochSchedule)
	require.Equal(cfg.TicksPerSlot, got.TicksPerSlot)
	require.Equal(cfg.HashesPerTick, got.HashesPerTick)
	require.Equal(cfg.TargetTickDuration, got.TargetTickDuration)
	require.Equal(cfg.Fee, got.Fee)
	require.Equal(cfg.Rent, got.Rent)
	require.Equal(cfg.Bootstrap, got.Bootstrap)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	require := require.New(t)

	raw, err := testConfig().CanonicalBytes()
	require.NoError(err)

	// truncation
	_, err = Decode(raw[:len(raw)-1])
	require.Error(err)

	// trailing data
	_, err = Decode(append(append([]byte{}, raw...), 0x00))
	require.Error(err)

	// empty
	_, err = Decode(nil)
	require.Error(err)
}

func TestDecodeRejectsUnsortedAccounts(t *testing.T) {
	require := require.New(t)

	cfg := testConfig()
	cfg.Accounts = append(cfg.Accounts,
		AccountDeclaration{Pubkey: testPubkey(9), Lamports: 5, Owner: SystemProgramID},
	)
	raw, err := cfg.CanonicalBytes()
	require.NoError(err)

	// swap the two sorted account records in place; each record is
	// 4*32 + 1 byte fixed fields plus the varint balances, so rebuild
	// instead: decode, swap, re-encode by hand through the writer
	decoded, err := Decode(raw)
	require.NoError(err)
	require.Len(decoded.Accounts, 2)

	forged, err := cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		w.U8(encodingVersion)
		w.U64(uint64(decoded.CreationTime))
		w.U8(uint8(decoded.ClusterType))
		w.U64(decoded.TicksPerSlot)
		w.U64(decoded.HashesPerTick)
		w.U64(uint64(decoded.TargetTickDuration))
		w.U64(decoded.EpochSchedule.SlotsPerEpoch)
		w.Bool(decoded.EpochSchedule.Warmup)
		w.U64(decoded.EpochSchedule.MinSlotsPerEpoch)
		w.U32(uint32(decoded.EpochSchedule.FirstNormalEpoch))
		w.U64(decoded.EpochSchedule.FirstNormalSlot)
		w.U64(decoded.Fee.TargetLamportsPerSignature)
		w.U64(decoded.Fee.TargetSignaturesPerSlot)
		w.U8(decoded.Fee.BurnPercent)
		w.U64(decoded.Rent.LamportsPerByteYear)
		w.U64(decoded.Rent.ExemptionThresholdCentiYears)
		w.U8(decoded.Rent.BurnPercent)
		writeAccount(w, &decoded.Bootstrap.Identity)
		writeAccount(w, &decoded.Bootstrap.Vote)
		writeAccount(w, &decoded.Bootstrap.Stake)
		w.U56(2)
		writeAccount(w, &decoded.Accounts[1]) // reversed order
		writeAccount(w, &decoded.Accounts[0])
		return nil
	})
	require.NoError(err)

	_, err = Decode(forged)
	require.True(errors.Is(err, cser.ErrNonCanonicalEncoding))
}
