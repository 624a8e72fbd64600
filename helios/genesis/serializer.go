package genesis

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"

	"github.com/heliochain/go-helios/helios"
	"github.com/heliochain/go-helios/inter"
	"github.com/heliochain/go-helios/inter/accountpk"
	"github.com/heliochain/go-helios/utils/cser"
)

// encodingVersion is bumped whenever the canonical layout changes; a
// version bump means a different genesis hash, i.e. a different cluster.
const encodingVersion = 1

// maxDecodedAccounts bounds allocation while decoding untrusted archives.
const maxDecodedAccounts = 1 << 20

// CanonicalBytes serializes the config with the single canonical routine
// shared by the hashing and archiving paths. Accounts are sorted by
// pubkey, every integer is encoded minimally, and no field depends on
// the host platform, locale or current time.
func (c *Config) CanonicalBytes() ([]byte, error) {
	sorted := make([]AccountDeclaration, len(c.Accounts))
	copy(sorted, c.Accounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Pubkey.Less(sorted[j].Pubkey)
	})

	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		w.U8(encodingVersion)
		w.U64(uint64(c.CreationTime))
		w.U8(uint8(c.ClusterType))

		w.U64(c.TicksPerSlot)
		w.U64(c.HashesPerTick)
		w.U64(uint64(c.TargetTickDuration))

		es := c.EpochSchedule
		w.U64(es.SlotsPerEpoch)
		w.Bool(es.Warmup)
		w.U64(es.MinSlotsPerEpoch)
		w.U32(uint32(es.FirstNormalEpoch))
		w.U64(es.FirstNormalSlot)

		w.U64(c.Fee.TargetLamportsPerSignature)
		w.U64(c.Fee.TargetSignaturesPerSlot)
		w.U8(c.Fee.BurnPercent)

		w.U64(c.Rent.LamportsPerByteYear)
		w.U64(c.Rent.ExemptionThresholdCentiYears)
		w.U8(c.Rent.BurnPercent)

		writeAccount(w, &c.Bootstrap.Identity)
		writeAccount(w, &c.Bootstrap.Vote)
		writeAccount(w, &c.Bootstrap.Stake)

		w.U56(uint64(len(sorted)))
		for i := range sorted {
			writeAccount(w, &sorted[i])
		}
		return nil
	})
}

func writeAccount(w *cser.Writer, acc *AccountDeclaration) {
	w.FixedBytes(acc.Pubkey[:])
	w.U64(uint64(acc.Lamports))
	w.FixedBytes(acc.Owner[:])
	w.U8(uint8(acc.Role))
	w.FixedBytes(acc.NodeIdentity[:])
	w.FixedBytes(acc.Delegate[:])
	w.FixedBytes(acc.Authorized[:])
}

func readAccount(r *cser.Reader) AccountDeclaration {
	var acc AccountDeclaration
	r.FixedBytes(acc.Pubkey[:])
	acc.Lamports = inter.Lamports(r.U64())
	r.FixedBytes(acc.Owner[:])
	acc.Role = Role(r.U8())
	r.FixedBytes(acc.NodeIdentity[:])
	r.FixedBytes(acc.Delegate[:])
	r.FixedBytes(acc.Authorized[:])
	return acc
}

// Decode parses canonical bytes back into a Config. Trailing data,
// padded integers and any other non-canonical form are rejected, so
// Decode(CanonicalBytes()) round-trips bit for bit.
func Decode(raw []byte) (*Config, error) {
	c := &Config{}
	err := cser.UnmarshalBinaryAdapter(raw, func(r *cser.Reader) error {
		if v := r.U8(); v != encodingVersion {
			return fmt.Errorf("unknown genesis encoding version %d", v)
		}
		c.CreationTime = inter.Timestamp(r.U64())
		c.ClusterType = helios.ClusterType(r.U8())

		c.TicksPerSlot = r.U64()
		c.HashesPerTick = r.U64()
		c.TargetTickDuration = time.Duration(r.U64())

		c.EpochSchedule = helios.EpochSchedule{
			SlotsPerEpoch: r.U64(),
			Warmup:        r.Bool(),
		}
		c.EpochSchedule.MinSlotsPerEpoch = r.U64()
		c.EpochSchedule.FirstNormalEpoch = idx.Epoch(r.U32())
		c.EpochSchedule.FirstNormalSlot = r.U64()

		c.Fee = helios.FeeParams{
			TargetLamportsPerSignature: r.U64(),
			TargetSignaturesPerSlot:    r.U64(),
			BurnPercent:                r.U8(),
		}
		c.Rent = helios.RentParams{
			LamportsPerByteYear:          r.U64(),
			ExemptionThresholdCentiYears: r.U64(),
			BurnPercent:                  r.U8(),
		}

		c.Bootstrap.Identity = readAccount(r)
		c.Bootstrap.Vote = readAccount(r)
		c.Bootstrap.Stake = readAccount(r)

		count := r.U56()
		if count > maxDecodedAccounts {
			return fmt.Errorf("account count %d exceeds limit", count)
		}
		c.Accounts = make([]AccountDeclaration, 0, count)
		var prev accountpk.PubKey
		for i := uint64(0); i < count; i++ {
			acc := readAccount(r)
			// canonical form is strictly sorted
			if i > 0 && !prev.Less(acc.Pubkey) {
				return cser.ErrNonCanonicalEncoding
			}
			prev = acc.Pubkey
			c.Accounts = append(c.Accounts, acc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Hash computes the content hash over the canonical bytes.
func (c *Config) Hash() (common.Hash, error) {
	raw, err := c.CanonicalBytes()
	if err != nil {
		return common.Hash{}, err
	}
	return HashOf(raw), nil
}

// HashOf hashes already-serialized canonical bytes.
func HashOf(raw []byte) common.Hash {
	return common.Hash(sha256.Sum256(raw))
}
