// Package helios defines the cluster-policy parameters baked into a
// genesis: cluster type, fee and rent economics, epoch scheduling and the
// timing constants of the tick hash chain.
//
// Everything here ends up inside the canonical genesis encoding, so the
// types deliberately avoid floats, maps and anything else whose byte
// representation could differ across platforms.
package helios

import (
	"errors"
	"fmt"
	"time"

	"github.com/heliochain/go-helios/inter"
)

// ClusterType selects the feature and default-parameter profile of a
// cluster. It is fixed at genesis.
type ClusterType uint8

const (
	Development ClusterType = iota
	Devnet
	Testnet
	MainnetBeta
)

// ErrUnrecognizedClusterType is returned for cluster type values or names
// outside the enumeration.
var ErrUnrecognizedClusterType = errors.New("unrecognized cluster type")

func (ct ClusterType) String() string {
	switch ct {
	case Development:
		return "development"
	case Devnet:
		return "devnet"
	case Testnet:
		return "testnet"
	case MainnetBeta:
		return "mainnet-beta"
	default:
		return fmt.Sprintf("ClusterType(%d)", uint8(ct))
	}
}

// Valid reports whether ct is one of the enumerated values.
func (ct ClusterType) Valid() bool {
	return ct <= MainnetBeta
}

// ParseClusterType parses the command-line spelling of a cluster type.
func ParseClusterType(s string) (ClusterType, error) {
	switch s {
	case "development":
		return Development, nil
	case "devnet":
		return Devnet, nil
	case "testnet":
		return Testnet, nil
	case "mainnet-beta":
		return MainnetBeta, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnrecognizedClusterType, s)
	}
}

const (
	// LamportsPerHLS is the number of base units per whole token.
	LamportsPerHLS = inter.Lamports(1_000_000_000)

	// MaxGenesisSupply caps the sum of all balances declared at genesis.
	MaxGenesisSupply = inter.Lamports(1) << 63

	// MinimumSlotsPerEpoch is the floor of the warmup progression.
	MinimumSlotsPerEpoch = uint64(32)

	// DefaultSlotsPerEpoch is roughly two days at the default tick rate.
	DefaultSlotsPerEpoch = uint64(432_000)

	// DefaultDevSlotsPerEpoch keeps development epoch turnaround short.
	DefaultDevSlotsPerEpoch = uint64(8_192)

	// DefaultTicksPerSlot ticks make up one leader slot.
	DefaultTicksPerSlot = uint64(64)

	// DefaultHashesPerTick is the hash-chain density assumed for
	// non-development clusters when auto calibration is not meaningful.
	DefaultHashesPerTick = uint64(12_500)

	// DefaultTargetTickDuration is the wall-clock target of one tick.
	DefaultTargetTickDuration = 6250 * time.Microsecond

	// DefaultMaxGenesisArchiveUnpackedSize bounds the unpacked genesis
	// archive. Every joining node downloads and unpacks the artifact, so
	// the bound is part of cluster policy, not a local tunable.
	DefaultMaxGenesisArchiveUnpackedSize = uint64(10 * 1024 * 1024)

	// AccountStorageOverhead is the per-account metadata charge used by
	// rent sizing.
	AccountStorageOverhead = uint64(128)

	// VoteAccountSize and StakeAccountSize are the serialized state sizes
	// used to compute rent-exempt reserves for the bootstrap accounts.
	VoteAccountSize  = uint64(3_762)
	StakeAccountSize = uint64(200)
)

// FeeParams governs the signature fee market.
type FeeParams struct {
	// TargetLamportsPerSignature is charged when the cluster runs at
	// TargetSignaturesPerSlot.
	TargetLamportsPerSignature uint64

	// TargetSignaturesPerSlot is the desired processing capacity; zero
	// disables signature-based fee adjustment.
	TargetSignaturesPerSlot uint64

	// BurnPercent of collected fees is destroyed, the rest is paid to the
	// slot leader. 0..100.
	BurnPercent uint8
}

// DefaultFeeParams matches the cluster defaults.
func DefaultFeeParams() FeeParams {
	return FeeParams{
		TargetLamportsPerSignature: 10_000,
		TargetSignaturesPerSlot:    20_000,
		BurnPercent:                50,
	}
}

// RentParams governs storage rent. The exemption threshold is expressed in
// hundredths of a year so the canonical encoding stays integral.
type RentParams struct {
	// LamportsPerByteYear is the yearly rent per byte of account data.
	LamportsPerByteYear uint64

	// ExemptionThresholdCentiYears is the rent horizon (in 1/100 year
	// units) a balance must cover to be rent exempt. 200 means 2 years.
	ExemptionThresholdCentiYears uint64

	// BurnPercent of collected rent is destroyed. 0..100.
	BurnPercent uint8
}

// DefaultRentParams matches the cluster defaults.
func DefaultRentParams() RentParams {
	return RentParams{
		LamportsPerByteYear:          3_480,
		ExemptionThresholdCentiYears: 200,
		BurnPercent:                  50,
	}
}

// MinimumBalance returns the rent-exempt reserve for an account holding
// dataSize bytes.
func (r RentParams) MinimumBalance(dataSize uint64) inter.Lamports {
	bytes := AccountStorageOverhead + dataSize
	return inter.Lamports(bytes * r.LamportsPerByteYear * r.ExemptionThresholdCentiYears / 100)
}

// Validate checks percentage ranges.
func (f FeeParams) Validate() error {
	if f.BurnPercent > 100 {
		return fmt.Errorf("fee burn percent %d out of range", f.BurnPercent)
	}
	return nil
}

// Validate checks percentage ranges and a non-degenerate rent horizon.
func (r RentParams) Validate() error {
	if r.BurnPercent > 100 {
		return fmt.Errorf("rent burn percent %d out of range", r.BurnPercent)
	}
	return nil
}
