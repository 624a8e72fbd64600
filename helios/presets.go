package helios

import (
	"time"
)

// Preset bundles the per-cluster-type parameter defaults so each command
// starts from a coherent profile instead of dozens of independent flag
// defaults. Flags still override any individual field.
type Preset struct {
	Name               string
	ClusterType        ClusterType
	SlotsPerEpoch      uint64
	TicksPerSlot       uint64
	TargetTickDuration time.Duration
	EnableWarmupEpochs bool
	Fee                FeeParams
	Rent               RentParams
	MaxUnpackedSize    uint64
}

// PresetFor returns the default profile of a cluster type.
func PresetFor(ct ClusterType) Preset {
	p := Preset{
		Name:               ct.String(),
		ClusterType:        ct,
		SlotsPerEpoch:      DefaultSlotsPerEpoch,
		TicksPerSlot:       DefaultTicksPerSlot,
		TargetTickDuration: DefaultTargetTickDuration,
		EnableWarmupEpochs: false,
		Fee:                DefaultFeeParams(),
		Rent:               DefaultRentParams(),
		MaxUnpackedSize:    DefaultMaxGenesisArchiveUnpackedSize,
	}

	if ct == Development {
		// development clusters favor a short feedback loop
		p.SlotsPerEpoch = DefaultDevSlotsPerEpoch
		p.EnableWarmupEpochs = true
	}

	return p
}

// EpochSchedule derives the schedule from the preset's slot count and
// warmup setting.
func (p Preset) EpochSchedule() EpochSchedule {
	if p.EnableWarmupEpochs {
		return NewWarmupEpochSchedule(MinimumSlotsPerEpoch, p.SlotsPerEpoch)
	}
	return NewEpochSchedule(p.SlotsPerEpoch)
}

// BootstrapValidatorLamports is the default balance of the bootstrap
// validator's vote account: 500 whole tokens, floored at the vote
// account's rent-exempt reserve.
func (p Preset) BootstrapValidatorLamports() uint64 {
	v := uint64(500 * LamportsPerHLS)
	if reserve := uint64(p.Rent.MinimumBalance(VoteAccountSize)); reserve > v {
		v = reserve
	}
	return v
}

// BootstrapValidatorStakeLamports is the default delegated stake: half a
// token, floored at the stake account's rent-exempt reserve.
func (p Preset) BootstrapValidatorStakeLamports() uint64 {
	v := uint64(LamportsPerHLS / 2)
	if reserve := uint64(p.Rent.MinimumBalance(StakeAccountSize)); reserve > v {
		v = reserve
	}
	return v
}
