package flags

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/heliochain/go-helios/helios"
)

// GenesisFlags is the full flag surface of the genesis command. Cluster
// dependent defaults (slots per epoch, warmup) come from the preset of
// --cluster-type; a flag set explicitly always wins.
func GenesisFlags() []cli.Flag {
	fee := helios.DefaultFeeParams()
	rent := helios.DefaultRentParams()

	return []cli.Flag{
		cli.StringFlag{
			Name:  "ledger, l",
			Usage: "Ledger directory to write the genesis archive into",
		},
		cli.StringSliceFlag{
			Name: "bootstrap-validator",
			Usage: "Bootstrap validator pubkey files, passed three times: " +
				"identity, vote account, stake account",
		},
		cli.StringFlag{
			Name:  "faucet-pubkey",
			Usage: "Faucet pubkey file or base58 pubkey",
		},
		cli.Uint64Flag{
			Name:  "faucet-lamports",
			Usage: "Balance to assign to the faucet",
		},
		cli.Uint64Flag{
			Name:  "bootstrap-validator-lamports",
			Usage: "Balance of the bootstrap validator's identity account (0 = preset default)",
		},
		cli.Uint64Flag{
			Name:  "bootstrap-validator-stake-lamports",
			Usage: "Stake delegated by the bootstrap validator (0 = preset default)",
		},
		cli.StringFlag{
			Name:  "bootstrap-stake-authorized-pubkey",
			Usage: "Pubkey authorized to manage the bootstrap stake (defaults to the identity)",
		},
		cli.StringFlag{
			Name:  "hashes-per-tick",
			Usage: "Hashes per tick: a number, 'auto' (calibrate on development clusters) or 'sleep'",
			Value: "auto",
		},
		cli.DurationFlag{
			Name:  "target-tick-duration",
			Usage: "Wall-clock pacing goal of one tick",
			Value: helios.DefaultTargetTickDuration,
		},
		cli.Uint64Flag{
			Name:  "ticks-per-slot",
			Usage: "Ticks forming one slot",
			Value: helios.DefaultTicksPerSlot,
		},
		cli.Uint64Flag{
			Name:  "slots-per-epoch",
			Usage: "Slots per epoch (0 = cluster-type default)",
		},
		cli.BoolFlag{
			Name:  "enable-warmup-epochs",
			Usage: "Start with short, doubling epochs until the target length is reached",
		},
		cli.StringFlag{
			Name:  "cluster-type",
			Usage: "Cluster profile (development|devnet|testnet|mainnet-beta)",
			Value: helios.MainnetBeta.String(),
		},
		cli.Uint64Flag{
			Name:  "max-genesis-archive-unpacked-size",
			Usage: "Maximum unpacked size of the genesis archive in bytes",
			Value: helios.DefaultMaxGenesisArchiveUnpackedSize,
		},
		cli.Uint64Flag{
			Name:  "target-lamports-per-signature",
			Usage: "Fee target per signature",
			Value: fee.TargetLamportsPerSignature,
		},
		cli.Uint64Flag{
			Name:  "target-signatures-per-slot",
			Usage: "Signature throughput the fee schedule aims at",
			Value: fee.TargetSignaturesPerSlot,
		},
		cli.UintFlag{
			Name:  "fee-burn-percentage",
			Usage: "Percentage of collected fees destroyed",
			Value: uint(fee.BurnPercent),
		},
		cli.Uint64Flag{
			Name:  "lamports-per-byte-year",
			Usage: "Rent charge per byte-year of account storage",
			Value: rent.LamportsPerByteYear,
		},
		cli.Uint64Flag{
			Name:  "rent-exemption-threshold",
			Usage: "Rent exemption threshold in hundredths of a year",
			Value: rent.ExemptionThresholdCentiYears,
		},
		cli.UintFlag{
			Name:  "rent-burn-percentage",
			Usage: "Percentage of collected rent destroyed",
			Value: uint(rent.BurnPercent),
		},
		cli.StringFlag{
			Name:  "creation-time",
			Usage: "Genesis creation time, RFC 3339 (defaults to now)",
		},
		cli.BoolFlag{
			Name:  "force",
			Usage: "Write into a non-empty ledger directory",
		},
	}
}
