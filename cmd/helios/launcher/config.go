package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/heliochain/go-helios/helios"
	"github.com/heliochain/go-helios/helios/genesis"
	"github.com/heliochain/go-helios/inter"
	"github.com/heliochain/go-helios/inter/accountpk"
	"github.com/heliochain/go-helios/keys"
	"github.com/heliochain/go-helios/poh"
)

// KeygenConfig is the validated form of the keygen write flags.
type KeygenConfig struct {
	Outfile      string
	Force        bool
	Silent       bool
	NoPassphrase bool
}

// MakeKeygenConfig maps the CLI context of a keygen subcommand onto a
// config struct, resolving the default keypair location.
func MakeKeygenConfig(ctx *cli.Context) (KeygenConfig, error) {
	cfg := KeygenConfig{
		Outfile:      ctx.String("outfile"),
		Force:        ctx.Bool("force"),
		Silent:       ctx.Bool("silent"),
		NoPassphrase: ctx.Bool("no-passphrase"),
	}
	if cfg.Outfile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("cannot resolve the default keypair path: %w", err)
		}
		cfg.Outfile = filepath.Join(home, ".helios", "id.key")
	}
	return cfg, nil
}

// GenesisConfig carries everything the genesis command needs: the ledger
// destination, archive policy and the genesis declaration itself. The
// hashes-per-tick mode stays unresolved until the command runs, since
// auto mode may calibrate against the local machine.
type GenesisConfig struct {
	LedgerDir       string
	Force           bool
	MaxUnpackedSize uint64
	HashesPerTick   poh.Mode
	Genesis         *genesis.Config
}

// MakeGenesisConfig merges the cluster-type preset with explicit flag
// overrides and reads the referenced pubkey files.
func MakeGenesisConfig(ctx *cli.Context) (*GenesisConfig, error) {
	ledgerDir := ctx.String("ledger")
	if ledgerDir == "" {
		return nil, fmt.Errorf("--ledger is required")
	}

	clusterType, err := helios.ParseClusterType(ctx.String("cluster-type"))
	if err != nil {
		return nil, err
	}
	preset := helios.PresetFor(clusterType)

	if ctx.IsSet("slots-per-epoch") {
		preset.SlotsPerEpoch = ctx.Uint64("slots-per-epoch")
	}
	if ctx.Bool("enable-warmup-epochs") {
		preset.EnableWarmupEpochs = true
	}
	preset.TicksPerSlot = ctx.Uint64("ticks-per-slot")
	preset.TargetTickDuration = ctx.Duration("target-tick-duration")
	preset.Fee = helios.FeeParams{
		TargetLamportsPerSignature: ctx.Uint64("target-lamports-per-signature"),
		TargetSignaturesPerSlot:    ctx.Uint64("target-signatures-per-slot"),
		BurnPercent:                uint8(ctx.Uint("fee-burn-percentage")),
	}
	preset.Rent = helios.RentParams{
		LamportsPerByteYear:          ctx.Uint64("lamports-per-byte-year"),
		ExemptionThresholdCentiYears: ctx.Uint64("rent-exemption-threshold"),
		BurnPercent:                  uint8(ctx.Uint("rent-burn-percentage")),
	}

	mode, err := poh.ParseMode(ctx.String("hashes-per-tick"))
	if err != nil {
		return nil, err
	}

	bootstrapFiles := ctx.StringSlice("bootstrap-validator")
	if len(bootstrapFiles) != 3 {
		return nil, fmt.Errorf("--bootstrap-validator needs exactly 3 pubkey files (identity, vote, stake), got %d", len(bootstrapFiles))
	}
	identity, err := keys.ReadPubkey(bootstrapFiles[0])
	if err != nil {
		return nil, fmt.Errorf("bootstrap identity: %w", err)
	}
	vote, err := keys.ReadPubkey(bootstrapFiles[1])
	if err != nil {
		return nil, fmt.Errorf("bootstrap vote account: %w", err)
	}
	stake, err := keys.ReadPubkey(bootstrapFiles[2])
	if err != nil {
		return nil, fmt.Errorf("bootstrap stake account: %w", err)
	}

	var authorized accountpk.PubKey
	if s := ctx.String("bootstrap-stake-authorized-pubkey"); s != "" {
		authorized, err = readPubkeyArg(s)
		if err != nil {
			return nil, fmt.Errorf("stake authorized pubkey: %w", err)
		}
	}

	identityLamports := inter.Lamports(ctx.Uint64("bootstrap-validator-lamports"))
	if identityLamports == 0 {
		identityLamports = inter.Lamports(preset.BootstrapValidatorLamports())
	}
	stakeLamports := inter.Lamports(ctx.Uint64("bootstrap-validator-stake-lamports"))
	if stakeLamports == 0 {
		stakeLamports = inter.Lamports(preset.BootstrapValidatorStakeLamports())
	}

	creationTime := time.Now()
	if s := ctx.String("creation-time"); s != "" {
		creationTime, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("creation time: %w", err)
		}
	}

	cfg := &genesis.Config{
		CreationTime: inter.FromTime(creationTime),
		ClusterType:  clusterType,
		Bootstrap: genesis.NewBootstrapValidator(
			identity, vote, stake,
			identityLamports,
			preset.Rent.MinimumBalance(helios.VoteAccountSize),
			stakeLamports,
			authorized,
		),
		EpochSchedule:      preset.EpochSchedule(),
		TicksPerSlot:       preset.TicksPerSlot,
		TargetTickDuration: preset.TargetTickDuration,
		Fee:                preset.Fee,
		Rent:               preset.Rent,
	}

	if s := ctx.String("faucet-pubkey"); s != "" {
		faucet, err := readPubkeyArg(s)
		if err != nil {
			return nil, fmt.Errorf("faucet pubkey: %w", err)
		}
		lamports := inter.Lamports(ctx.Uint64("faucet-lamports"))
		if lamports == 0 {
			return nil, fmt.Errorf("--faucet-lamports is required with --faucet-pubkey")
		}
		cfg.Accounts = append(cfg.Accounts, genesis.FaucetAccount(faucet, lamports))
	} else if ctx.IsSet("faucet-lamports") {
		return nil, fmt.Errorf("--faucet-pubkey is required with --faucet-lamports")
	}

	maxUnpacked := ctx.Uint64("max-genesis-archive-unpacked-size")
	if maxUnpacked == 0 {
		maxUnpacked = preset.MaxUnpackedSize
	}

	return &GenesisConfig{
		LedgerDir:       ledgerDir,
		Force:           ctx.Bool("force"),
		MaxUnpackedSize: maxUnpacked,
		HashesPerTick:   mode,
		Genesis:         cfg,
	}, nil
}

// readPubkeyArg accepts either a pubkey file path or a literal base58
// pubkey.
func readPubkeyArg(s string) (accountpk.PubKey, error) {
	if _, err := os.Stat(s); err == nil {
		return keys.ReadPubkey(s)
	}
	return accountpk.FromString(s)
}
