package launcher

import (
	"fmt"

	"github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/heliochain/go-helios/flags"
	"github.com/heliochain/go-helios/helios/genesisstore"
	"github.com/heliochain/go-helios/poh"
)

// GenesisApp assembles the helios-genesis command.
func GenesisApp() *cli.App {
	app := flags.NewApp("helios-genesis", "Build and archive the genesis of a new cluster")
	app.Flags = append(flags.GenesisFlags(), flags.LogFlags()...)
	app.Before = flags.SetupLogging
	app.Action = genesisMain
	return app
}

// LaunchGenesis runs the genesis command with the given arguments.
func LaunchGenesis(args []string) error {
	return GenesisApp().Run(args)
}

func genesisMain(ctx *cli.Context) error {
	cfg, err := MakeGenesisConfig(ctx)
	if err != nil {
		return err
	}

	calibrator := poh.NewCalibrator(cfg.Genesis.TargetTickDuration)
	hashesPerTick, err := calibrator.Resolve(cfg.HashesPerTick, cfg.Genesis.ClusterType)
	if err != nil {
		return err
	}
	cfg.Genesis.HashesPerTick = hashesPerTick

	hash, err := genesisstore.Save(cfg.LedgerDir, cfg.Genesis, cfg.MaxUnpackedSize, cfg.Force)
	if err != nil {
		return err
	}
	// paranoia: re-read what we just wrote
	if _, err := genesisstore.Verify(cfg.LedgerDir, &hash, cfg.MaxUnpackedSize); err != nil {
		return err
	}

	supply, err := cfg.Genesis.TotalSupply()
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"cluster":         cfg.Genesis.ClusterType.String(),
		"creation_time":   cfg.Genesis.CreationTime.Time().UTC(),
		"hashes_per_tick": hashesPerTick,
		"total_supply":    uint64(supply),
	}).Info("Genesis built")

	fmt.Fprintf(ctx.App.Writer, "Genesis hash: %s\n", hash.Hex())
	fmt.Fprintf(ctx.App.Writer, "Ledger: %s\n", cfg.LedgerDir)
	return nil
}
