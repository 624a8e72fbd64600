package flags

import (
	cli "gopkg.in/urfave/cli.v1"
)

// Keygen flags shared by the subcommands that write keypair files.
var (
	NoPassphraseFlag = cli.BoolFlag{
		Name:  "no-passphrase",
		Usage: "Skip the seed passphrase prompt and write an unencrypted keypair file",
	}
	OutfileFlag = cli.StringFlag{
		Name:  "outfile, o",
		Usage: "Path of the keypair file to write (defaults to ~/.helios/id.key)",
	}
	ForceFlag = cli.BoolFlag{
		Name:  "force, f",
		Usage: "Overwrite an existing keypair file",
	}
	SilentFlag = cli.BoolFlag{
		Name:  "silent, s",
		Usage: "Do not print the seed phrase",
	}
)

// KeygenWriteFlags covers `new` and `recover`, both of which produce a
// keypair file.
func KeygenWriteFlags() []cli.Flag {
	return []cli.Flag{
		NoPassphraseFlag,
		OutfileFlag,
		ForceFlag,
		SilentFlag,
	}
}
