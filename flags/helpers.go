package flags

import (
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

// Version of the helios tool suite.
const Version = "0.1.0"

// NewApp builds a CLI app skeleton shared by the helios commands.
func NewApp(name, usage string) *cli.App {
	app := cli.NewApp()
	app.Name = name
	app.Usage = usage
	app.Version = Version
	app.Writer = os.Stdout
	return app
}
