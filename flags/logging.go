package flags

import (
	"fmt"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v1"
)

// LogFlags returns the logging flags shared across commands.
func LogFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "log.verbosity",
			Usage: "Logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
			Value: 3,
		},
		cli.StringFlag{
			Name:  "log.format",
			Usage: "Log output format (text|json)",
			Value: "text",
		},
		cli.StringFlag{
			Name:  "sentry-dsn",
			Usage: "Report errors to the given Sentry DSN",
		},
	}
}

var verbosityLevels = map[int]logrus.Level{
	0: logrus.FatalLevel,
	1: logrus.ErrorLevel,
	2: logrus.WarnLevel,
	3: logrus.InfoLevel,
	4: logrus.DebugLevel,
	5: logrus.TraceLevel,
}

// SetupLogging configures the process-wide logger from the CLI context.
// Called once, before any command action runs.
func SetupLogging(ctx *cli.Context) error {
	level, ok := verbosityLevels[ctx.GlobalInt("log.verbosity")]
	if !ok {
		return fmt.Errorf("unknown log verbosity %d", ctx.GlobalInt("log.verbosity"))
	}
	logrus.SetLevel(level)

	switch format := ctx.GlobalString("log.format"); format {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	if dsn := ctx.GlobalString("sentry-dsn"); dsn != "" {
		hook, err := logrus_sentry.NewSentryHook(dsn, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return fmt.Errorf("sentry hook: %w", err)
		}
		logrus.AddHook(hook)
	}
	return nil
}
