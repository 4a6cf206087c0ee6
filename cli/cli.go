package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "testpulse"

type App struct {
	logger  zerolog.Logger
	cli     *cli.App
	version string
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger:  logger,
		version: "dev",
		cli: &cli.App{
			Name:  AppName,
			Usage: "Report test runner results to a testpulse collection service",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
				&cli.StringFlag{
					Name:  "base-url",
					Usage: "Base URL of the collection service",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "report",
		Usage:     "Map a runner-emitted aggregate result file and send it",
		ArgsUsage: "RESULT_FILE",
		Action:    app.report,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "project-id",
				Usage: "Project identifier in the collection service",
			},
			&cli.StringFlag{
				Name:  "project-name",
				Usage: "Project display name (defaults to project id)",
			},
			&cli.IntFlag{
				Name:  "timeout-ms",
				Usage: "Request timeout in milliseconds",
			},
			&cli.IntFlag{
				Name:  "retries",
				Usage: "Maximum delivery attempts",
			},
			&cli.IntFlag{
				Name:  "retry-delay-ms",
				Usage: "Base delay between delivery attempts in milliseconds",
			},
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit non-zero when delivery fails",
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "ping",
		Usage:  "Probe the collection service health endpoint",
		Action: app.ping,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "detect",
		Usage:  "Print the resolved git, CI and adapter configuration",
		Action: app.detect,
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.version = version
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
