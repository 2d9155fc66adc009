package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/argo-dataprep/internal/logger"
	"github.com/rxtech-lab/argo-dataprep/internal/version"
)

// newApp builds the pipeline CLI with its subcommands.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "pipeline",
		Usage:   "Fetch, featurize and prepare stock price data for model training",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("DATAPREP_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			prepareCommand(),
			downloadCommand(),
			providersCommand(),
		},
	}
}

// newLogger creates the logger selected by the --log-level flag.
func newLogger(cmd *cli.Command) (*logger.Logger, error) {
	return logger.NewLoggerWithLevel(cmd.String("log-level"))
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
