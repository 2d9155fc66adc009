package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata"
	"github.com/rxtech-lab/argo-dataprep/pkg/pipeline"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the full pipeline: fetch, build features, save, split and save the training data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a pipeline YAML config; defaults are used when empty",
			},
			&cli.StringFlag{
				Name:    "ticker",
				Aliases: []string{"t"},
				Usage:   fmt.Sprintf("Ticker symbol (default %s)", pipeline.DefaultTicker),
			},
			&cli.StringFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   fmt.Sprintf("Start date in `YYYY-MM-DD` format (default %s)", pipeline.DefaultStartDate),
			},
			&cli.StringFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider (one of %v)", marketdata.GetSupportedProviders()),
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Output CSV path of the full table",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Database URL receiving the training data",
			},
			&cli.StringFlag{
				Name:  "table",
				Usage: "Database table name",
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := pipeline.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	applyRunFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	client, err := marketdata.NewClient(cfg.ClientConfig(), nil, log)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	result, err := pipeline.NewRunner(cfg, client, log).Run(ctx)
	if err != nil {
		log.Error("Pipeline failed", zap.Error(err))

		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "Saved %d rows with %d columns; %d training rows, %d test rows\n",
		result.Full.Len(), result.Full.Width(), result.Train.Len(), result.Test.Len())

	for _, location := range result.Locations {
		fmt.Fprintf(cmd.Root().Writer, "  %s\n", location)
	}

	return nil
}

// applyRunFlags overrides config values with the flags that were set.
func applyRunFlags(cmd *cli.Command, cfg *pipeline.Config) {
	overrides := []struct {
		flag  string
		field *string
	}{
		{"ticker", &cfg.Fetch.Ticker},
		{"start", &cfg.Fetch.StartDate},
		{"end", &cfg.Fetch.EndDate},
		{"provider", &cfg.Fetch.Provider},
		{"csv", &cfg.Output.CSVPath},
		{"db", &cfg.Output.DatabaseURL},
		{"table", &cfg.Output.TableName},
	}

	for _, o := range overrides {
		if cmd.IsSet(o.flag) {
			*o.field = cmd.String(o.flag)
		}
	}
}
