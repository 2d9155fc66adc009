package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata"
	"github.com/rxtech-lab/argo-dataprep/pkg/pipeline"
)

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Download raw bars into a Parquet file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "ticker",
				Aliases: []string{"t"},
				Usage:   "Ticker symbol",
				Value:   pipeline.DefaultTicker,
			},
			&cli.StringFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format (or RFC3339)",
				Value:   pipeline.DefaultStartDate,
			},
			&cli.StringFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format (or RFC3339). Defaults to today.",
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Bar interval, e.g. 1d, 1h, 5m",
				Value:   string(marketdata.DefaultTimespan),
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider (one of %v)", marketdata.GetSupportedProviders()),
				Value:   string(marketdata.DefaultProvider),
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Polygon.io API key",
				Sources: cli.EnvVars("POLYGON_API_KEY"),
			},
			&cli.StringFlag{
				Name:  "csv-path",
				Usage: "Bar file read by the csv provider",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the data output directory",
				Value:   "data",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Hide the progress bar",
			},
		},
		Action: downloadAction,
	}
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	end := cmd.String("end")
	if end == "" {
		end = time.Now().UTC().Format(time.DateOnly)
	}

	config := marketdata.DownloadConfig{
		Provider:  cmd.String("provider"),
		Ticker:    cmd.String("ticker"),
		StartDate: cmd.String("start"),
		EndDate:   end,
		Interval:  cmd.String("interval"),
		ApiKey:    cmd.String("api-key"),
		CSVPath:   cmd.String("csv-path"),
	}

	if err := config.Validate(); err != nil {
		return err
	}

	params, err := config.ToDownloadParams()
	if err != nil {
		return err
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	var onProgress func(current, total float64, message string)
	if !cmd.Bool("quiet") {
		onProgress = newProgress(cmd.Root().ErrWriter).update
	}

	client, err := marketdata.NewClient(config.ToClientConfig(cmd.String("data")), onProgress, log)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	path, err := client.Download(ctx, params)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Fprintf(cmd.Root().Writer, "Downloaded %s to %s\n", params.Ticker, path)

	return nil
}

// progress renders provider progress callbacks as a terminal progress bar.
type progress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newProgress(w io.Writer) *progress {
	return &progress{w: w}
}

func (p *progress) update(current, total float64, message string) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions64(int64(total),
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription(message),
			progressbar.OptionShowCount())
	}

	if int64(total) != p.bar.GetMax64() {
		p.bar.ChangeMax64(int64(total))
	}

	p.bar.Describe(message)
	_ = p.bar.Set64(int64(current))
}
