package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/argo-dataprep/pkg/chart"
	"github.com/rxtech-lab/argo-dataprep/pkg/pipeline"
	"github.com/rxtech-lab/argo-dataprep/pkg/sink"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:      "visualize",
		Usage:     "Plot closing prices of a CSV written by the pipeline",
		ArgsUsage: "[prices.csv]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "symbol",
				Usage: "Symbol to plot first; defaults to the symbol of the first row",
			},
			&cli.BoolFlag{
				Name:  "static",
				Usage: "Print the chart once instead of starting the interactive viewer",
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "Chart width of the static chart",
				Value: int64(chart.DefaultOptions().Width),
			},
			&cli.IntFlag{
				Name:  "height",
				Usage: "Chart height of the static chart",
				Value: int64(chart.DefaultOptions().Height),
			},
		},
		Action: visualizeAction,
	}
}

func visualizeAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		path = filepath.Join(pipeline.DefaultDataDir, pipeline.DefaultCSVFileName)
	}

	if cmd.Bool("static") {
		return printChart(cmd, path)
	}

	_, err := tea.NewProgram(NewModel(path, cmd.String("symbol")), tea.WithAltScreen()).Run()

	return err
}

// printChart writes a single rendering of the chart to the command output.
func printChart(cmd *cli.Command, path string) error {
	data, err := sink.ReadCSV(path)
	if err != nil {
		return err
	}

	series, err := chart.FromTable(data, cmd.String("symbol"))
	if err != nil {
		return err
	}

	opts := chart.Options{Width: int(cmd.Int("width")), Height: int(cmd.Int("height"))}
	fmt.Fprintln(cmd.Root().Writer, chart.Render(series, opts))

	return nil
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
