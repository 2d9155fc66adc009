package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/features"
	"github.com/rxtech-lab/argo-dataprep/pkg/preprocess"
	"github.com/rxtech-lab/argo-dataprep/pkg/sink"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

func prepareCommand() *cli.Command {
	return &cli.Command{
		Name:      "prepare",
		Usage:     "Split a saved price file into normalized training and test files",
		ArgsUsage: "<input.csv|input.parquet|input.xlsx>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "train",
				Usage: "Training output path; defaults to <input>_train with the input extension",
			},
			&cli.StringFlag{
				Name:  "test",
				Usage: "Test output path; defaults to <input>_test with the input extension",
			},
			&cli.FloatFlag{
				Name:  "test-fraction",
				Usage: "Fraction of the most recent rows held out for testing",
				Value: preprocess.DefaultTestFraction,
			},
			&cli.BoolFlag{
				Name:  "skip-normalize",
				Usage: "Keep the feature columns in their original units",
			},
		},
		Action: prepareAction,
	}
}

func prepareAction(ctx context.Context, cmd *cli.Command) error {
	input := cmd.Args().First()
	if input == "" {
		return errors.New(errors.ErrCodeMissingParameter, "input file is required")
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	data, err := sink.ReadFile(ctx, input)
	if err != nil {
		return err
	}

	train, test, err := preprocess.PrepareData(data, cmd.Float("test-fraction"), preprocess.PrepareOptions{
		Features:      features.DefaultOptions(),
		SkipNormalize: cmd.Bool("skip-normalize"),
	})
	if err != nil {
		log.Error("Preparing data failed", zap.String("input", input), zap.Error(err))

		return err
	}

	outputs := []struct {
		name   string
		suffix string
		data   *table.Table
	}{
		{"train", "_train", train},
		{"test", "_test", test},
	}

	for _, out := range outputs {
		path := cmd.String(out.name)
		if path == "" {
			path = sink.SuffixedPath(input, out.suffix)
		}

		s, err := sink.ForPath(path, log)
		if err != nil {
			return err
		}

		location, err := s.Write(ctx, out.data)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.Root().Writer, "Wrote %d %s rows to %s\n", out.data.Len(), out.name, location)
	}

	return nil
}
