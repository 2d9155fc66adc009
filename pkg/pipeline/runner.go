package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-dataprep/internal/logger"
	"github.com/rxtech-lab/argo-dataprep/pkg/features"
	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata"
	"github.com/rxtech-lab/argo-dataprep/pkg/preprocess"
	"github.com/rxtech-lab/argo-dataprep/pkg/sink"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// Result holds the tables and sink locations of a finished run.
type Result struct {
	Raw   *table.Table
	Full  *table.Table
	Train *table.Table
	Test  *table.Table
	// Locations lists every sink location in write order.
	Locations []string
}

// Runner executes the tutorial pipeline: fetch, clean and featurize the full
// table, save it, prepare the train/test split and save the training rows.
type Runner struct {
	config     *Config
	fetcher    marketdata.Fetcher
	fullSinks  []sink.Sink
	trainSinks []sink.Sink
	log        *logger.Logger
	now        func() time.Time
}

// NewRunner creates a runner whose sinks come from the config.
func NewRunner(config *Config, fetcher marketdata.Fetcher, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNop()
	}

	return NewRunnerWithSinks(config, fetcher, config.FullSinks(log), config.TrainSinks(log), log)
}

// NewRunnerWithSinks creates a runner with explicit sinks for the full table
// and the training split.
func NewRunnerWithSinks(config *Config, fetcher marketdata.Fetcher, fullSinks, trainSinks []sink.Sink, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNop()
	}

	return &Runner{
		config:     config,
		fetcher:    fetcher,
		fullSinks:  fullSinks,
		trainSinks: trainSinks,
		log:        log,
		now:        time.Now,
	}
}

// Run executes every stage in order and stops at the first error. Sinks
// written before a failure are left as they are.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	params, err := r.config.FetchParams(r.now())
	if err != nil {
		return nil, err
	}

	r.log.Info("Fetching data",
		zap.String("ticker", params.Ticker),
		zap.String("start", params.StartDate.Format(time.DateOnly)),
		zap.String("end", params.EndDate.Format(time.DateOnly)),
	)

	raw, err := r.fetcher.Fetch(ctx, params)
	if err != nil {
		r.log.Error("Fetch failed", zap.String("ticker", params.Ticker), zap.Error(err))

		return nil, err
	}

	result := &Result{Raw: raw}

	full, err := r.buildFull(raw)
	if err != nil {
		return nil, err
	}

	result.Full = full

	r.log.Info("Saving full data", zap.Int("rows", full.Len()), zap.Strings("columns", full.ColumnNames()))

	if err := r.write(ctx, r.fullSinks, full, result); err != nil {
		return nil, err
	}

	r.log.Info("Processing training data", zap.Float64("test_fraction", r.config.Prepare.TestFraction))

	train, test, err := preprocess.PrepareData(raw, r.config.Prepare.TestFraction, r.config.PrepareOptions())
	if err != nil {
		r.log.Error("Preparing data failed", zap.Error(err))

		return nil, err
	}

	result.Train, result.Test = train, test

	if err := r.write(ctx, r.trainSinks, train, result); err != nil {
		return nil, err
	}

	r.log.Info("Data pipeline completed successfully",
		zap.Int("train_rows", train.Len()),
		zap.Int("test_rows", test.Len()),
		zap.Strings("locations", result.Locations),
	)

	return result, nil
}

// buildFull cleans the raw table and appends the indicator columns.
func (r *Runner) buildFull(raw *table.Table) (*table.Table, error) {
	cleaned, err := preprocess.CleanData(raw)
	if err != nil {
		r.log.Error("Cleaning data failed", zap.Error(err))

		return nil, err
	}

	full, err := features.BuildFeatures(cleaned, r.config.Prepare.Features)
	if err != nil {
		r.log.Error("Building features failed", zap.Error(err))

		return nil, err
	}

	return full, nil
}

func (r *Runner) write(ctx context.Context, sinks []sink.Sink, data *table.Table, result *Result) error {
	for _, s := range sinks {
		location, err := s.Write(ctx, data)
		if err != nil {
			r.log.Error("Saving data failed", zap.String("sink", s.Name()), zap.Error(err))

			return err
		}

		r.log.Info("Saved data", zap.String("sink", s.Name()), zap.String("location", location))
		result.Locations = append(result.Locations, location)
	}

	return nil
}
