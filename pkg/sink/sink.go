// Package sink persists tables to flat files and relational databases.
package sink

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-dataprep/internal/logger"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// Sink writes a whole table to one destination.
type Sink interface {
	// Name identifies the sink kind in logs, e.g. "csv" or "sql".
	Name() string
	// Write persists data and returns where it was written.
	Write(ctx context.Context, data *table.Table) (location string, err error)
}

// TrainPath inserts "_train" before the extension of path:
// data/prices.csv becomes data/prices_train.csv.
func TrainPath(path string) string {
	return SuffixedPath(path, "_train")
}

// SuffixedPath inserts suffix before the extension of path.
func SuffixedPath(path, suffix string) string {
	ext := filepath.Ext(path)

	return strings.TrimSuffix(path, ext) + suffix + ext
}

// ForPath picks a file sink from the extension of path.
func ForPath(path string, log *logger.Logger) (Sink, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVSink(path, log), nil
	case ".parquet":
		return NewParquetSink(path, log), nil
	case ".xlsx":
		return NewXLSXSink(path, "", log), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedSink, "no sink for file %s (want .csv, .parquet or .xlsx)", path)
	}
}

// ReadFile loads a table written by one of the file sinks.
func ReadFile(ctx context.Context, path string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".parquet":
		return ReadParquet(ctx, path)
	case ".xlsx":
		return ReadXLSX(path, "")
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedSink, "cannot read %s (want .csv, .parquet or .xlsx)", path)
	}
}

func orNop(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.NewNop()
	}

	return log
}
