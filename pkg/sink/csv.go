package sink

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-dataprep/internal/logger"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// CSVSink writes a header row and one record per row, without an index column.
type CSVSink struct {
	Path string
	log  *logger.Logger
}

func NewCSVSink(path string, log *logger.Logger) *CSVSink {
	return &CSVSink{Path: path, log: orNop(log)}
}

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) Write(ctx context.Context, data *table.Table) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeCancelled, "csv write cancelled", err)
	}

	if err := ensureDir(s.Path); err != nil {
		return "", err
	}

	file, err := os.Create(s.Path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCodeSinkOpenFailed, err, "failed to create %s", s.Path)
	}
	defer file.Close()

	header, rows := toRecords(data)

	w := gocsv.DefaultCSVWriter(file)
	if err := w.Write(header); err != nil {
		return "", errors.Wrap(errors.ErrCodeSinkWriteFailed, "failed to write csv header", err)
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", errors.Wrap(errors.ErrCodeSinkWriteFailed, "failed to write csv row", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return "", errors.Wrap(errors.ErrCodeSinkWriteFailed, "failed to flush csv", err)
	}

	if err := file.Close(); err != nil {
		return "", errors.Wrapf(errors.ErrCodeSinkWriteFailed, err, "failed to close %s", s.Path)
	}

	s.log.Info("Saved table to csv", zap.String("path", s.Path), zap.Int("rows", data.Len()), zap.Int("columns", data.Width()))

	return s.Path, nil
}

// ReadCSV loads a CSV written by CSVSink, or any CSV with a header row.
func ReadCSV(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeSinkReadFailed, err, "failed to open %s", path)
	}
	defer file.Close()

	records, err := gocsv.DefaultCSVReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeSinkReadFailed, err, "failed to parse %s", path)
	}

	if len(records) == 0 {
		return nil, errors.Newf(errors.ErrCodeSinkReadFailed, "%s is empty", path)
	}

	return fromRecords(records[0], records[1:])
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeSinkOpenFailed, err, "failed to create directory %s", dir)
	}

	return nil
}
