package sink

import (
	"context"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-dataprep/internal/logger"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// DefaultSheet is the sheet XLSXSink writes when none is given.
const DefaultSheet = "Sheet1"

// XLSXSink exports the table to a single worksheet of an Excel workbook.
type XLSXSink struct {
	Path  string
	Sheet string
	log   *logger.Logger
}

func NewXLSXSink(path, sheet string, log *logger.Logger) *XLSXSink {
	if sheet == "" {
		sheet = DefaultSheet
	}

	return &XLSXSink{Path: path, Sheet: sheet, log: orNop(log)}
}

func (s *XLSXSink) Name() string { return "xlsx" }

func (s *XLSXSink) Write(ctx context.Context, data *table.Table) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeCancelled, "xlsx write cancelled", err)
	}

	if err := ensureDir(s.Path); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if s.Sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, s.Sheet); err != nil {
			return "", errors.Wrapf(errors.ErrCodeSinkWriteFailed, err, "invalid sheet name %q", s.Sheet)
		}
	}

	if err := s.setRow(f, 1, toAny(data.ColumnNames())); err != nil {
		return "", err
	}

	values := duckDBDialect("").cellValues(data)
	format := formatters(data)

	for row := range data.Len() {
		cells := values(row)
		// Times are written as text so the sheet reads the same in every locale.
		for j, col := range data.Columns() {
			if col.Kind() == table.KindTime && cells[j] != nil {
				cells[j] = format[j](row)
			}
		}

		if err := s.setRow(f, row+2, cells); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(s.Path); err != nil {
		return "", errors.Wrapf(errors.ErrCodeSinkWriteFailed, err, "failed to save %s", s.Path)
	}

	s.log.Info("Saved table to xlsx", zap.String("path", s.Path), zap.String("sheet", s.Sheet), zap.Int("rows", data.Len()))

	return s.Path, nil
}

func (s *XLSXSink) setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSinkWriteFailed, "invalid cell coordinates", err)
	}

	if err := f.SetSheetRow(s.Sheet, cell, &values); err != nil {
		return errors.Wrapf(errors.ErrCodeSinkWriteFailed, err, "failed to write row %d", row)
	}

	return nil
}

// ReadXLSX loads a worksheet written by XLSXSink. An empty sheet means DefaultSheet.
func ReadXLSX(path, sheet string) (*table.Table, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeSinkReadFailed, err, "failed to open %s", path)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeSinkReadFailed, err, "failed to read sheet %s", sheet)
	}

	if len(rows) == 0 {
		return nil, errors.Newf(errors.ErrCodeSinkReadFailed, "sheet %s of %s is empty", sheet, path)
	}

	return fromRecords(rows[0], rows[1:])
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
