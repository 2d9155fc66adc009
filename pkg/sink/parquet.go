package sink

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-dataprep/internal/logger"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// stagingTable is the in-memory DuckDB table Parquet exports are copied from.
const stagingTable = "staging"

// ParquetSink stages the table in an in-memory DuckDB database and copies it
// out as a Parquet file.
type ParquetSink struct {
	Path string
	log  *logger.Logger
}

func NewParquetSink(path string, log *logger.Logger) *ParquetSink {
	return &ParquetSink{Path: path, log: orNop(log)}
}

func (s *ParquetSink) Name() string { return "parquet" }

func (s *ParquetSink) Write(ctx context.Context, data *table.Table) (string, error) {
	if err := ensureDir(s.Path); err != nil {
		return "", err
	}

	d := duckDBDialect("")

	db, err := d.open(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	if err := d.createTable(ctx, db, stagingTable, data); err != nil {
		return "", err
	}

	if err := d.insertRows(ctx, db, stagingTable, data); err != nil {
		return "", err
	}

	query := fmt.Sprintf("COPY %s TO %s (FORMAT PARQUET)", quoteIdent(stagingTable), quoteLiteral(s.Path))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return "", errors.Wrapf(errors.ErrCodeSinkWriteFailed, err, "failed to export parquet to %s", s.Path)
	}

	s.log.Info("Saved table to parquet", zap.String("path", s.Path), zap.Int("rows", data.Len()))

	return s.Path, nil
}

// ReadParquet loads a Parquet file through DuckDB's read_parquet.
func ReadParquet(ctx context.Context, path string) (*table.Table, error) {
	db, err := duckDBDialect("").open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return queryTable(ctx, db, fmt.Sprintf("SELECT * FROM read_parquet(%s)", quoteLiteral(path)))
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
