// Package chart turns persisted price tables into terminal line charts.
package chart

import (
	"slices"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/sink"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

const operation = "visualize close prices"

// Point is one close price on one date.
type Point struct {
	Date  time.Time
	Close float64
}

// Series is the close-over-date line of a single symbol, sorted by date.
type Series struct {
	Symbol string
	Points []Point
}

// LoadCSV reads a CSV written by the pipeline and returns the series of the
// symbol in its first row.
func LoadCSV(path string) (*Series, error) {
	t, err := sink.ReadCSV(path)
	if err != nil {
		return nil, err
	}

	return FromTable(t, "")
}

// Symbols lists the distinct upper-cased symbols of t in order of first appearance.
func Symbols(t *table.Table) ([]string, error) {
	symbols, err := t.Texts(types.ColumnSymbol)
	if err != nil {
		return nil, err
	}

	var out []string

	for _, cell := range symbols.Cells() {
		if cell.IsNone() {
			continue
		}

		symbol := strings.ToUpper(cell.Unwrap())
		if !slices.Contains(out, symbol) {
			out = append(out, symbol)
		}
	}

	return out, nil
}

// FromTable extracts the series of symbol from t. An empty symbol selects
// the symbol of the first row. Rows with an undefined date or close are skipped.
func FromTable(t *table.Table, symbol string) (*Series, error) {
	if err := t.Require(operation, types.ColumnSymbol, types.ColumnDate, types.ColumnClose); err != nil {
		return nil, err
	}

	symbols, err := t.Texts(types.ColumnSymbol)
	if err != nil {
		return nil, err
	}

	dates, err := t.Times(types.ColumnDate)
	if err != nil {
		return nil, err
	}

	closes, err := t.Numeric(types.ColumnClose)
	if err != nil {
		return nil, err
	}

	if t.Len() == 0 {
		return nil, errors.New(errors.ErrCodeNoDataFound, "table has no rows to plot")
	}

	if symbol == "" {
		first := symbols.At(0)
		if first.IsNone() {
			return nil, errors.New(errors.ErrCodeNoDataFound, "first row has no symbol")
		}

		symbol = first.Unwrap()
	}

	symbol = strings.ToUpper(symbol)
	series := &Series{Symbol: symbol}

	for i := range t.Len() {
		sym, date, price := symbols.At(i), dates.At(i), closes.At(i)
		if sym.IsNone() || date.IsNone() || price.IsNone() || strings.ToUpper(sym.Unwrap()) != symbol {
			continue
		}

		series.Points = append(series.Points, Point{Date: date.Unwrap(), Close: price.Unwrap()})
	}

	if len(series.Points) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no rows for symbol %s", symbol)
	}

	slices.SortStableFunc(series.Points, func(a, b Point) int {
		return a.Date.Compare(b.Date)
	})

	return series, nil
}

// Range returns the lowest and highest close of the series.
func (s *Series) Range() (low, high float64) {
	if len(s.Points) == 0 {
		return 0, 0
	}

	low, high = s.Points[0].Close, s.Points[0].Close
	for _, p := range s.Points[1:] {
		low = min(low, p.Close)
		high = max(high, p.Close)
	}

	return low, high
}
