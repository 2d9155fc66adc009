package table

import (
	"time"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
)

// FromBars converts price bars into a table with the columns
// date, open, high, low, close, volume, symbol and id.
func FromBars(bars []types.PriceBar) *Table {
	n := len(bars)
	dates := make([]time.Time, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	volume := make([]float64, n)
	symbols := make([]string, n)
	ids := make([]string, n)

	for i, bar := range bars {
		dates[i] = bar.Date
		open[i] = bar.Open
		high[i] = bar.High
		low[i] = bar.Low
		closes[i] = bar.Close
		volume[i] = float64(bar.Volume)
		symbols[i] = bar.Symbol
		ids[i] = bar.ID
	}

	t, _ := New(
		FromTimes(types.ColumnDate, dates),
		FromFloats(types.ColumnOpen, open),
		FromFloats(types.ColumnHigh, high),
		FromFloats(types.ColumnLow, low),
		FromFloats(types.ColumnClose, closes),
		FromFloats(types.ColumnVolume, volume),
		FromStrings(types.ColumnSymbol, symbols),
		FromStrings(types.ColumnID, ids),
	)

	return t
}
