package types

import "time"

// Standard column names of a price table.
const (
	ColumnDate   = "date"
	ColumnOpen   = "open"
	ColumnHigh   = "high"
	ColumnLow    = "low"
	ColumnClose  = "close"
	ColumnVolume = "volume"
	ColumnSymbol = "symbol"
	ColumnID     = "id"
)

// OHLCVColumns are the columns every fetched price table carries and every
// SQL sink requires.
var OHLCVColumns = []string{ColumnDate, ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}

// PriceBar is one observation period for a traded symbol.
type PriceBar struct {
	ID     string    `csv:"id"`
	Symbol string    `csv:"symbol"`
	Date   time.Time `csv:"date"`
	Open   float64   `csv:"open"`
	High   float64   `csv:"high"`
	Low    float64   `csv:"low"`
	Close  float64   `csv:"close"`
	Volume int64     `csv:"volume"`
}
