package indicator

import (
	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// ColumnRSI is the column appended by RSI.
const ColumnRSI = "rsi"

// RSI appends the relative strength index of the close column.
type RSI struct {
	window int
}

// NewRSI creates an RSI indicator with the default window of 14.
func NewRSI() Indicator {
	return &RSI{window: 14}
}

func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config expects parameters: window (int).
func (r *RSI) Config(params ...any) error {
	if len(params) != 1 {
		return paramCount("RSI", "1 parameter: window (int)")
	}

	w, err := parseWindow(params[0], "window", 1)
	if err != nil {
		return err
	}

	r.window = w

	return nil
}

func (r *RSI) Columns() []string { return []string{ColumnRSI} }

func (r *RSI) Warmup() int { return r.window }

func (r *RSI) Apply(t *table.Table) (*table.Table, error) {
	closes, err := closeCells(t, "add rsi")
	if err != nil {
		return nil, err
	}

	return t.WithColumn(table.NewNumeric(ColumnRSI, RelativeStrengthIndex(closes, r.window)))
}
