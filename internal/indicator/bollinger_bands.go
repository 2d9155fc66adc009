package indicator

import (
	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

const (
	ColumnBBHigh = "bb_high"
	ColumnBBLow  = "bb_low"
)

// BollingerBands appends bb_high and bb_low, the trailing mean of close plus
// and minus a multiple of its sample standard deviation.
type BollingerBands struct {
	window     int
	multiplier float64
}

// NewBollingerBands creates a Bollinger Bands indicator with window 20 and multiplier 2.
func NewBollingerBands() Indicator {
	return &BollingerBands{window: 20, multiplier: 2}
}

func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config expects parameters: window (int) and an optional multiplier (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if len(params) < 1 || len(params) > 2 {
		return paramCount("BollingerBands", "1 or 2 parameters: window (int), multiplier (float64)")
	}

	w, err := parseWindow(params[0], "window", 2)
	if err != nil {
		return err
	}

	multiplier := bb.multiplier
	if len(params) == 2 {
		switch v := params[1].(type) {
		case float64:
			multiplier = v
		case int:
			multiplier = float64(v)
		default:
			return errors.New(errors.ErrCodeInvalidType, "invalid type for multiplier parameter, expected float64")
		}

		if multiplier <= 0 {
			return errors.NewInvalidArgumentError("multiplier", multiplier, "must be positive")
		}
	}

	bb.window = w
	bb.multiplier = multiplier

	return nil
}

func (bb *BollingerBands) Columns() []string { return []string{ColumnBBHigh, ColumnBBLow} }

func (bb *BollingerBands) Warmup() int { return bb.window - 1 }

func (bb *BollingerBands) Apply(t *table.Table) (*table.Table, error) {
	closes, err := closeCells(t, "add bollinger bands")
	if err != nil {
		return nil, err
	}

	upper, lower := Bands(closes, bb.window, bb.multiplier)

	out, err := t.WithColumn(table.NewNumeric(ColumnBBHigh, upper))
	if err != nil {
		return nil, err
	}

	return out.WithColumn(table.NewNumeric(ColumnBBLow, lower))
}
