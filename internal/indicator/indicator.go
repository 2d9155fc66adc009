package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// Indicator appends one or more derived numeric columns to a price table.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config sets the indicator's window parameters
	Config(params ...any) error
	// Columns returns the names of the columns Apply appends
	Columns() []string
	// Warmup returns the number of leading rows Apply leaves undefined
	Warmup() int
	// Apply computes the indicator over the close column
	Apply(t *table.Table) (*table.Table, error)
}

// closeCells fetches the close column an indicator reads from.
func closeCells(t *table.Table, operation string) (cells, error) {
	if err := t.Require(operation, types.ColumnClose); err != nil {
		return nil, err
	}

	closes, err := t.Numeric(types.ColumnClose)
	if err != nil {
		return nil, err
	}

	return closes.Cells(), nil
}

// parseWindow accepts an int or a float64 holding a whole number.
func parseWindow(param any, name string, minimum int) (int, error) {
	var window int

	switch v := param.(type) {
	case int:
		window = v
	case float64:
		if v != math.Trunc(v) {
			return 0, fractionalWindow(name, v)
		}

		window = int(v)
	default:
		return 0, invalidType(name)
	}

	if window < minimum {
		return 0, invalidWindow(name, window, minimum)
	}

	return window, nil
}
