package indicator

import (
	"fmt"
	"slices"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// MA appends one simple moving average column ma_{w} per configured window.
type MA struct {
	windows []int
}

// NewMA creates an MA indicator with the default windows 5, 20 and 50.
func NewMA() Indicator {
	return &MA{windows: []int{5, 20, 50}}
}

func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Config expects one or more windows (int).
func (m *MA) Config(params ...any) error {
	if len(params) == 0 {
		return paramCount("MA", "at least 1 parameter: window (int)")
	}

	windows := make([]int, 0, len(params))
	for _, p := range params {
		w, err := parseWindow(p, "window", 1)
		if err != nil {
			return err
		}

		windows = append(windows, w)
	}

	m.windows = windows

	return nil
}

func (m *MA) Columns() []string {
	names := make([]string, len(m.windows))
	for i, w := range m.windows {
		names[i] = ColumnName(w)
	}

	return names
}

func (m *MA) Warmup() int {
	if len(m.windows) == 0 {
		return 0
	}

	return slices.Max(m.windows) - 1
}

func (m *MA) Apply(t *table.Table) (*table.Table, error) {
	closes, err := closeCells(t, "add moving averages")
	if err != nil {
		return nil, err
	}

	out := t
	for _, w := range m.windows {
		out, err = out.WithColumn(table.NewNumeric(ColumnName(w), SimpleMovingAverage(closes, w)))
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// ColumnName returns the moving average column name for window w.
func ColumnName(w int) string {
	return fmt.Sprintf("ma_%d", w)
}
