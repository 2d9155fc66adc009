// Package features appends technical-indicator columns to a price table.
package features

import (
	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/argo-dataprep/internal/indicator"
	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// Options configures BuildFeatures.
type Options struct {
	MAWindows           []int   `yaml:"ma_windows" json:"ma_windows" validate:"required,min=1,dive,gt=0" jsonschema:"title=Moving average windows"`
	RSIWindow           int     `yaml:"rsi_window" json:"rsi_window" validate:"gt=0" jsonschema:"title=RSI window,default=14"`
	BollingerWindow     int     `yaml:"bollinger_window" json:"bollinger_window" validate:"gte=2" jsonschema:"title=Bollinger window,default=20"`
	BollingerMultiplier float64 `yaml:"bollinger_multiplier" json:"bollinger_multiplier" validate:"gt=0" jsonschema:"title=Bollinger std multiplier,default=2"`
	// MinRows of 0 derives the minimum from the longest indicator window.
	MinRows int `yaml:"min_rows" json:"min_rows" validate:"gte=0" jsonschema:"title=Minimum input rows,description=0 uses the longest indicator window"`
	// SkipMinRowsCheck lets short tables through, e.g. in tests.
	SkipMinRowsCheck bool `yaml:"skip_min_rows_check" json:"skip_min_rows_check" jsonschema:"title=Skip minimum row check"`
}

// DefaultOptions returns MA windows 5, 20 and 50, RSI window 14, Bollinger
// window 20 with multiplier 2. The row minimum follows the longest window.
func DefaultOptions() Options {
	return Options{
		MAWindows:           []int{5, 20, 50},
		RSIWindow:           14,
		BollingerWindow:     20,
		BollingerMultiplier: 2,
	}
}

// Validate checks the option values.
func (o Options) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid feature options", err)
	}

	return nil
}

// AddMovingAverages appends ma_{w} for every window w.
func AddMovingAverages(t *table.Table, windows ...int) (*table.Table, error) {
	return apply(indicator.NewMA(), t, windowParams(windows)...)
}

// AddRSI appends the rsi column computed over window changes.
func AddRSI(t *table.Table, window int) (*table.Table, error) {
	return apply(indicator.NewRSI(), t, window)
}

// AddBollingerBands appends bb_high and bb_low, two sample standard
// deviations around the trailing mean of close.
func AddBollingerBands(t *table.Table, window int) (*table.Table, error) {
	return apply(indicator.NewBollingerBands(), t, window, 2.0)
}

// BuildFeatures appends moving averages, RSI and Bollinger Bands in that
// order. Tables shorter than the minimum row count are rejected with an
// InsufficientDataError unless opts.SkipMinRowsCheck is set. The minimum is
// opts.MinRows, or one more than the longest indicator warmup when MinRows is 0.
func BuildFeatures(t *table.Table, opts Options) (*table.Table, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	indicators, err := configure(indicator.DefaultRegistry(), opts)
	if err != nil {
		return nil, err
	}

	minRows := opts.MinRows
	if minRows == 0 {
		minRows = RequiredRows(indicators)
	}

	if !opts.SkipMinRowsCheck && t.Len() < minRows {
		return nil, errors.NewInsufficientDataErrorf(minRows, t.Len(), symbolOf(t),
			"feature engineering needs at least %d rows, got %d", minRows, t.Len())
	}

	out := t
	for _, ind := range indicators {
		next, err := ind.Apply(out)
		if err != nil {
			return nil, err
		}

		if err := checkAppended(ind, next); err != nil {
			return nil, err
		}

		out = next
	}

	return out, nil
}

// RequiredRows is the row count at which every indicator has at least one
// defined value.
func RequiredRows(indicators []indicator.Indicator) int {
	warmup := 0
	for _, ind := range indicators {
		warmup = max(warmup, ind.Warmup())
	}

	return warmup + 1
}

// configure looks up the feature indicators in build order and applies the
// windows of opts to them.
func configure(registry indicator.IndicatorRegistry, opts Options) ([]indicator.Indicator, error) {
	steps := []struct {
		name   types.IndicatorType
		params []any
	}{
		{types.IndicatorTypeMA, windowParams(opts.MAWindows)},
		{types.IndicatorTypeRSI, []any{opts.RSIWindow}},
		{types.IndicatorTypeBollingerBands, []any{opts.BollingerWindow, opts.BollingerMultiplier}},
	}

	indicators := make([]indicator.Indicator, 0, len(steps))
	for _, step := range steps {
		ind, err := registry.GetIndicator(step.name)
		if err != nil {
			return nil, err
		}

		if err := ind.Config(step.params...); err != nil {
			return nil, err
		}

		indicators = append(indicators, ind)
	}

	return indicators, nil
}

// checkAppended verifies that out carries every column ind declares.
func checkAppended(ind indicator.Indicator, out *table.Table) error {
	for _, name := range ind.Columns() {
		if !out.Has(name) {
			return errors.Newf(errors.ErrCodeIndicatorCalculation,
				"indicator %s did not produce column %s", ind.Name(), name)
		}
	}

	return nil
}

func apply(ind indicator.Indicator, t *table.Table, params ...any) (*table.Table, error) {
	if err := ind.Config(params...); err != nil {
		return nil, err
	}

	return ind.Apply(t)
}

func windowParams(windows []int) []any {
	params := make([]any, len(windows))
	for i, w := range windows {
		params[i] = w
	}

	return params
}

func symbolOf(t *table.Table) string {
	symbols, err := t.Texts(types.ColumnSymbol)
	if err != nil || t.Len() == 0 {
		return ""
	}

	return symbols.At(0).Unwrap()
}
