package preprocess

import (
	"math"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/features"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// DefaultTestFraction is the share of rows held out for testing.
const DefaultTestFraction = 0.1

// PrepareOptions configures PrepareData.
type PrepareOptions struct {
	Features features.Options
	// SkipNormalize keeps the engineered values on their original scale.
	SkipNormalize bool
}

// DefaultPrepareOptions returns the default feature options with normalization on.
func DefaultPrepareOptions() PrepareOptions {
	return PrepareOptions{Features: features.DefaultOptions()}
}

// PrepareData runs clean, feature engineering, normalization and padding,
// sorts by date and splits the result chronologically. The last
// n - floor(n*(1-testFraction)) rows form the test table.
func PrepareData(t *table.Table, testFraction float64, opts PrepareOptions) (train, test *table.Table, err error) {
	if err := validateFraction(testFraction); err != nil {
		return nil, nil, err
	}

	cleaned, err := CleanData(t)
	if err != nil {
		return nil, nil, err
	}

	featured, err := features.BuildFeatures(cleaned, opts.Features)
	if err != nil {
		return nil, nil, err
	}

	if !opts.SkipNormalize {
		featured, _ = NormalizeFeatures(featured)
	}

	return SplitChronological(PadMissingValues(featured), testFraction)
}

// SplitChronological stably sorts t by date and splits it into a training
// prefix of floor(n*(1-testFraction)) rows and a test suffix.
func SplitChronological(t *table.Table, testFraction float64) (train, test *table.Table, err error) {
	if err := validateFraction(testFraction); err != nil {
		return nil, nil, err
	}

	sorted, err := t.SortBy(types.ColumnDate)
	if err != nil {
		return nil, nil, err
	}

	cut := int(math.Floor(float64(sorted.Len()) * (1 - testFraction)))

	return sorted.Slice(0, cut), sorted.Slice(cut, sorted.Len()), nil
}

func validateFraction(f float64) error {
	if math.IsNaN(f) || f < 0 || f >= 1 {
		return errors.NewInvalidArgumentError("test_fraction", f, "must be in [0, 1)")
	}

	return nil
}
