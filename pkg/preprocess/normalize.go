package preprocess

import (
	"math"
	"strings"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// ColumnStats records the parameters used to standardize one column.
type ColumnStats struct {
	Name   string
	Mean   float64
	StdDev float64
}

// NormalizationStats describes what NormalizeFeatures did.
type NormalizationStats struct {
	Columns []ColumnStats
	// Skipped lists numeric columns left unchanged because their standard
	// deviation was zero or they had no defined values.
	Skipped []string
}

// NormalizeFeatures rescales every numeric, non-identifier column to zero
// mean and unit population standard deviation, computed over its defined
// cells. Undefined cells stay undefined. Constant columns are left as is.
func NormalizeFeatures(t *table.Table) (*table.Table, NormalizationStats) {
	var stats NormalizationStats

	out := t.MapColumns(func(col table.Column) table.Column {
		series, ok := col.(*table.Series[float64])
		if !ok || isIdentifier(col.Name()) {
			return col
		}

		mean, std, ok := meanStd(series.Values())
		if !ok || std == 0 {
			stats.Skipped = append(stats.Skipped, col.Name())
			return col
		}

		stats.Columns = append(stats.Columns, ColumnStats{Name: col.Name(), Mean: mean, StdDev: std})

		cells := series.Cells()
		for i, c := range cells {
			if c.IsSome() {
				cells[i] = optional.Some((c.Unwrap() - mean) / std)
			}
		}

		return table.NewNumeric(col.Name(), cells)
	})

	return out, stats
}

func isIdentifier(name string) bool {
	return name == types.ColumnID || strings.HasSuffix(name, "_id")
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (mean, std float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}

	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	for _, v := range values {
		d := v - mean
		std += d * d
	}
	std = math.Sqrt(std / float64(len(values)))

	if math.IsNaN(std) || math.IsInf(std, 0) {
		return 0, 0, false
	}

	return mean, std, true
}
