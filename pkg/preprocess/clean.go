// Package preprocess cleans, normalizes, pads and splits price tables.
// Every function is pure: inputs are never modified.
package preprocess

import (
	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// CleanData drops every row with an undefined cell in any column, then drops
// rows whose date repeats an earlier row's date. Row order is preserved.
func CleanData(t *table.Table) (*table.Table, error) {
	if err := t.Require("clean data", types.ColumnDate); err != nil {
		return nil, err
	}

	columns := t.Columns()
	key := dateKey(t)

	seen := make(map[any]struct{}, t.Len())
	keep := make([]int, 0, t.Len())

rows:
	for i := range t.Len() {
		for _, col := range columns {
			if col.IsNull(i) {
				continue rows
			}
		}

		k := key(i)
		if _, dup := seen[k]; dup {
			continue
		}

		seen[k] = struct{}{}
		keep = append(keep, i)
	}

	return t.Take(keep), nil
}

// dateKey identifies the date of a row. Time dates compare as instants, so
// the same moment in two zones is one date.
func dateKey(t *table.Table) func(row int) any {
	if times, err := t.Times(types.ColumnDate); err == nil {
		return func(row int) any { return times.At(row).Unwrap().UnixNano() }
	}

	date, _ := t.Column(types.ColumnDate)

	return func(row int) any { return date.Format(row) }
}
