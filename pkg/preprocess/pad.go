package preprocess

import "github.com/rxtech-lab/argo-dataprep/pkg/table"

// PadMissingValues fills undefined cells in every column, first from the
// nearest earlier defined cell and then from the nearest later one. A column
// with no defined cells stays undefined.
func PadMissingValues(t *table.Table) *table.Table {
	return t.MapColumns(func(col table.Column) table.Column {
		if col.NullCount() == 0 {
			return col
		}

		return col.FillForward().FillBackward()
	})
}
