// Package table implements the immutable, column-ordered price table passed
// between pipeline stages. Every operation returns a new *Table; columns are
// never mutated after construction, so they are shared freely between tables.
package table

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
)

// Table is an ordered set of equally long, uniquely named columns.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a table from columns. All columns must have the same length and
// distinct names.
func New(columns ...Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for i, col := range columns {
		if i == 0 {
			t.rows = col.Len()
		}

		if col.Len() != t.rows {
			return nil, errors.Newf(errors.ErrCodeLengthMismatch,
				"column %q has %d rows, expected %d", col.Name(), col.Len(), t.rows)
		}

		if _, exists := t.index[col.Name()]; exists {
			return nil, errors.Newf(errors.ErrCodeDuplicateColumn, "duplicate column %q", col.Name())
		}

		t.index[col.Name()] = len(t.columns)
		t.columns = append(t.columns, col)
	}

	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Columns returns the columns in table order.
func (t *Table) Columns() []Column {
	return slices.Clone(t.columns)
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}

	return names
}

// Column looks up a column by case-insensitive name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[normalizeName(name)]
	if !ok {
		return nil, false
	}

	return t.columns[i], true
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[normalizeName(name)]

	return ok
}

// Require returns a MissingColumnError for the first name the table lacks.
func (t *Table) Require(operation string, names ...string) error {
	for _, name := range names {
		if !t.Has(name) {
			return errors.NewMissingColumnError(normalizeName(name), operation)
		}
	}

	return nil
}

// Numeric returns the named column as a numeric series.
func (t *Table) Numeric(name string) (*Series[float64], error) {
	return lookup[float64](t, name, KindNumeric)
}

// Times returns the named column as a time series.
func (t *Table) Times(name string) (*Series[time.Time], error) {
	return lookup[time.Time](t, name, KindTime)
}

// Texts returns the named column as a text series.
func (t *Table) Texts(name string) (*Series[string], error) {
	return lookup[string](t, name, KindText)
}

func lookup[T any](t *Table, name string, kind Kind) (*Series[T], error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, errors.NewMissingColumnError(normalizeName(name), "")
	}

	series, ok := col.(*Series[T])
	if !ok || col.Kind() != kind {
		return nil, errors.Newf(errors.ErrCodeColumnKind,
			"column %q is %s, expected %s", col.Name(), col.Kind(), kind)
	}

	return series, nil
}

// WithColumn returns a table with col appended, or replacing the column of
// the same name in place.
func (t *Table) WithColumn(col Column) (*Table, error) {
	columns := slices.Clone(t.columns)
	if i, ok := t.index[col.Name()]; ok {
		columns[i] = col
	} else {
		columns = append(columns, col)
	}

	if len(t.columns) == 0 {
		return New(columns...)
	}

	if col.Len() != t.rows {
		return nil, errors.Newf(errors.ErrCodeLengthMismatch,
			"column %q has %d rows, expected %d", col.Name(), col.Len(), t.rows)
	}

	return New(columns...)
}

// MapColumns returns a table whose columns are fn applied to each column.
// fn must keep the column's name and length.
func (t *Table) MapColumns(fn func(Column) Column) *Table {
	return &Table{columns: mapSlice(t.columns, fn), index: t.index, rows: t.rows}
}

// Take returns a table with the given rows, in the given order.
func (t *Table) Take(rows []int) *Table {
	return &Table{
		columns: mapSlice(t.columns, func(c Column) Column { return c.Take(rows) }),
		index:   t.index,
		rows:    len(rows),
	}
}

// Slice returns rows [from, to), clamped to the table bounds.
func (t *Table) Slice(from, to int) *Table {
	from = min(max(from, 0), t.rows)
	to = min(max(to, from), t.rows)

	rows := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		rows = append(rows, i)
	}

	return t.Take(rows)
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	return t.Slice(0, n)
}

// SortBy returns the table stably sorted ascending by the named column.
// Undefined cells sort last.
func (t *Table) SortBy(name string) (*Table, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, errors.NewMissingColumnError(normalizeName(name), "sort")
	}

	rows := make([]int, t.rows)
	for i := range rows {
		rows[i] = i
	}

	var compare func(a, b int) int
	switch s := col.(type) {
	case *Series[float64]:
		compare = cellCompare(s, cmp.Compare[float64])
	case *Series[time.Time]:
		compare = cellCompare(s, func(a, b time.Time) int { return a.Compare(b) })
	case *Series[string]:
		compare = cellCompare(s, strings.Compare)
	default:
		return nil, errors.Newf(errors.ErrCodeColumnKind, "column %q cannot be sorted", col.Name())
	}

	slices.SortStableFunc(rows, compare)

	return t.Take(rows), nil
}

func cellCompare[T any](s *Series[T], compare func(a, b T) int) func(a, b int) int {
	return func(a, b int) int {
		ca, cb := s.At(a), s.At(b)
		switch {
		case ca.IsNone() && cb.IsNone():
			return 0
		case ca.IsNone():
			return 1
		case cb.IsNone():
			return -1
		default:
			return compare(ca.Unwrap(), cb.Unwrap())
		}
	}
}

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}

	return out
}
