package table

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
)

// Kind is the value type carried by a column.
type Kind int

const (
	KindNumeric Kind = iota
	KindTime
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindTime:
		return "time"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Column is a named, typed sequence of optional cells. Implementations are
// immutable: every method returning a Column returns a new value.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	NullCount() int
	// Format renders cell i, or "" when the cell is undefined.
	Format(i int) string
	Take(rows []int) Column
	Rename(name string) Column
	FillForward() Column
	FillBackward() Column
}

// Series is the Column implementation for float64, time.Time and string cells.
type Series[T any] struct {
	name  string
	kind  Kind
	cells []optional.Option[T]
}

// NewNumeric creates a numeric column. The cells slice is copied.
func NewNumeric(name string, cells []optional.Option[float64]) *Series[float64] {
	return newSeries(name, KindNumeric, cells)
}

// NewTime creates a time column. The cells slice is copied.
func NewTime(name string, cells []optional.Option[time.Time]) *Series[time.Time] {
	return newSeries(name, KindTime, cells)
}

// NewText creates a text column. The cells slice is copied.
func NewText(name string, cells []optional.Option[string]) *Series[string] {
	return newSeries(name, KindText, cells)
}

// FromFloats creates a fully populated numeric column. NaN values become
// undefined cells.
func FromFloats(name string, values []float64) *Series[float64] {
	cells := make([]optional.Option[float64], len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			cells[i] = optional.None[float64]()
			continue
		}
		cells[i] = optional.Some(v)
	}

	return &Series[float64]{name: normalizeName(name), kind: KindNumeric, cells: cells}
}

// FromTimes creates a fully populated time column.
func FromTimes(name string, values []time.Time) *Series[time.Time] {
	return &Series[time.Time]{name: normalizeName(name), kind: KindTime, cells: someAll(values)}
}

// FromStrings creates a fully populated text column.
func FromStrings(name string, values []string) *Series[string] {
	return &Series[string]{name: normalizeName(name), kind: KindText, cells: someAll(values)}
}

func newSeries[T any](name string, kind Kind, cells []optional.Option[T]) *Series[T] {
	copied := make([]optional.Option[T], len(cells))
	copy(copied, cells)

	return &Series[T]{name: normalizeName(name), kind: kind, cells: copied}
}

func someAll[T any](values []T) []optional.Option[T] {
	cells := make([]optional.Option[T], len(values))
	for i, v := range values {
		cells[i] = optional.Some(v)
	}

	return cells
}

// column names are case-insensitive and always stored lower-cased
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *Series[T]) Name() string { return s.name }

func (s *Series[T]) Kind() Kind { return s.kind }

func (s *Series[T]) Len() int { return len(s.cells) }

// At returns cell i.
func (s *Series[T]) At(i int) optional.Option[T] { return s.cells[i] }

func (s *Series[T]) IsNull(i int) bool { return s.cells[i].IsNone() }

func (s *Series[T]) NullCount() int {
	count := 0
	for _, c := range s.cells {
		if c.IsNone() {
			count++
		}
	}

	return count
}

// Cells returns a copy of the column's cells.
func (s *Series[T]) Cells() []optional.Option[T] {
	out := make([]optional.Option[T], len(s.cells))
	copy(out, s.cells)

	return out
}

// Values returns the defined values in row order, skipping undefined cells.
func (s *Series[T]) Values() []T {
	out := make([]T, 0, len(s.cells))
	for _, c := range s.cells {
		if c.IsSome() {
			out = append(out, c.Unwrap())
		}
	}

	return out
}

func (s *Series[T]) Format(i int) string {
	cell := s.cells[i]
	if cell.IsNone() {
		return ""
	}

	switch v := any(cell.Unwrap()).(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	case string:
		return v
	default:
		return ""
	}
}

func (s *Series[T]) Take(rows []int) Column {
	cells := make([]optional.Option[T], len(rows))
	for i, r := range rows {
		cells[i] = s.cells[r]
	}

	return &Series[T]{name: s.name, kind: s.kind, cells: cells}
}

func (s *Series[T]) Rename(name string) Column {
	return &Series[T]{name: normalizeName(name), kind: s.kind, cells: s.cells}
}

// FillForward replaces each undefined cell with the nearest defined cell above it.
func (s *Series[T]) FillForward() Column {
	cells := s.Cells()
	last := optional.None[T]()
	for i, c := range cells {
		if c.IsSome() {
			last = c
			continue
		}
		cells[i] = last
	}

	return &Series[T]{name: s.name, kind: s.kind, cells: cells}
}

// FillBackward replaces each undefined cell with the nearest defined cell below it.
func (s *Series[T]) FillBackward() Column {
	cells := s.Cells()
	next := optional.None[T]()
	for i := len(cells) - 1; i >= 0; i-- {
		if cells[i].IsSome() {
			next = cells[i]
			continue
		}
		cells[i] = next
	}

	return &Series[T]{name: s.name, kind: s.kind, cells: cells}
}
