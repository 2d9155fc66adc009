package sink

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// dateLayouts are tried in order when a text cell is read back as a time.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// textColumns are always read back as text, whatever their content looks like.
var textColumns = map[string]bool{
	types.ColumnSymbol: true,
	types.ColumnID:     true,
}

// timeLayout picks the calendar date layout when every defined value sits on
// UTC midnight and RFC3339 otherwise.
func timeLayout(cells []optional.Option[time.Time]) string {
	for _, cell := range cells {
		if cell.IsNone() {
			continue
		}

		t := cell.Unwrap().UTC()
		if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
			return time.RFC3339
		}
	}

	return time.DateOnly
}

// formatter renders one row of a column as text; undefined cells become "".
type formatter func(row int) string

func formatters(data *table.Table) []formatter {
	out := make([]formatter, 0, data.Width())

	for _, col := range data.Columns() {
		switch c := col.(type) {
		case *table.Series[float64]:
			out = append(out, func(row int) string {
				cell := c.At(row)
				if cell.IsNone() {
					return ""
				}

				return strconv.FormatFloat(cell.Unwrap(), 'f', -1, 64)
			})
		case *table.Series[time.Time]:
			layout := timeLayout(c.Cells())
			out = append(out, func(row int) string {
				cell := c.At(row)
				if cell.IsNone() {
					return ""
				}

				return cell.Unwrap().UTC().Format(layout)
			})
		default:
			out = append(out, func(row int) string {
				if col.IsNull(row) {
					return ""
				}

				return col.Format(row)
			})
		}
	}

	return out
}

// toRecords renders data as a header plus one string record per row.
func toRecords(data *table.Table) (header []string, rows [][]string) {
	header = data.ColumnNames()
	format := formatters(data)

	rows = make([][]string, data.Len())
	for i := range rows {
		record := make([]string, len(format))
		for j, f := range format {
			record[j] = f(i)
		}

		rows[i] = record
	}

	return header, rows
}

// fromRecords builds a table from string records. symbol and id stay text;
// other columns become numeric when every non-empty cell parses as a number,
// time when every non-empty cell parses as a date, and text otherwise.
func fromRecords(header []string, rows [][]string) (*table.Table, error) {
	if len(header) == 0 {
		return nil, errors.New(errors.ErrCodeSinkReadFailed, "no header row found")
	}

	columns := make([]table.Column, 0, len(header))

	for j, name := range header {
		values := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				values[i] = strings.TrimSpace(row[j])
			}
		}

		columns = append(columns, inferColumn(strings.ToLower(strings.TrimSpace(name)), values))
	}

	t, err := table.New(columns...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSinkReadFailed, "failed to build table", err)
	}

	return t, nil
}

func inferColumn(name string, values []string) table.Column {
	if !textColumns[name] {
		if cells, ok := parseNumbers(values); ok {
			return table.NewNumeric(name, cells)
		}

		if cells, ok := parseTimes(values); ok {
			return table.NewTime(name, cells)
		}
	}

	cells := make([]optional.Option[string], len(values))
	for i, v := range values {
		if v == "" {
			cells[i] = optional.None[string]()
		} else {
			cells[i] = optional.Some(v)
		}
	}

	return table.NewText(name, cells)
}

func parseNumbers(values []string) ([]optional.Option[float64], bool) {
	cells := make([]optional.Option[float64], len(values))

	for i, v := range values {
		if v == "" {
			cells[i] = optional.None[float64]()

			continue
		}

		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}

		if math.IsNaN(f) {
			cells[i] = optional.None[float64]()
		} else {
			cells[i] = optional.Some(f)
		}
	}

	return cells, true
}

func parseTimes(values []string) ([]optional.Option[time.Time], bool) {
	cells := make([]optional.Option[time.Time], len(values))
	seen := false

	for i, v := range values {
		if v == "" {
			cells[i] = optional.None[time.Time]()

			continue
		}

		t, ok := parseTime(v)
		if !ok {
			return nil, false
		}

		cells[i] = optional.Some(t)
		seen = true
	}

	return cells, seen
}

func parseTime(v string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}
