package table

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
)

type TableTestSuite struct {
	suite.Suite
}

func TestTableSuite(t *testing.T) {
	suite.Run(t, new(TableTestSuite))
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func (suite *TableTestSuite) TestNewRejectsMismatchedLengths() {
	_, err := New(FromFloats("a", []float64{1, 2}), FromFloats("b", []float64{1}))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeLengthMismatch))
}

func (suite *TableTestSuite) TestNewRejectsDuplicateNames() {
	_, err := New(FromFloats("Close", []float64{1}), FromFloats("close", []float64{2}))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDuplicateColumn))
}

func (suite *TableTestSuite) TestColumnNamesAreLowercased() {
	tbl, err := New(FromTimes("Date", []time.Time{day(1)}), FromFloats(" CLOSE ", []float64{1}))
	suite.Require().NoError(err)
	suite.Equal([]string{"date", "close"}, tbl.ColumnNames())
	suite.True(tbl.Has("Close"))
}

func (suite *TableTestSuite) TestFromFloatsTreatsNaNAsUndefined() {
	s := FromFloats("x", []float64{1, math.NaN(), 3})
	suite.Equal(1, s.NullCount())
	suite.True(s.IsNull(1))
	suite.Equal([]float64{1, 3}, s.Values())
	suite.Equal("", s.Format(1))
	suite.Equal("3", s.Format(2))
}

func (suite *TableTestSuite) TestTypedLookup() {
	tbl, err := New(FromFloats("close", []float64{1}), FromStrings("symbol", []string{"X"}))
	suite.Require().NoError(err)

	_, err = tbl.Numeric("close")
	suite.NoError(err)

	_, err = tbl.Numeric("symbol")
	suite.True(errors.HasCode(err, errors.ErrCodeColumnKind))

	_, err = tbl.Numeric("open")
	suite.True(errors.IsMissingColumnError(err))
}

func (suite *TableTestSuite) TestWithColumnAppendsAndReplaces() {
	tbl, err := New(FromFloats("a", []float64{1, 2}))
	suite.Require().NoError(err)

	added, err := tbl.WithColumn(FromFloats("b", []float64{3, 4}))
	suite.Require().NoError(err)
	suite.Equal([]string{"a", "b"}, added.ColumnNames())
	suite.Equal([]string{"a"}, tbl.ColumnNames(), "original table is unchanged")

	replaced, err := added.WithColumn(FromFloats("a", []float64{9, 9}))
	suite.Require().NoError(err)
	suite.Equal([]string{"a", "b"}, replaced.ColumnNames())
	a, _ := replaced.Numeric("a")
	suite.Equal([]float64{9, 9}, a.Values())

	_, err = tbl.WithColumn(FromFloats("c", []float64{1}))
	suite.True(errors.HasCode(err, errors.ErrCodeLengthMismatch))
}

func (suite *TableTestSuite) TestSortByIsStableWithNullsLast() {
	dates := NewTime("date", []optional.Option[time.Time]{
		optional.Some(day(3)), optional.None[time.Time](), optional.Some(day(1)), optional.Some(day(3)),
	})
	labels := FromStrings("label", []string{"a", "b", "c", "d"})
	tbl, err := New(dates, labels)
	suite.Require().NoError(err)

	sorted, err := tbl.SortBy("date")
	suite.Require().NoError(err)

	got, _ := sorted.Texts("label")
	suite.Equal([]string{"c", "a", "d", "b"}, got.Values())

	_, err = tbl.SortBy("missing")
	suite.True(errors.IsMissingColumnError(err))
}

func (suite *TableTestSuite) TestSliceClampsBounds() {
	tbl, err := New(FromFloats("a", []float64{1, 2, 3, 4, 5}))
	suite.Require().NoError(err)

	suite.Equal(2, tbl.Slice(3, 10).Len())
	suite.Equal(0, tbl.Slice(4, 2).Len())
	suite.Equal(3, tbl.Head(3).Len())
	suite.Equal(5, tbl.Slice(-1, 5).Len())
}

func (suite *TableTestSuite) TestFillForwardAndBackward() {
	s := NewNumeric("x", []optional.Option[float64]{
		optional.None[float64](), optional.Some(1.0), optional.None[float64](), optional.Some(3.0), optional.None[float64](),
	})

	forward := s.FillForward().(*Series[float64])
	suite.True(forward.IsNull(0))
	suite.Equal([]float64{1, 1, 3, 3}, forward.Values())

	both := forward.FillBackward().(*Series[float64])
	suite.Equal(0, both.NullCount())
	suite.Equal([]float64{1, 1, 1, 3, 3}, both.Values())

	suite.Equal(3, s.NullCount(), "fills do not mutate the source")
}

func (suite *TableTestSuite) TestFromBars() {
	bars := []types.PriceBar{
		{ID: "1", Symbol: "^GSPC", Date: day(1), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{ID: "2", Symbol: "^GSPC", Date: day(2), Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 200},
	}

	tbl := FromBars(bars)
	suite.Equal(2, tbl.Len())
	suite.Equal([]string{"date", "open", "high", "low", "close", "volume", "symbol", "id"}, tbl.ColumnNames())

	volume, err := tbl.Numeric("volume")
	suite.Require().NoError(err)
	suite.Equal([]float64{100, 200}, volume.Values())

	ids, err := tbl.Texts("id")
	suite.Require().NoError(err)
	suite.Equal([]string{"1", "2"}, ids.Values())
}
