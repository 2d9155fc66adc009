package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-dataprep/internal/indicator"
	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/mocks"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

type FeaturesTestSuite struct {
	suite.Suite
}

func TestFeaturesSuite(t *testing.T) {
	suite.Run(t, new(FeaturesTestSuite))
}

func closeTable(closes ...float64) *table.Table {
	dates := make([]time.Time, len(closes))
	for i := range dates {
		dates[i] = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
	}

	t, _ := table.New(table.FromTimes("date", dates), table.FromFloats("close", closes))

	return t
}

func (suite *FeaturesTestSuite) TestAddMovingAveragesScenario() {
	prices := closeTable(10, 12, 14, 16, 18, 20, 22, 24, 26, 28)

	out, err := AddMovingAverages(prices, 2, 4)
	suite.Require().NoError(err)
	suite.Equal(10, out.Len())
	suite.Equal([]string{"date", "close", "ma_2", "ma_4"}, out.ColumnNames())

	ma2, _ := out.Numeric("ma_2")
	ma4, _ := out.Numeric("ma_4")
	suite.Equal(27.0, ma2.At(9).Unwrap())
	suite.Equal(25.0, ma4.At(9).Unwrap())
	for i := range 3 {
		suite.True(ma4.IsNull(i))
	}
}

func (suite *FeaturesTestSuite) TestMovingAverageMatchesDefinition() {
	bars := mocks.NewDataGenerator(7).Daily("^GSPC", 80)
	prices := table.FromBars(bars)

	out, err := AddMovingAverages(prices, 5)
	suite.Require().NoError(err)

	ma, _ := out.Numeric("ma_5")
	for i := 4; i < len(bars); i++ {
		sum := 0.0
		for j := i - 4; j <= i; j++ {
			sum += bars[j].Close
		}
		suite.InDelta(sum/5, ma.At(i).Unwrap(), 1e-9, "row %d", i)
	}
}

func (suite *FeaturesTestSuite) TestAddMovingAveragesInvalidWindow() {
	_, err := AddMovingAverages(closeTable(1, 2, 3), 0)
	suite.True(errors.IsInvalidArgumentError(err))

	_, err = AddMovingAverages(closeTable(1, 2, 3), 2, -3)
	suite.True(errors.IsInvalidArgumentError(err))
}

func (suite *FeaturesTestSuite) TestMissingClose() {
	noClose, _ := table.New(table.FromFloats("open", []float64{1, 2, 3}))

	_, err := AddMovingAverages(noClose, 2)
	suite.True(errors.IsMissingColumnError(err))

	_, err = AddRSI(noClose, 2)
	suite.True(errors.IsMissingColumnError(err))

	_, err = AddBollingerBands(noClose, 2)
	suite.True(errors.IsMissingColumnError(err))
}

func (suite *FeaturesTestSuite) TestAddRSIRange() {
	prices := table.FromBars(mocks.NewDataGenerator(3).Daily("AAPL", 120))

	out, err := AddRSI(prices, 14)
	suite.Require().NoError(err)

	rsi, _ := out.Numeric("rsi")
	suite.Equal(14, rsi.NullCount())
	for _, v := range rsi.Values() {
		suite.GreaterOrEqual(v, 0.0)
		suite.LessOrEqual(v, 100.0)
	}
}

func (suite *FeaturesTestSuite) TestAddBollingerBands() {
	out, err := AddBollingerBands(closeTable(1, 2, 3, 4, 5), 3)
	suite.Require().NoError(err)

	high, _ := out.Numeric("bb_high")
	low, _ := out.Numeric("bb_low")
	suite.InDelta(6.0, high.At(4).Unwrap(), 1e-9)
	suite.InDelta(2.0, low.At(4).Unwrap(), 1e-9)

	_, err = AddBollingerBands(closeTable(1, 2, 3), 1)
	suite.True(errors.IsInvalidArgumentError(err))
}

func (suite *FeaturesTestSuite) TestBuildFeaturesRejectsShortInput() {
	_, err := BuildFeatures(closeTable(1, 2, 3), DefaultOptions())
	suite.True(errors.IsInsufficientDataError(err))

	var insufficient *errors.InsufficientDataError
	suite.Require().True(errors.As(err, &insufficient))
	suite.Equal(50, insufficient.Required)
	suite.Equal(3, insufficient.Actual)
}

func (suite *FeaturesTestSuite) TestMinRowsFollowsLongestWindow() {
	opts := DefaultOptions()
	opts.MAWindows = []int{3, 10}
	opts.RSIWindow = 5
	opts.BollingerWindow = 4

	indicators, err := configure(indicator.DefaultRegistry(), opts)
	suite.Require().NoError(err)
	suite.Equal(10, RequiredRows(indicators))

	_, err = BuildFeatures(closeTable(1, 2, 3, 4, 5, 6, 7, 8, 9), opts)
	var insufficient *errors.InsufficientDataError
	suite.Require().True(errors.As(err, &insufficient))
	suite.Equal(10, insufficient.Required)

	out, err := BuildFeatures(closeTable(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), opts)
	suite.Require().NoError(err)
	suite.True(out.Has("ma_10"))

	defaults, err := configure(indicator.DefaultRegistry(), DefaultOptions())
	suite.Require().NoError(err)
	suite.Equal(50, RequiredRows(defaults))
}

func (suite *FeaturesTestSuite) TestExplicitMinRows() {
	opts := DefaultOptions()
	opts.MinRows = 5

	out, err := BuildFeatures(closeTable(1, 2, 3, 4, 5), opts)
	suite.Require().NoError(err)

	ma50, _ := out.Numeric("ma_50")
	suite.Equal(5, ma50.NullCount())

	_, err = BuildFeatures(closeTable(1, 2, 3, 4), opts)
	suite.True(errors.IsInsufficientDataError(err))
}

// silentIndicator declares a column but returns its input unchanged.
type silentIndicator struct{}

func (silentIndicator) Name() types.IndicatorType                  { return "silent" }
func (silentIndicator) Config(...any) error                        { return nil }
func (silentIndicator) Columns() []string                          { return []string{"silent"} }
func (silentIndicator) Warmup() int                                { return 0 }
func (silentIndicator) Apply(t *table.Table) (*table.Table, error) { return t, nil }

func (suite *FeaturesTestSuite) TestCheckAppendedColumns() {
	prices := closeTable(1, 2, 3)

	err := checkAppended(silentIndicator{}, prices)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorCalculation))

	out, err := AddRSI(prices, 1)
	suite.Require().NoError(err)
	suite.NoError(checkAppended(indicator.NewRSI(), out))
}

func (suite *FeaturesTestSuite) TestBuildFeaturesSkipMinRows() {
	opts := DefaultOptions()
	opts.SkipMinRowsCheck = true

	out, err := BuildFeatures(closeTable(1, 2, 3), opts)
	suite.Require().NoError(err)
	suite.Equal(3, out.Len())

	ma50, _ := out.Numeric("ma_50")
	suite.Equal(3, ma50.NullCount())
}

func (suite *FeaturesTestSuite) TestBuildFeaturesColumnsAndOrder() {
	bars := mocks.NewDataGenerator(11).Daily("^GSPC", 60)
	prices := table.FromBars(bars)

	out, err := BuildFeatures(prices, DefaultOptions())
	suite.Require().NoError(err)
	suite.Equal(60, out.Len())
	suite.Equal(append(prices.ColumnNames(), "ma_5", "ma_20", "ma_50", "rsi", "bb_high", "bb_low"), out.ColumnNames())

	ma50, _ := out.Numeric("ma_50")
	suite.Equal(49, ma50.NullCount())

	high, _ := out.Numeric("bb_high")
	low, _ := out.Numeric("bb_low")
	for i := 19; i < 60; i++ {
		suite.GreaterOrEqual(high.At(i).Unwrap(), low.At(i).Unwrap())
	}
}

func (suite *FeaturesTestSuite) TestOptionsValidate() {
	suite.NoError(DefaultOptions().Validate())

	opts := DefaultOptions()
	opts.MAWindows = nil
	suite.True(errors.HasCode(opts.Validate(), errors.ErrCodeInvalidConfiguration))

	opts = DefaultOptions()
	opts.BollingerWindow = 1
	suite.Error(opts.Validate())

	opts = DefaultOptions()
	opts.BollingerMultiplier = math.Inf(-1)
	suite.Error(opts.Validate())
}
