package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-dataprep/mocks"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/sink"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

type PipelineCmdTestSuite struct {
	suite.Suite
	dir  string
	bars string
	out  *bytes.Buffer
}

func TestPipelineCmdSuite(t *testing.T) {
	suite.Run(t, new(PipelineCmdTestSuite))
}

func (suite *PipelineCmdTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.out = &bytes.Buffer{}

	suite.bars = filepath.Join(suite.dir, "bars.csv")
	data := table.FromBars(mocks.NewDataGenerator(3).Daily("^GSPC", 100))
	_, err := sink.NewCSVSink(suite.bars, nil).Write(context.Background(), data)
	suite.Require().NoError(err)
}

func (suite *PipelineCmdTestSuite) run(args ...string) error {
	app := newApp()
	app.Writer = suite.out
	app.ErrWriter = io.Discard

	return app.Run(context.Background(), append([]string{"pipeline", "--log-level", "error"}, args...))
}

func (suite *PipelineCmdTestSuite) writeConfig(content string) string {
	path := filepath.Join(suite.dir, "pipeline.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (suite *PipelineCmdTestSuite) TestProvidersListsRegistry() {
	suite.Require().NoError(suite.run("providers"))

	output := suite.out.String()
	suite.Contains(output, "* yahoo")
	suite.Contains(output, "polygon")
	suite.Contains(output, "(requires API key)")
	suite.Contains(output, "binance")
	suite.Contains(output, "csv")
}

func (suite *PipelineCmdTestSuite) TestProvidersSchema() {
	suite.Require().NoError(suite.run("providers", "--schema", "yahoo"))
	suite.Contains(suite.out.String(), `"ticker"`)

	err := suite.run("providers", "--schema", "bloomberg")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidProvider))
}

func (suite *PipelineCmdTestSuite) TestPrepareWritesTrainAndTest() {
	suite.Require().NoError(suite.run("prepare", suite.bars))

	train, err := sink.ReadCSV(filepath.Join(suite.dir, "bars_train.csv"))
	suite.Require().NoError(err)
	suite.Equal(90, train.Len())
	suite.True(train.Has("bb_low"))

	test, err := sink.ReadCSV(filepath.Join(suite.dir, "bars_test.csv"))
	suite.Require().NoError(err)
	suite.Equal(10, test.Len())

	suite.Contains(suite.out.String(), "Wrote 90 train rows")
}

func (suite *PipelineCmdTestSuite) TestPrepareCustomOutputs() {
	trainPath := filepath.Join(suite.dir, "out", "train.parquet")
	testPath := filepath.Join(suite.dir, "out", "test.xlsx")

	suite.Require().NoError(suite.run("prepare",
		"--train", trainPath, "--test", testPath, "--test-fraction", "0.2", "--skip-normalize", suite.bars))

	train, err := sink.ReadFile(context.Background(), trainPath)
	suite.Require().NoError(err)
	suite.Equal(80, train.Len())

	test, err := sink.ReadFile(context.Background(), testPath)
	suite.Require().NoError(err)
	suite.Equal(20, test.Len())
}

func (suite *PipelineCmdTestSuite) TestPrepareErrors() {
	err := suite.run("prepare")
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	err = suite.run("prepare", filepath.Join(suite.dir, "missing.csv"))
	suite.Error(err)

	err = suite.run("prepare", "--test-fraction", "1", suite.bars)
	suite.True(errors.IsInvalidArgumentError(err))
}

func (suite *PipelineCmdTestSuite) TestRunFromConfig() {
	fullPath := filepath.Join(suite.dir, "out", "S&P_stock_data.csv")
	dbPath := filepath.Join(suite.dir, "out", "S&P_stock_data.db")

	config := suite.writeConfig(fmt.Sprintf(`
fetch:
  provider: csv
  csv_path: %s
  start_date: "2000-01-01"
  end_date: "2001-01-01"
output:
  csv_path: %s
  database_url: sqlite:///%s
`, suite.bars, fullPath, dbPath))

	suite.Require().NoError(suite.run("run", "--config", config))
	suite.Contains(suite.out.String(), "Saved 100 rows")

	full, err := sink.ReadCSV(fullPath)
	suite.Require().NoError(err)
	suite.Equal(100, full.Len())

	stored, err := sink.ReadSQL(context.Background(), "sqlite:///"+dbPath, "stock_data")
	suite.Require().NoError(err)
	suite.Equal(90, stored.Len())
}

func (suite *PipelineCmdTestSuite) TestRunFlagsOverrideConfig() {
	config := suite.writeConfig(fmt.Sprintf(`
fetch:
  provider: csv
  csv_path: %s
  end_date: "2001-01-01"
output:
  csv_path: %s
  database_url: ""
`, suite.bars, filepath.Join(suite.dir, "full.csv")))

	err := suite.run("run", "--config", config, "--ticker", "AAPL")
	suite.True(errors.HasCode(err, errors.ErrCodeSymbolNotFound))

	err = suite.run("run", "--config", config, "--start", "2002-01-01")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *PipelineCmdTestSuite) TestDownloadWithCSVProvider() {
	dataDir := filepath.Join(suite.dir, "data")

	suite.Require().NoError(suite.run("download",
		"--provider", "csv", "--csv-path", suite.bars,
		"--start", "2000-01-01", "--end", "2000-12-31",
		"--data", dataDir, "--quiet"))

	path := filepath.Join(dataDir, "GSPC_2000-01-01_2000-12-31_1_day.parquet")
	_, err := os.Stat(path)
	suite.NoError(err)
	suite.Contains(suite.out.String(), path)
}

func (suite *PipelineCmdTestSuite) TestDownloadValidation() {
	err := suite.run("download", "--start", "2020-01-01", "--end", "2019-01-01")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	err = suite.run("download", "--provider", "polygon", "--api-key", "", "--end", "2020-01-01")
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *PipelineCmdTestSuite) TestProgressRendersToWriter() {
	var buf bytes.Buffer

	p := newProgress(&buf)
	p.update(1, 10, "Downloading ^GSPC")
	p.update(10, 20, "Downloading ^GSPC")

	suite.Equal(int64(20), p.bar.GetMax64())
	suite.Contains(buf.String(), "Downloading ^GSPC")
}
