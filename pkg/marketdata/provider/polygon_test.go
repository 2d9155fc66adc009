package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"

	argoerrors "github.com/rxtech-lab/argo-dataprep/pkg/errors"
)

// mockPolygonAPIClient implements PolygonAPIClient for testing.
type mockPolygonAPIClient struct {
	iterator   PolygonAggsIterator
	lastParams *models.ListAggsParams
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.lastParams = params
	return m.iterator
}

// mockPolygonIterator implements PolygonAggsIterator for testing.
type mockPolygonIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockPolygonIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++
		return true
	}
	return false
}

func (m *mockPolygonIterator) Item() models.Agg {
	return m.aggs[m.index-1]
}

func (m *mockPolygonIterator) Err() error {
	return m.err
}

type PolygonClientTestSuite struct {
	suite.Suite
	start time.Time
	end   time.Time
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.end = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient() {
	client, err := NewPolygonClient("test-api-key")
	suite.Require().NoError(err)

	polygonClient, ok := client.(*PolygonClient)
	suite.True(ok)
	suite.NotNil(polygonClient.apiClient)
	suite.Nil(polygonClient.writer)

	_, err = NewPolygonClient("")
	suite.Error(err)
	suite.Contains(err.Error(), "apiKey is required")
}

func (suite *PolygonClientTestSuite) TestDownloadWriterInitializeError() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: &mockPolygonIterator{}})
	client.ConfigWriter(&mockWriter{initializeErr: errors.New("initialization failed")})

	_, err := client.Download(context.Background(), "SPY", suite.start, suite.end, 1, models.Day, nil)
	suite.Error(err)
	suite.Contains(err.Error(), "failed to initialize writer")
}

func (suite *PolygonClientTestSuite) TestDownloadSuccess() {
	aggs := []models.Agg{
		{Timestamp: models.Millis(time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC)), Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1000000},
		{Timestamp: models.Millis(time.Date(2024, 1, 3, 5, 0, 0, 0, time.UTC)), Open: 100.5, High: 102, Low: 100, Close: 101.5, Volume: 1500000},
	}
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: aggs}}
	w := &mockWriter{outputPath: "/tmp/test.parquet"}

	client := NewPolygonClientWithAPI(api)
	client.ConfigWriter(w)

	var progressCalls int
	path, err := client.Download(context.Background(), "SPY", suite.start, suite.end, 1, models.Day, func(current, total float64, _ string) {
		progressCalls++
		suite.LessOrEqual(current, total)
	})
	suite.Require().NoError(err)
	suite.Equal("/tmp/test.parquet", path)
	suite.Equal(2, progressCalls)

	suite.Require().Len(w.writtenData, 2)
	first := w.writtenData[0]
	suite.Equal("SPY", first.Symbol)
	suite.Equal(100.5, first.Close)
	suite.Equal(int64(1000000), first.Volume)
	suite.NotEmpty(first.ID)

	suite.Equal("SPY", api.lastParams.Ticker)
	suite.Equal(models.Day, api.lastParams.Timespan)
}

func (suite *PolygonClientTestSuite) TestDownloadEmptyIsNoData() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: &mockPolygonIterator{}})
	client.ConfigWriter(&mockWriter{})

	_, err := client.Download(context.Background(), "NOPE", suite.start, suite.end, 1, models.Day, nil)
	suite.True(argoerrors.HasCode(err, argoerrors.ErrCodeNoDataFound))
}

func (suite *PolygonClientTestSuite) TestDownloadIteratorError() {
	iter := &mockPolygonIterator{err: errors.New("API rate limit exceeded")}
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: iter})
	client.ConfigWriter(&mockWriter{})

	_, err := client.Download(context.Background(), "SPY", suite.start, suite.end, 1, models.Day, nil)
	suite.True(argoerrors.HasCode(err, argoerrors.ErrCodeMarketDataFetchFailed))
	suite.Contains(err.Error(), "API rate limit exceeded")
}

func (suite *PolygonClientTestSuite) TestDownloadWriteError() {
	aggs := []models.Agg{{Timestamp: models.Millis(suite.start), Close: 1}}
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: aggs}})
	client.ConfigWriter(&mockWriter{writeErr: errors.New("disk full")})

	_, err := client.Download(context.Background(), "SPY", suite.start, suite.end, 1, models.Day, nil)
	suite.True(argoerrors.HasCode(err, argoerrors.ErrCodeMarketDataWriteFailed))
}
