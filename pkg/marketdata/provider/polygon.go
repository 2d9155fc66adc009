package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata/writer"
)

// PolygonAggsIterator is the subset of the polygon aggregates iterator used here.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the subset of the polygon REST client used here.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonRESTClient struct {
	client *polygon.Client
}

func (p *polygonRESTClient) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return p.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	apiClient PolygonAPIClient
	writer    writer.MarketDataWriter
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "apiKey is required")
	}

	return NewPolygonClientWithAPI(&polygonRESTClient{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a polygon provider over an existing API client.
func NewPolygonClientWithAPI(api PolygonAPIClient) *PolygonClient {
	return &PolygonClient{apiClient: api}
}

func (c *PolygonClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (string, error) {
	return runDownload(c.writer, ticker, func(emit emitFunc) error {
		totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
		bar := progressbar.NewOptions(totalDays,
			progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", ticker)),
			progressbar.OptionShowCount())

		//nolint:exhaustruct // third-party struct with many optional fields
		params := models.ListAggsParams{
			Ticker:     ticker,
			Multiplier: multiplier,
			Timespan:   timespan,
			From:       models.Millis(startDate),
			To:         models.Millis(endDate),
		}.WithLimit(50000)

		aggs := c.apiClient.ListAggs(ctx, params)

		processed := 0
		for aggs.Next() {
			agg := aggs.Item()
			current := time.Time(agg.Timestamp)

			if err := emit(types.PriceBar{
				Symbol: ticker,
				Date:   current,
				Open:   agg.Open,
				High:   agg.High,
				Low:    agg.Low,
				Close:  agg.Close,
				Volume: int64(agg.Volume),
			}); err != nil {
				return err
			}

			processed++
			daysElapsed := int(current.Sub(startDate).Hours() / 24)
			notify(onProgress, float64(daysElapsed), float64(totalDays), fmt.Sprintf("Downloading %s", ticker))

			if processed%1000 == 0 {
				_ = bar.Set(daysElapsed)
			}
		}

		if err := aggs.Err(); err != nil {
			return errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon aggregates for %s", ticker)
		}

		_ = bar.Finish()

		return nil
	})
}
