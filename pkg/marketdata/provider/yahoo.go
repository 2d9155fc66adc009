package provider

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata/writer"
)

// DefaultYahooBaseURL is the Yahoo Finance chart API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

const yahooUserAgent = "Mozilla/5.0 (compatible; argo-dataprep/1.0)"

// YahooClient downloads daily and intraday bars from the Yahoo Finance chart API.
type YahooClient struct {
	http   *resty.Client
	writer writer.MarketDataWriter
}

// NewYahooClient creates a Yahoo client against baseURL, or the public API when empty.
func NewYahooClient(baseURL string) Provider {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", yahooUserAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	return &YahooClient{http: client}
}

func (c *YahooClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooChartError   `json:"error"`
	} `json:"chart"`
}

type yahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		GMTOffset int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Download requests the chart for [startDate, endDate) and writes every
// complete bar. Bars with any missing price are skipped.
func (c *YahooClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (string, error) {
	interval, err := convertTimespanToYahooInterval(timespan, multiplier)
	if err != nil {
		return "", err
	}

	return runDownload(c.writer, ticker, func(emit emitFunc) error {
		notify(onProgress, 0, 1, fmt.Sprintf("Requesting %s from Yahoo Finance", ticker))

		result, err := c.chart(ctx, ticker, startDate, endDate, interval)
		if err != nil {
			return err
		}

		daily := timespan == models.Day || timespan == models.Week || timespan == models.Month
		if err := emitYahooBars(result, ticker, daily, emit); err != nil {
			return err
		}

		notify(onProgress, 1, 1, fmt.Sprintf("Downloaded %s from Yahoo Finance", ticker))

		return nil
	})
}

func (c *YahooClient) chart(ctx context.Context, ticker string, start, end time.Time, interval string) (*yahooChartResult, error) {
	var body yahooChartResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("symbol", ticker).
		SetQueryParams(map[string]string{
			"period1":  strconv.FormatInt(start.Unix(), 10),
			"period2":  strconv.FormatInt(end.Unix(), 10),
			"interval": interval,
			"events":   "history",
		}).
		SetResult(&body).
		SetError(&body).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to request chart for %s", ticker)
	}

	if body.Chart.Error != nil {
		if resp.StatusCode() == http.StatusNotFound || strings.EqualFold(body.Chart.Error.Code, "Not Found") {
			return nil, errors.Newf(errors.ErrCodeSymbolNotFound, "symbol %s not found: %s", ticker, body.Chart.Error.Description)
		}

		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "yahoo error for %s: %s", ticker, body.Chart.Error.Description)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, errors.Newf(errors.ErrCodeSymbolNotFound, "symbol %s not found", ticker)
	}

	if resp.IsError() {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "yahoo returned status %d for %s", resp.StatusCode(), ticker)
	}

	if len(body.Chart.Result) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no chart data for %s", ticker)
	}

	return &body.Chart.Result[0], nil
}

func emitYahooBars(result *yahooChartResult, ticker string, daily bool, emit emitFunc) error {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	quote := result.Indicators.Quote[0]
	offset := time.Duration(result.Meta.GMTOffset) * time.Second

	for i, ts := range result.Timestamp {
		open, okOpen := valueAt(quote.Open, i)
		high, okHigh := valueAt(quote.High, i)
		low, okLow := valueAt(quote.Low, i)
		closePrice, okClose := valueAt(quote.Close, i)
		if !okOpen || !okHigh || !okLow || !okClose {
			continue
		}

		volume, _ := valueAt(quote.Volume, i)

		date := time.Unix(ts, 0).UTC()
		if daily {
			// exchange-local calendar date
			local := date.Add(offset)
			date = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
		}

		if err := emit(types.PriceBar{
			Symbol: ticker,
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: int64(volume),
		}); err != nil {
			return err
		}
	}

	return nil
}

func valueAt(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}

	return *values[i], true
}

// convertTimespanToYahooInterval maps a timespan and multiplier onto the
// intervals the chart API accepts: 1m 2m 5m 15m 30m 60m 90m 1h 1d 5d 1wk 1mo 3mo.
func convertTimespanToYahooInterval(timespan models.Timespan, multiplier int) (string, error) {
	supported := map[models.Timespan][]int{
		models.Minute: {1, 2, 5, 15, 30, 60, 90},
		models.Hour:   {1},
		models.Day:    {1, 5},
		models.Week:   {1},
		models.Month:  {1, 3},
	}

	suffix := map[models.Timespan]string{
		models.Minute: "m",
		models.Hour:   "h",
		models.Day:    "d",
		models.Week:   "wk",
		models.Month:  "mo",
	}

	for _, m := range supported[timespan] {
		if m == multiplier {
			return fmt.Sprintf("%d%s", multiplier, suffix[timespan]), nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported Yahoo interval: %d %s", multiplier, timespan)
}
