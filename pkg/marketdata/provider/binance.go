package provider

import (
	"context"
	goerrors "errors"
	"fmt"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata/writer"
)

// binanceKlinesLimit is the page size the klines endpoint returns by default.
const binanceKlinesLimit = 500

// binanceInvalidSymbol is the API error code for an unknown trading pair.
const binanceInvalidSymbol = -1121

// BinanceKlinesService is the subset of the klines request builder used here.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient is the subset of the Binance client used here.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

type binanceRESTClient struct {
	client *binance.Client
}

func (b *binanceRESTClient) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesService{svc: b.client.NewKlinesService()}
}

type binanceKlinesService struct {
	svc *binance.KlinesService
}

func (s *binanceKlinesService) Symbol(symbol string) BinanceKlinesService {
	s.svc.Symbol(symbol)
	return s
}

func (s *binanceKlinesService) Interval(interval string) BinanceKlinesService {
	s.svc.Interval(interval)
	return s
}

func (s *binanceKlinesService) StartTime(startTime int64) BinanceKlinesService {
	s.svc.StartTime(startTime)
	return s
}

func (s *binanceKlinesService) EndTime(endTime int64) BinanceKlinesService {
	s.svc.EndTime(endTime)
	return s
}

func (s *binanceKlinesService) Do(ctx context.Context) ([]*binance.Kline, error) {
	return s.svc.Do(ctx)
}

type BinanceClient struct {
	apiClient BinanceAPIClient
	writer    writer.MarketDataWriter
}

func NewBinanceClient() (Provider, error) {
	return NewBinanceClientWithAPI(&binanceRESTClient{client: binance.NewClient("", "")}), nil
}

// NewBinanceClientWithAPI creates a Binance provider over an existing API client.
func NewBinanceClientWithAPI(api BinanceAPIClient) *BinanceClient {
	return &BinanceClient{apiClient: api}
}

func (c *BinanceClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

// Download pages through the klines endpoint, 500 bars at a time, starting
// each page one millisecond after the previous page's last close time.
func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (string, error) {
	interval, err := convertTimespanToBinanceInterval(timespan, multiplier)
	if err != nil {
		return "", err
	}

	return runDownload(c.writer, ticker, func(emit emitFunc) error {
		start := startDate.UnixMilli()
		end := endDate.UnixMilli()
		current := start

		for {
			klines, err := c.apiClient.NewKlinesService().
				Symbol(ticker).
				Interval(interval).
				StartTime(current).
				EndTime(end).
				Do(ctx)
			if err != nil {
				return classifyBinanceError(ticker, err)
			}

			notify(onProgress, float64(current-start), float64(end-start), fmt.Sprintf("Downloading %s klines from Binance", ticker))

			if err := processKlines(ticker, klines, emit); err != nil {
				return err
			}

			if len(klines) < binanceKlinesLimit {
				return nil
			}

			current = klines[len(klines)-1].CloseTime + 1
			if current >= end {
				return nil
			}
		}
	})
}

func classifyBinanceError(ticker string, err error) error {
	var apiErr *common.APIError
	if goerrors.As(err, &apiErr) && apiErr.Code == binanceInvalidSymbol {
		return errors.Wrapf(errors.ErrCodeSymbolNotFound, err, "symbol %s not found on Binance", ticker)
	}

	return errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines for %s", ticker)
}

// processKlines converts klines to bars. Prices are parsed as decimals so
// malformed values fail instead of silently becoming zero.
func processKlines(ticker string, klines []*binance.Kline, emit emitFunc) error {
	for _, k := range klines {
		values := make([]float64, 0, 5)
		for _, raw := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline value %q for %s", raw, ticker)
			}

			values = append(values, d.InexactFloat64())
		}

		if err := emit(types.PriceBar{
			Symbol: ticker,
			Date:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   values[0],
			High:   values[1],
			Low:    values[2],
			Close:  values[3],
			Volume: int64(values[4]),
		}); err != nil {
			return err
		}
	}

	return nil
}

// convertTimespanToBinanceInterval converts a timespan and multiplier to a Binance interval string.
// Binance intervals: 1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 8h, 12h, 1d, 3d, 1w, 1M
func convertTimespanToBinanceInterval(timespan models.Timespan, multiplier int) (string, error) {
	switch timespan {
	case models.Minute:
		return fmt.Sprintf("%dm", multiplier), nil
	case models.Hour:
		return fmt.Sprintf("%dh", multiplier), nil
	case models.Day:
		return fmt.Sprintf("%dd", multiplier), nil
	case models.Week:
		if multiplier == 1 {
			return "1w", nil
		}

		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported weekly multiplier for Binance: %d", multiplier)
	case models.Month:
		if multiplier == 1 {
			return "1M", nil
		}

		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported monthly multiplier for Binance: %d", multiplier)
	default:
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported timespan for Binance: %s", timespan)
	}
}
