package provider

import (
	"context"
	"time"

	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata/writer"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderYahoo   ProviderType = "yahoo"
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
	ProviderCSV     ProviderType = "csv"
)

type OnDownloadProgress = func(current float64, total float64, message string)

type Provider interface {
	// ConfigWriter configures the writer that receives downloaded bars.
	ConfigWriter(writer writer.MarketDataWriter)
	// Download fetches bars for ticker between startDate and endDate and
	// passes them to the configured writer. It returns the writer's output
	// path. Unknown symbols fail with ErrCodeSymbolNotFound and empty ranges
	// with ErrCodeNoDataFound.
	// example:
	// Download(ctx, "^GSPC", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.Now(), 1, models.Day, onProgress)
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, onProgress OnDownloadProgress) (path string, err error)
}

// Config carries the provider-specific settings NewMarketDataProvider needs.
type Config struct {
	PolygonAPIKey string
	YahooBaseURL  string
	CSVPath       string
}

// NewMarketDataProvider creates a market data provider of the given type.
func NewMarketDataProvider(providerType ProviderType, config Config) (Provider, error) {
	switch providerType {
	case ProviderYahoo:
		return NewYahooClient(config.YahooBaseURL), nil
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		return NewPolygonClient(config.PolygonAPIKey)
	case ProviderCSV:
		return NewCSVClient(config.CSVPath)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
