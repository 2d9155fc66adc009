package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/polygon-io/client-go/rest/models"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-dataprep/internal/logger"
	"github.com/rxtech-lab/argo-dataprep/internal/types"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata/writer"
	"github.com/rxtech-lab/argo-dataprep/pkg/table"
)

// ProviderType defines the type of market data provider.
type ProviderType = provider.ProviderType

const (
	ProviderYahoo   = provider.ProviderYahoo
	ProviderPolygon = provider.ProviderPolygon
	ProviderBinance = provider.ProviderBinance
	ProviderCSV     = provider.ProviderCSV
)

// WriterType defines the type of market data writer.
type WriterType string

const (
	WriterDuckDB WriterType = "duckdb"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  ProviderType `validate:"required,oneof=yahoo polygon binance csv"`
	WriterType    WriterType   `validate:"omitempty,oneof=duckdb"`
	DataPath      string
	PolygonApiKey string `validate:"required_if=ProviderType polygon"`
	CSVPath       string `validate:"required_if=ProviderType csv"`
	YahooBaseURL  string `validate:"omitempty,url"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Ticker     string          `validate:"required"`
	StartDate  time.Time       `validate:"required"`
	EndDate    time.Time       `validate:"required,gtfield=StartDate"`
	Multiplier int             `validate:"required,min=1"`
	Timespan   models.Timespan `validate:"required"`
}

// FetchParams describes the bars Fetch loads into a table.
type FetchParams struct {
	Ticker    string    `validate:"required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
	// Interval defaults to one day.
	Interval Timespan
}

// Fetcher loads price bars for one symbol into a table.
type Fetcher interface {
	Fetch(ctx context.Context, params FetchParams) (*table.Table, error)
}

// symbolAliases maps the index names people type to the ticker Yahoo uses.
var symbolAliases = map[string]string{
	"SPX":    "^GSPC",
	"SP500":  "^GSPC",
	"S&P500": "^GSPC",
	"DJI":    "^DJI",
	"NDX":    "^NDX",
}

// ResolveSymbol upper-cases ticker and resolves well known index aliases.
func ResolveSymbol(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if alias, ok := symbolAliases[ticker]; ok {
		return alias
	}

	return ticker
}

// Client is the market data client responsible for downloading data from
// providers and handing it to writers.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
	log        *logger.Logger
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, provider.Config{
		PolygonAPIKey: config.PolygonApiKey,
		YahooBaseURL:  config.YahooBaseURL,
		CSVPath:       config.CSVPath,
	})
	if err != nil {
		return nil, err
	}

	return NewClientWithProvider(marketProvider, config, onProgress, log), nil
}

// NewClientWithProvider creates a client around an already constructed provider.
func NewClientWithProvider(p provider.Provider, config ClientConfig, onProgress provider.OnDownloadProgress, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}

	if config.WriterType == "" {
		config.WriterType = WriterDuckDB
	}

	return &Client{
		provider:   p,
		config:     config,
		validate:   validator.New(),
		onProgress: onProgress,
		log:        log,
	}
}

// Fetch loads the bars for params.Ticker into a table with the columns
// date, open, high, low, close, volume, symbol and id, sorted by date.
// Provider errors are returned as they are so callers can check their codes.
func (c *Client) Fetch(ctx context.Context, params FetchParams) (*table.Table, error) {
	if err := c.validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid fetch parameters", err)
	}

	interval, err := ParseTimespan(string(params.Interval))
	if err != nil {
		return nil, err
	}

	ticker := ResolveSymbol(params.Ticker)

	c.log.Info("Fetching market data",
		zap.String("provider", string(c.config.ProviderType)),
		zap.String("ticker", ticker),
		zap.Time("start", params.StartDate),
		zap.Time("end", params.EndDate),
		zap.String("interval", string(interval)),
	)

	memoryWriter := writer.NewMemoryWriter()
	c.provider.ConfigWriter(memoryWriter)

	_, err = c.provider.Download(ctx, ticker, params.StartDate, params.EndDate,
		interval.Multiplier(), interval.Timespan(), c.onProgress)
	if err != nil {
		c.log.Error("Failed to fetch market data", zap.String("ticker", ticker), zap.Error(err))

		return nil, err
	}

	bars := memoryWriter.Bars()
	for i := range bars {
		bars[i].Date = interval.normalizeDate(bars[i].Date)
	}

	slices.SortStableFunc(bars, func(a, b types.PriceBar) int {
		return a.Date.Compare(b.Date)
	})

	c.log.Info("Fetched market data", zap.String("ticker", ticker), zap.Int("rows", len(bars)))

	return table.FromBars(bars), nil
}

// Download initiates a market data download with the given parameters and
// returns the path of the written Parquet file.
// The context can be used to cancel the download operation.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	params.Ticker = ResolveSymbol(params.Ticker)

	marketWriter, err := c.setupWriter(params)
	if err != nil {
		return "", err
	}

	c.provider.ConfigWriter(marketWriter)

	path, err := c.provider.Download(
		ctx,
		params.Ticker,
		params.StartDate,
		params.EndDate,
		params.Multiplier,
		params.Timespan,
		c.onProgress,
	)
	if err != nil {
		c.log.Error("Download failed", zap.String("ticker", params.Ticker), zap.Error(err))

		return "", err
	}

	c.log.Info("Download completed", zap.String("ticker", params.Ticker), zap.String("path", path))

	return path, nil
}

// OutputFileName is the Parquet file name Download writes for params:
// TICKER_START_END_MULTIPLIER_TIMESPAN.parquet.
func OutputFileName(params DownloadParams) string {
	return fmt.Sprintf("%s_%s_%s_%d_%s.parquet",
		strings.ReplaceAll(params.Ticker, "^", ""),
		params.StartDate.Format(time.DateOnly),
		params.EndDate.Format(time.DateOnly),
		params.Multiplier,
		params.Timespan)
}

// setupWriter creates the writer selected by the configuration. The provider
// owns the writer lifecycle from here on.
func (c *Client) setupWriter(params DownloadParams) (writer.MarketDataWriter, error) {
	switch c.config.WriterType {
	case WriterDuckDB:
		if c.config.DataPath == "" {
			return nil, errors.New(errors.ErrCodeMissingParameter, "data path is required to download market data")
		}

		if err := os.MkdirAll(c.config.DataPath, 0o755); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create data path %s", c.config.DataPath)
		}

		outputPath := filepath.Join(c.config.DataPath, OutputFileName(params))

		return writer.NewDuckDBWriter(outputPath, c.log), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported writer type: %s", c.config.WriterType)
	}
}
