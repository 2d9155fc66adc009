package marketdata

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
)

// DownloadConfig is the serialized form of a raw bar download request.
type DownloadConfig struct {
	Provider  string `json:"provider" yaml:"provider" jsonschema:"title=Provider,description=Market data provider,enum=yahoo,enum=polygon,enum=binance,enum=csv,default=yahoo" validate:"omitempty,oneof=yahoo polygon binance csv"`
	Ticker    string `json:"ticker" yaml:"ticker" jsonschema:"title=Ticker,description=The symbol to download data for (e.g. ^GSPC or BTCUSDT),required" validate:"required"`
	StartDate string `json:"startDate" yaml:"startDate" jsonschema:"title=Start Date,description=Start date (YYYY-MM-DD or RFC3339),required" validate:"required"`
	EndDate   string `json:"endDate" yaml:"endDate" jsonschema:"title=End Date,description=End date (YYYY-MM-DD or RFC3339),required" validate:"required"`
	Interval  string `json:"interval" yaml:"interval" jsonschema:"title=Interval,description=Data interval,enum=1s,enum=1m,enum=3m,enum=5m,enum=15m,enum=30m,enum=1h,enum=2h,enum=4h,enum=6h,enum=8h,enum=12h,enum=1d,enum=3d,enum=1w,enum=1M,default=1d" validate:"omitempty,oneof=1s 1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h 1d 3d 1w 1M"`
	ApiKey    string `json:"apiKey,omitempty" yaml:"apiKey,omitempty" jsonschema:"title=API Key,description=Polygon.io API key" validate:"required_if=Provider polygon"`
	CSVPath   string `json:"csvPath,omitempty" yaml:"csvPath,omitempty" jsonschema:"title=CSV Path,description=Bar file read by the csv provider" validate:"required_if=Provider csv"`
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.NewInvalidArgumentError("date", value, "expected YYYY-MM-DD or RFC3339")
	}

	return t, nil
}

// Validate checks required fields and the date formats.
func (c *DownloadConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid download config", err)
	}

	start, err := ParseDate(c.StartDate)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid startDate", err)
	}

	end, err := ParseDate(c.EndDate)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid endDate", err)
	}

	if !end.After(start) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "endDate %s must be after startDate %s", c.EndDate, c.StartDate)
	}

	return nil
}

// ParseDownloadConfig decodes and validates a JSON download configuration.
func ParseDownloadConfig(jsonConfig string) (*DownloadConfig, error) {
	var config DownloadConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse download config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ToDownloadParams converts the config into DownloadParams.
func (c *DownloadConfig) ToDownloadParams() (DownloadParams, error) {
	startDate, err := ParseDate(c.StartDate)
	if err != nil {
		return DownloadParams{}, err
	}

	endDate, err := ParseDate(c.EndDate)
	if err != nil {
		return DownloadParams{}, err
	}

	timespan, err := ParseTimespan(c.Interval)
	if err != nil {
		return DownloadParams{}, err
	}

	return DownloadParams{
		Ticker:     c.Ticker,
		StartDate:  startDate,
		EndDate:    endDate,
		Multiplier: timespan.Multiplier(),
		Timespan:   timespan.Timespan(),
	}, nil
}

// ToClientConfig converts the config to a ClientConfig that writes Parquet files under dataPath.
func (c *DownloadConfig) ToClientConfig(dataPath string) ClientConfig {
	providerType := ProviderType(c.Provider)
	if providerType == "" {
		providerType = DefaultProvider
	}

	return ClientConfig{
		ProviderType:  providerType,
		WriterType:    WriterDuckDB,
		DataPath:      dataPath,
		PolygonApiKey: c.ApiKey,
		CSVPath:       c.CSVPath,
	}
}
