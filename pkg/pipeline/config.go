// Package pipeline wires fetching, feature engineering, preparation and
// persistence into the tutorial data pipeline.
package pipeline

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-dataprep/internal/logger"
	"github.com/rxtech-lab/argo-dataprep/internal/version"
	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/features"
	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata"
	"github.com/rxtech-lab/argo-dataprep/pkg/preprocess"
	"github.com/rxtech-lab/argo-dataprep/pkg/sink"
)

// EnvPrefix prefixes every environment override, e.g. DATAPREP_FETCH_TICKER.
const EnvPrefix = "DATAPREP"

// Defaults of the tutorial run.
const (
	DefaultTicker      = "^GSPC"
	DefaultStartDate   = "2000-01-01"
	DefaultDataDir     = "data/misc/tutorials"
	DefaultCSVFileName = "S&P_stock_data.csv"
	DefaultDBFileName  = "S&P_stock_data.db"
)

// Config describes one pipeline run.
type Config struct {
	Version  string        `yaml:"version" json:"version" jsonschema:"title=Version,description=Tool version the config was written for"`
	LogLevel string        `yaml:"log_level" json:"log_level" envconfig:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error" jsonschema:"title=Log level,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	Fetch    FetchConfig   `yaml:"fetch" json:"fetch" envconfig:"FETCH"`
	Prepare  PrepareConfig `yaml:"prepare" json:"prepare" envconfig:"PREPARE"`
	Output   OutputConfig  `yaml:"output" json:"output" envconfig:"OUTPUT"`
}

// FetchConfig selects the provider and the bars to fetch.
type FetchConfig struct {
	Provider  string `yaml:"provider" json:"provider" envconfig:"PROVIDER" validate:"required,oneof=yahoo polygon binance csv" jsonschema:"title=Provider,enum=yahoo,enum=polygon,enum=binance,enum=csv,default=yahoo"`
	Ticker    string `yaml:"ticker" json:"ticker" envconfig:"TICKER" validate:"required" jsonschema:"title=Ticker,description=Symbol to fetch; SPX and SP500 resolve to ^GSPC,default=^GSPC"`
	StartDate string `yaml:"start_date" json:"start_date" envconfig:"START_DATE" validate:"required" jsonschema:"title=Start date,description=YYYY-MM-DD,default=2000-01-01"`
	// EndDate defaults to today.
	EndDate       string `yaml:"end_date,omitempty" json:"end_date,omitempty" envconfig:"END_DATE" jsonschema:"title=End date,description=YYYY-MM-DD; empty means today"`
	Interval      string `yaml:"interval" json:"interval" envconfig:"INTERVAL" validate:"omitempty,oneof=1s 1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h 1d 3d 1w 1M" jsonschema:"title=Interval,default=1d"`
	PolygonApiKey string `yaml:"polygon_api_key,omitempty" json:"polygon_api_key,omitempty" envconfig:"POLYGON_API_KEY" validate:"required_if=Provider polygon" jsonschema:"title=Polygon API key"`
	CSVPath       string `yaml:"csv_path,omitempty" json:"csv_path,omitempty" envconfig:"CSV_PATH" validate:"required_if=Provider csv" jsonschema:"title=Bar file for the csv provider"`
	YahooBaseURL  string `yaml:"yahoo_base_url,omitempty" json:"yahoo_base_url,omitempty" envconfig:"YAHOO_BASE_URL" validate:"omitempty,url" jsonschema:"title=Yahoo chart API base URL"`
}

// PrepareConfig controls feature engineering and the train/test split.
type PrepareConfig struct {
	TestFraction  float64          `yaml:"test_fraction" json:"test_fraction" envconfig:"TEST_FRACTION" validate:"gte=0,lt=1" jsonschema:"title=Test fraction,default=0.1"`
	SkipNormalize bool             `yaml:"skip_normalize" json:"skip_normalize" envconfig:"SKIP_NORMALIZE" jsonschema:"title=Skip normalization"`
	Features      features.Options `yaml:"features" json:"features" envconfig:"FEATURES"`
}

// OutputConfig names the sinks of a run.
type OutputConfig struct {
	// CSVPath receives the cleaned, featured full table; the training split
	// goes next to it with a _train suffix.
	CSVPath string `yaml:"csv_path" json:"csv_path" envconfig:"CSV_PATH" validate:"required" jsonschema:"title=Full table CSV path"`
	// DatabaseURL receives the training split. Empty skips the database.
	DatabaseURL string `yaml:"database_url,omitempty" json:"database_url,omitempty" envconfig:"DATABASE_URL" jsonschema:"title=Database URL,description=sqlite:///path or duckdb:///path or postgres://..."`
	TableName   string `yaml:"table_name" json:"table_name" envconfig:"TABLE_NAME" validate:"required" jsonschema:"title=Table name,default=stock_data"`
	ParquetPath string `yaml:"parquet_path,omitempty" json:"parquet_path,omitempty" envconfig:"PARQUET_PATH" jsonschema:"title=Optional Parquet copy of the full table"`
	XLSXPath    string `yaml:"xlsx_path,omitempty" json:"xlsx_path,omitempty" envconfig:"XLSX_PATH" jsonschema:"title=Optional Excel copy of the full table"`
}

// DefaultConfig reproduces the tutorial: ^GSPC daily bars since 2000 from
// Yahoo, the full table to CSV and the training split to CSV and SQLite.
func DefaultConfig() Config {
	return Config{
		Version:  version.GetVersion(),
		LogLevel: "info",
		Fetch: FetchConfig{
			Provider:  string(marketdata.DefaultProvider),
			Ticker:    DefaultTicker,
			StartDate: DefaultStartDate,
			Interval:  string(marketdata.DefaultTimespan),
		},
		Prepare: PrepareConfig{
			TestFraction: preprocess.DefaultTestFraction,
			Features:     features.DefaultOptions(),
		},
		Output: OutputConfig{
			CSVPath:     filepath.Join(DefaultDataDir, DefaultCSVFileName),
			DatabaseURL: "sqlite:///" + filepath.Join(DefaultDataDir, DefaultDBFileName),
			TableName:   sink.DefaultTableName,
		},
	}
}

// LoadConfig starts from DefaultConfig, overlays the YAML file at path (if
// path is not empty) and then DATAPREP_* environment variables, and validates
// the result.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field values, dates, feature options and that the config
// version can be run by this build.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid pipeline config", err)
	}

	if c.Version != "" {
		if err := version.CheckVersionCompatibility(version.GetVersion(), c.Version); err != nil {
			return err
		}
	}

	if _, err := c.FetchParams(time.Now()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid fetch range", err)
	}

	return c.Prepare.Features.Validate()
}

// FetchParams resolves the fetch range; an empty end date means the day of now.
func (c *Config) FetchParams(now time.Time) (marketdata.FetchParams, error) {
	start, err := marketdata.ParseDate(c.Fetch.StartDate)
	if err != nil {
		return marketdata.FetchParams{}, err
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if c.Fetch.EndDate != "" {
		end, err = marketdata.ParseDate(c.Fetch.EndDate)
		if err != nil {
			return marketdata.FetchParams{}, err
		}
	}

	if !end.After(start) {
		return marketdata.FetchParams{}, errors.NewInvalidArgumentError("end_date", end.Format(time.DateOnly), "must be after start_date")
	}

	interval, err := marketdata.ParseTimespan(c.Fetch.Interval)
	if err != nil {
		return marketdata.FetchParams{}, err
	}

	return marketdata.FetchParams{
		Ticker:    c.Fetch.Ticker,
		StartDate: start,
		EndDate:   end,
		Interval:  interval,
	}, nil
}

// ClientConfig is the market data client configuration of the run.
func (c *Config) ClientConfig() marketdata.ClientConfig {
	return marketdata.ClientConfig{
		ProviderType:  marketdata.ProviderType(c.Fetch.Provider),
		WriterType:    marketdata.WriterDuckDB,
		PolygonApiKey: c.Fetch.PolygonApiKey,
		CSVPath:       c.Fetch.CSVPath,
		YahooBaseURL:  c.Fetch.YahooBaseURL,
	}
}

// PrepareOptions is the preprocess configuration of the run.
func (c *Config) PrepareOptions() preprocess.PrepareOptions {
	return preprocess.PrepareOptions{
		Features:      c.Prepare.Features,
		SkipNormalize: c.Prepare.SkipNormalize,
	}
}

// FullSinks receive the cleaned and featured full table.
func (c *Config) FullSinks(log *logger.Logger) []sink.Sink {
	sinks := []sink.Sink{sink.NewCSVSink(c.Output.CSVPath, log)}

	if c.Output.ParquetPath != "" {
		sinks = append(sinks, sink.NewParquetSink(c.Output.ParquetPath, log))
	}

	if c.Output.XLSXPath != "" {
		sinks = append(sinks, sink.NewXLSXSink(c.Output.XLSXPath, "", log))
	}

	return sinks
}

// TrainSinks receive the training split.
func (c *Config) TrainSinks(log *logger.Logger) []sink.Sink {
	sinks := []sink.Sink{sink.NewCSVSink(sink.TrainPath(c.Output.CSVPath), log)}

	if c.Output.DatabaseURL != "" {
		sinks = append(sinks, sink.NewSQLSink(c.Output.DatabaseURL, c.Output.TableName, log))
	}

	return sinks
}

// WriteYAML writes the config to path, creating parent directories.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to encode config", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(errors.ErrCodeSinkOpenFailed, err, "failed to create directory %s", dir)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeSinkWriteFailed, err, "failed to write %s", path)
	}

	return nil
}
