package marketdata

import (
	"slices"

	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
	"github.com/rxtech-lab/argo-dataprep/pkg/utils"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
	// Default marks the provider used when none is configured.
	Default bool `json:"default"`
}

// providerRegistry holds metadata about all supported providers.
var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderYahoo: {
		Name:         string(ProviderYahoo),
		DisplayName:  "Yahoo Finance",
		Description:  "Daily and intraday OHLCV history for stocks and indices such as ^GSPC",
		RequiresAuth: false,
		Default:      true,
	},
	ProviderPolygon: {
		Name:         string(ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "US stock market data provider with real-time and historical OHLCV data",
		RequiresAuth: true,
	},
	ProviderBinance: {
		Name:         string(ProviderBinance),
		DisplayName:  "Binance",
		Description:  "Cryptocurrency exchange with extensive market data for crypto trading pairs",
		RequiresAuth: false,
	},
	ProviderCSV: {
		Name:         string(ProviderCSV),
		DisplayName:  "CSV file",
		Description:  "Local bar file with date, symbol, open, high, low, close and volume columns",
		RequiresAuth: false,
	},
}

// DefaultProvider is the provider used when none is configured.
const DefaultProvider = ProviderYahoo

// GetSupportedProviders returns the names of all supported providers, sorted.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	slices.Sort(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// GetDownloadConfigSchema returns the JSON schema for a provider's download configuration.
func GetDownloadConfigSchema(providerName string) (string, error) {
	if _, err := GetProviderInfo(providerName); err != nil {
		return "", err
	}

	//nolint:exhaustruct // Empty struct is intentional for schema generation
	return utils.ToJSONSchema(DownloadConfig{})
}
